package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestHandleServiceCommand_NoArgs(t *testing.T) {
	if HandleServiceCommand([]string{}) {
		t.Error("HandleServiceCommand should return false for empty args")
	}
}

func TestHandleServiceCommand_SingleArg(t *testing.T) {
	if HandleServiceCommand([]string{"coredump"}) {
		t.Error("HandleServiceCommand should return false for a bare program name")
	}
}

func TestHandleServiceCommand_UnknownCommand(t *testing.T) {
	if HandleServiceCommand([]string{"coredump", "bogus"}) {
		t.Error("HandleServiceCommand should return false for an unknown verb")
	}
}

func TestHandleServiceCommand_Help(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"help", "help"},
		{"-h", "-h"},
		{"--help", "--help"},
		{"-help", "-help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldStdout := os.Stdout
			r, w, _ := os.Pipe()
			os.Stdout = w

			handled := HandleServiceCommand([]string{"coredump", tt.command})

			w.Close()
			os.Stdout = oldStdout
			var buf bytes.Buffer
			io.Copy(&buf, r)
			output := buf.String()

			if !handled {
				t.Errorf("HandleServiceCommand should return true for %s", tt.command)
			}
			if !strings.Contains(output, "CoreDump") {
				t.Errorf("help output should name the daemon, got: %s", output)
			}
			for _, verb := range []string{"install", "uninstall", "start", "stop", "restart", "status"} {
				if !strings.Contains(output, verb) {
					t.Errorf("help output missing %q verb, got: %s", verb, output)
				}
			}
		})
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := ServiceConfig()

	if cfg.Name != "coredump" {
		t.Errorf("service name = %q, want coredump", cfg.Name)
	}
	if cfg.DisplayName == "" {
		t.Error("service display name must not be empty")
	}
	if cfg.Description == "" {
		t.Error("service description must not be empty")
	}
}

func TestActionPastTenseStem(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"install", "install"},
		{"uninstall", "uninstall"},
		{"start", "start"},
		{"stop", "stopp"},
		{"restart", "restart"},
	}

	for _, tt := range tests {
		if got := actionPastTenseStem(tt.action); got != tt.want {
			t.Errorf("actionPastTenseStem(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}
