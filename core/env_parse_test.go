package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CD_TEST_SET", "value")

	if got := GetEnvOrDefault("CD_TEST_SET", "fallback"); got != "value" {
		t.Errorf("set var = %q, want value", got)
	}
	if got := GetEnvOrDefault("CD_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("unset var = %q, want fallback", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "42", 42},
		{"negative", "-7", -7},
		{"garbage", "forty", 10},
		{"empty", "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("CD_TEST_INT", tt.value)
			}
			if got := ParseIntEnv("CD_TEST_INT", 10); got != tt.want {
				t.Errorf("ParseIntEnv(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"maybe", true}, // unparseable keeps default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CD_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("CD_TEST_BOOL", true); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("CD_TEST_DUR", "90")
	if got := ParseDurationEnv("CD_TEST_DUR", 45); got != 90*time.Second {
		t.Errorf("ParseDurationEnv = %v, want 90s", got)
	}
	if got := ParseDurationEnv("CD_TEST_DUR_UNSET", 45); got != 45*time.Second {
		t.Errorf("default = %v, want 45s", got)
	}
}
