package language

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"rust file", "main.rs", "rust"},
		{"typescript react", "App.tsx", "typescriptreact"},
		{"python file", "script.py", "python"},
		{"go file", "server.go", "go"},
		{"header maps to cpp", "util.h", "cpp"},
		{"uppercase extension", "MAIN.RS", "rust"},
		{"toml is plaintext", "Cargo.toml", Plaintext},
		{"unknown extension", "data.xyz123", Plaintext},
		{"no extension unknown name", "LICENSE-FILE-UNUSUAL", Plaintext},
		{"trailing dot", "weird.", Plaintext},
		{"empty name", "", Plaintext},
		{"dotfile multiple segments", "archive.tar.gz", Plaintext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.fileName); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestDetectNeverEmpty(t *testing.T) {
	for _, name := range []string{"", ".", "...", "noext", "x.unknownext", "Makefile"} {
		if got := Detect(name); got == "" {
			t.Errorf("Detect(%q) returned empty identifier", name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"rust", "Rust"},
		{"javascript", "JS"},
		{"typescriptreact", "TSX"},
		{"csharp", "C#"},
		{Plaintext, "Text"},
		{"no-such-language", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDetectDisplayRoundTrip(t *testing.T) {
	// Every identifier the extension table can produce has a display
	// label, so log lines never show "Unknown" for a classified file.
	for ext, id := range extensionLanguages {
		if DisplayName(id) == "Unknown" {
			t.Errorf("extension %q maps to %q which has no display name", ext, id)
		}
	}
}
