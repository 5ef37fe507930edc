// Package window answers two questions for the poll loop: is the tracked
// editor focused, and which file does its window title show. All answers
// are best effort. A missing tool, no active window, or an unparseable
// title means "no sample this tick", never an error.
package window

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Sampler is the focus-sampling capability the poll loop depends on.
// Implementations must never block beyond the underlying OS call and
// must swallow all failures.
type Sampler interface {
	// IsEditorFocused reports whether the tracked editor owns the
	// currently active window. Returns false on any underlying error.
	IsEditorFocused() bool

	// CurrentFileName returns the file name shown in the active window
	// title. The second return is false when no parseable file-name
	// segment is available.
	CurrentFileName() (string, bool)
}

// XdotoolSampler resolves focus via the xdotool CLI and /proc. It is the
// production Sampler on X11 desktops.
type XdotoolSampler struct {
	// EditorProcess is the process name fragment identifying the tracked
	// editor, e.g. "zed".
	EditorProcess string

	// procRoot lets tests point /proc lookups at a fixture tree.
	procRoot string
}

// NewXdotoolSampler creates a sampler tracking the given editor process
// name.
func NewXdotoolSampler(editorProcess string) *XdotoolSampler {
	return &XdotoolSampler{EditorProcess: editorProcess, procRoot: "/proc"}
}

// Available reports whether xdotool can be invoked at all. Used by
// startup validation; a missing tool is fatal before the loops start.
func Available() bool {
	return exec.Command("xdotool", "--version").Run() == nil
}

func (s *XdotoolSampler) IsEditorFocused() bool {
	pid, ok := s.activeWindowPID()
	if !ok {
		return false
	}
	name, ok := s.processName(pid)
	if !ok {
		return false
	}
	return matchesEditor(name, s.EditorProcess)
}

func (s *XdotoolSampler) CurrentFileName() (string, bool) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return "", false
	}
	return ParseFileFromTitle(strings.TrimSpace(string(out)), s.EditorProcess)
}

// activeWindowPID asks xdotool for the pid owning the active window.
func (s *XdotoolSampler) activeWindowPID() (int, bool) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowpid").Output()
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

// processName reads the leading argv entry from /proc/<pid>/cmdline and
// returns its basename.
func (s *XdotoolSampler) processName(pid int) (string, bool) {
	data, err := os.ReadFile(s.procRoot + "/" + strconv.Itoa(pid) + "/cmdline")
	if err != nil {
		return "", false
	}
	argv0, _, _ := strings.Cut(string(data), "\x00")
	if argv0 == "" {
		return "", false
	}
	if idx := strings.LastIndex(argv0, "/"); idx >= 0 {
		argv0 = argv0[idx+1:]
	}
	if argv0 == "" {
		return "", false
	}
	return argv0, true
}

// matchesEditor reports whether a process name identifies the tracked
// editor. Matching is a case-insensitive substring test so both "zed"
// and "Zed" binaries qualify.
func matchesEditor(processName, editor string) bool {
	if editor == "" {
		return false
	}
	return strings.Contains(strings.ToLower(processName), strings.ToLower(editor))
}

// ParseFileFromTitle extracts the file-name segment from an editor
// window title. Titles using an em-dash separator ("project — file")
// carry the file last; plain-dash titles ("file - project") carry it
// first. Empty segments and titles showing only the editor name yield
// no file.
func ParseFileFromTitle(title, editorName string) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", false
	}

	var segment string
	if strings.Contains(title, " — ") {
		parts := strings.Split(title, " — ")
		segment = parts[len(parts)-1]
	} else {
		segment, _, _ = strings.Cut(title, " - ")
	}

	segment = strings.TrimSpace(segment)
	if segment == "" || strings.EqualFold(segment, editorName) {
		return "", false
	}
	return segment, true
}
