// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool available")

// command returns the clipboard command for goos, using lookPath to probe
// for installed tools.
func command(goos string, wayland bool, lookPath func(string) (string, error)) []string {
	has := func(name string) bool {
		_, err := lookPath(name)
		return err == nil
	}

	switch goos {
	case "darwin":
		return []string{"pbcopy"}
	case "windows":
		return []string{"cmd", "/c", "clip"}
	}

	// Try wl-copy on Wayland, then xclip, then xsel
	if wayland && has("wl-copy") {
		return []string{"wl-copy"}
	}
	if has("xclip") {
		return []string{"xclip", "-selection", "clipboard"}
	}
	if has("xsel") {
		return []string{"xsel", "--clipboard", "--input"}
	}
	return nil
}

func current() []string {
	return command(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "", exec.LookPath)
}

// Write copies text to the system clipboard.
func Write(text string) error {
	argv := current()
	if argv == nil {
		return ErrUnavailable
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
