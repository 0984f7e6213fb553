package clipboard

import (
	"errors"
	"reflect"
	"testing"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		wayland   bool
		installed []string
		want      []string
	}{
		{"mac", "darwin", false, nil, []string{"pbcopy"}},
		{"windows", "windows", false, nil, []string{"cmd", "/c", "clip"}},
		{"wayland", "linux", true, []string{"wl-copy", "xclip"}, []string{"wl-copy"}},
		{"x11 prefers xclip", "linux", false, []string{"wl-copy", "xclip", "xsel"}, []string{"xclip", "-selection", "clipboard"}},
		{"xsel fallback", "linux", false, []string{"xsel"}, []string{"xsel", "--clipboard", "--input"}},
		{"nothing", "freebsd", false, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := command(tt.goos, tt.wayland, fakeLookPath(tt.installed...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("command() = %q, want %q", got, tt.want)
			}
		})
	}
}
