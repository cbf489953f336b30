//go:build linux

package linux

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMouseLocation(t *testing.T) {
	x, y, err := ParseMouseLocation("X=812\nY=433\nSCREEN=0\nWINDOW=62914567\n")
	require.NoError(t, err)
	assert.Equal(t, 812, x)
	assert.Equal(t, 433, y)

	_, _, err = ParseMouseLocation("SCREEN=0\n")
	assert.Error(t, err)

	_, _, err = ParseMouseLocation("X=abc\nY=1\n")
	assert.Error(t, err)
}

func TestParseDisplayGeometry(t *testing.T) {
	w, h, err := ParseDisplayGeometry("2560 1440\n")
	require.NoError(t, err)
	assert.Equal(t, 2560, w)
	assert.Equal(t, 1440, h)

	for _, bad := range []string{"", "2560", "2560x1440", "a b"} {
		_, _, err := ParseDisplayGeometry(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestXdotoolCommands(t *testing.T) {
	var calls [][]string
	x := NewXdotool(func(name string, args ...string) (string, error) {
		calls = append(calls, append([]string{name}, args...))
		switch args[0] {
		case "getmouselocation":
			return "X=10\nY=20\nSCREEN=0", nil
		case "getdisplaygeometry":
			return "1920 1080", nil
		}
		return "", nil
	})

	px, py, err := x.Location()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, []int{px, py})

	require.NoError(t, x.MoveTo(-3, 7))
	w, h, err := x.DisplaySize()
	require.NoError(t, err)
	assert.Equal(t, []int{1920, 1080}, []int{w, h})

	assert.Equal(t, [][]string{
		{"xdotool", "getmouselocation", "--shell"},
		{"xdotool", "mousemove", "--", "-3", "7"},
		{"xdotool", "getdisplaygeometry"},
	}, calls)
}

func TestXdotoolErrorsIncludeOutput(t *testing.T) {
	x := NewXdotool(func(name string, args ...string) (string, error) {
		return "Can't open display", errors.New("exit status 1")
	})
	err := x.MoveTo(1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't open display")
}

func TestDependencyMessages(t *testing.T) {
	distro := DistroInfo{Name: "ubuntu", PkgManager: "apt"}

	missing := CheckMissingDependencies(Capabilities{DisplaySet: true, DisplayServer: DisplayServerX11}, distro)
	require.Len(t, missing, 1)
	assert.Equal(t, "sudo apt update && sudo apt install xdotool", missing[0].InstallCmd)

	msg := FormatDependencyMessages(missing, Capabilities{DisplayServer: DisplayServerWayland})
	assert.Contains(t, msg, "Wayland")
	assert.Contains(t, msg, "xdotool")

	ok := Capabilities{XdotoolAvailable: true, DisplaySet: true, DisplayServer: DisplayServerX11}
	assert.True(t, ok.CanMove())
	assert.Empty(t, CheckMissingDependencies(ok, distro))
}

func TestGenerateInstallCommand(t *testing.T) {
	tests := []struct {
		pm   string
		want string
	}{
		{"dnf", "sudo dnf install xdotool"},
		{"pacman", "sudo pacman -S xdotool"},
		{"zypper", "sudo zypper install xdotool"},
		{"apk", "sudo apk add xdotool"},
	}
	for _, tt := range tests {
		cmd, _ := GenerateInstallCommand("xdotool", DistroInfo{PkgManager: tt.pm})
		assert.Equal(t, tt.want, cmd)
	}

	cmd, note := GenerateInstallCommand("unknown-tool", DistroInfo{PkgManager: "apt"})
	assert.Empty(t, cmd)
	assert.NotEmpty(t, note)
}
