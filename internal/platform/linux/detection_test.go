//go:build linux

package linux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeProbe(env map[string]string, commands ...string) Probe {
	return Probe{
		Getenv: func(k string) string { return env[k] },
		HasCommand: func(name string) bool {
			for _, c := range commands {
				if c == name {
					return true
				}
			}
			return false
		},
	}
}

func TestDisplayServer(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"x11", map[string]string{"DISPLAY": ":0"}, DisplayServerX11},
		{"xwayland", map[string]string{"DISPLAY": ":0", "WAYLAND_DISPLAY": "wayland-0"}, DisplayServerWayland},
		{"session type", map[string]string{"XDG_SESSION_TYPE": "Wayland"}, DisplayServerWayland},
		{"x11 session without display", map[string]string{"XDG_SESSION_TYPE": "x11"}, DisplayServerX11},
		{"headless", nil, DisplayServerUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fakeProbe(tt.env).DisplayServer())
		})
	}
}

func TestProbeCapabilities(t *testing.T) {
	caps := fakeProbe(map[string]string{"DISPLAY": ":1"}, "xdotool").Capabilities()
	assert.True(t, caps.CanMove())

	caps = fakeProbe(map[string]string{"DISPLAY": ":1"}).Capabilities()
	assert.False(t, caps.CanMove())
	assert.False(t, caps.XdotoolAvailable)

	caps = fakeProbe(map[string]string{"DISPLAY": ":1", "WAYLAND_DISPLAY": "wayland-0"}, "xdotool").Capabilities()
	assert.False(t, caps.CanMove())
}

func TestParseOSRelease(t *testing.T) {
	id, like := ParseOSRelease(strings.NewReader(`NAME="Pop!_OS"
ID=pop
ID_LIKE="ubuntu debian"
PRETTY_NAME="Pop!_OS 22.04 LTS"
`))
	assert.Equal(t, "pop", id)
	assert.Equal(t, "ubuntu debian", like)
}

func TestDistribution(t *testing.T) {
	tests := []struct {
		name     string
		id, like string
		commands []string
		want     string
	}{
		{"ubuntu", "ubuntu", "debian", nil, "apt"},
		{"mint via like", "linuxmint", "ubuntu debian", nil, "apt"},
		{"fedora with dnf", "fedora", "", []string{"dnf"}, "dnf"},
		{"centos without dnf", "centos", "rhel fedora", nil, "yum"},
		{"manjaro", "manjaro", "arch", nil, "pacman"},
		{"tumbleweed", "opensuse-tumbleweed", "opensuse suse", nil, "zypper"},
		{"alpine", "alpine", "", nil, "apk"},
		{"unknown falls back to PATH", "gentoo", "", []string{"apk"}, "apk"},
		{"nothing found", "", "", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fakeProbe(nil, tt.commands...).Distribution(tt.id, tt.like)
			assert.Equal(t, tt.want, got.PkgManager)
		})
	}
}
