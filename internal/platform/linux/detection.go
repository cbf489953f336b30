//go:build linux

// Package linux drives the X11 pointer through xdotool and reports what the
// session is missing when it cannot.
package linux

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/stigoleg/keep-moving/internal/util"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// Probe is the view of the session the detection code reads. Tests swap it
// for a fake.
type Probe struct {
	Getenv     func(string) string
	HasCommand func(string) bool
}

// System probes the running session.
var System = Probe{Getenv: os.Getenv, HasCommand: util.HasCommand}

// Capabilities is what the session offers for pointer control.
type Capabilities struct {
	XdotoolAvailable bool
	DisplaySet       bool
	DisplayServer    string
}

// CanMove reports whether absolute pointer control is possible.
func (c Capabilities) CanMove() bool {
	return c.XdotoolAvailable && c.DisplaySet && c.DisplayServer != DisplayServerWayland
}

// DetectCapabilities inspects the running session.
func DetectCapabilities() Capabilities {
	return System.Capabilities()
}

// Capabilities inspects the session seen through p.
func (p Probe) Capabilities() Capabilities {
	return Capabilities{
		XdotoolAvailable: p.HasCommand("xdotool"),
		DisplaySet:       p.Getenv("DISPLAY") != "",
		DisplayServer:    p.DisplayServer(),
	}
}

// DetectDisplayServer reports wayland, x11 or unknown for the running session.
func DetectDisplayServer() string {
	return System.DisplayServer()
}

// DisplayServer prefers Wayland markers: XWayland sessions also set DISPLAY
// but do not allow warping the pointer of native windows.
func (p Probe) DisplayServer() string {
	session := strings.ToLower(p.Getenv("XDG_SESSION_TYPE"))
	switch {
	case p.Getenv("WAYLAND_DISPLAY") != "", session == DisplayServerWayland:
		return DisplayServerWayland
	case p.Getenv("DISPLAY") != "", session == DisplayServerX11:
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// DistroInfo names the distribution and the package manager used for
// install hints.
type DistroInfo struct {
	Name       string
	PkgManager string
}

// ParseOSRelease reads the ID and ID_LIKE fields of an os-release file.
func ParseOSRelease(r io.Reader) (id, idLike string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		value = strings.ToLower(strings.Trim(value, `"'`))
		switch key {
		case "ID":
			id = value
		case "ID_LIKE":
			idLike = value
		}
	}
	return id, idLike
}

// DetectDistribution reads /etc/os-release and picks a package manager.
func DetectDistribution() DistroInfo {
	f, err := os.Open("/etc/os-release")
	if err != nil {
		return DistroInfo{Name: "unknown", PkgManager: System.firstManager(packageManagers)}
	}
	defer f.Close()

	id, idLike := ParseOSRelease(f)
	return System.Distribution(id, idLike)
}

var packageManagers = []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"}

// familyManagers maps distribution families to their package managers, in
// order of preference.
var familyManagers = []struct {
	families []string
	managers []string
}{
	{[]string{"debian", "ubuntu", "pop", "linuxmint"}, []string{"apt"}},
	{[]string{"fedora", "rhel", "centos"}, []string{"dnf", "yum"}},
	{[]string{"arch", "manjaro", "endeavouros"}, []string{"pacman"}},
	{[]string{"suse", "opensuse", "opensuse-leap", "opensuse-tumbleweed"}, []string{"zypper"}},
	{[]string{"alpine"}, []string{"apk"}},
}

// Distribution resolves the package manager for an os-release ID and ID_LIKE.
func (p Probe) Distribution(id, idLike string) DistroInfo {
	if id == "" {
		id = "unknown"
	}
	ids := append([]string{id}, strings.Fields(idLike)...)

	for _, fm := range familyManagers {
		for _, candidate := range ids {
			for _, family := range fm.families {
				if candidate != family {
					continue
				}
				if len(fm.managers) == 1 {
					return DistroInfo{Name: id, PkgManager: fm.managers[0]}
				}
				if m := p.firstManager(fm.managers[:len(fm.managers)-1]); m != "unknown" {
					return DistroInfo{Name: id, PkgManager: m}
				}
				return DistroInfo{Name: id, PkgManager: fm.managers[len(fm.managers)-1]}
			}
		}
	}
	return DistroInfo{Name: id, PkgManager: p.firstManager(packageManagers)}
}

func (p Probe) firstManager(candidates []string) string {
	for _, m := range candidates {
		if p.HasCommand(m) {
			return m
		}
	}
	return "unknown"
}
