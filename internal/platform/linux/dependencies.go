//go:build linux

package linux

import (
	"fmt"
	"strings"
)

// DependencyInfo contains information about a missing dependency and how to install it.
type DependencyInfo struct {
	Name       string
	WhyNeeded  string
	InstallCmd string
	Note       string
}

// getPackageName returns the package name for a tool on a specific distribution.
func getPackageName(tool string) string {
	tool = strings.ToLower(tool)
	switch tool {
	case "xdotool":
		return tool
	default:
		return ""
	}
}

// GenerateInstallCommand generates a distro-specific installation command for the given tool.
func GenerateInstallCommand(tool string, distro DistroInfo) (cmd string, note string) {
	if tool == "" {
		return "", "Tool name is required"
	}

	pkgName := getPackageName(tool)
	if pkgName == "" {
		return "", fmt.Sprintf("Package name not available for tool '%s'", tool)
	}

	switch distro.PkgManager {
	case "apt":
		cmd = fmt.Sprintf("sudo apt update && sudo apt install %s", pkgName)
	case "dnf", "yum":
		cmd = fmt.Sprintf("sudo %s install %s", distro.PkgManager, pkgName)
	case "pacman":
		cmd = fmt.Sprintf("sudo pacman -S %s", pkgName)
	case "zypper":
		cmd = fmt.Sprintf("sudo zypper install %s", pkgName)
	case "apk":
		cmd = fmt.Sprintf("sudo apk add %s", pkgName)
	default:
		cmd = fmt.Sprintf("Install %s using your distribution's package manager", pkgName)
		note = fmt.Sprintf("Package name: %s. Check your distribution's repositories.", pkgName)
	}

	return cmd, note
}

// CheckMissingDependencies checks which dependencies are missing and returns installation information.
func CheckMissingDependencies(caps Capabilities, distro DistroInfo) []DependencyInfo {
	var missing []DependencyInfo

	if !caps.XdotoolAvailable {
		installCmd, note := GenerateInstallCommand("xdotool", distro)
		missing = append(missing, DependencyInfo{
			Name:       "xdotool",
			WhyNeeded:  "Reads and moves the pointer on the X11 display server",
			InstallCmd: installCmd,
			Note:       note,
		})
	}

	return missing
}

// FormatDependencyMessages formats dependency information into user-friendly messages.
func FormatDependencyMessages(missing []DependencyInfo, caps Capabilities) string {
	var b strings.Builder

	if caps.DisplayServer == DisplayServerWayland {
		b.WriteString("Wayland session detected: absolute pointer control is not available.\n")
		b.WriteString("Log in with an X11 (Xorg) session to use keepmoving.\n")
	} else if !caps.DisplaySet {
		b.WriteString("DISPLAY is not set: no X11 display to control.\n")
		b.WriteString("Run keepmoving from a graphical session, or export DISPLAY=:0.\n")
	}

	if len(missing) == 0 {
		return b.String()
	}

	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Missing dependencies:\n")
	for i, dep := range missing {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, dep.Name))
		b.WriteString(fmt.Sprintf("   Why needed: %s\n", dep.WhyNeeded))
		b.WriteString(fmt.Sprintf("   Install with: %s\n", dep.InstallCmd))
		if dep.Note != "" {
			b.WriteString(fmt.Sprintf("   Note: %s\n", dep.Note))
		}
	}

	return b.String()
}

// GetDependencyMessage returns the formatted instructions if the session
// cannot move the pointer, or an empty string when it can.
func GetDependencyMessage() string {
	caps := DetectCapabilities()
	if caps.CanMove() {
		return ""
	}
	return FormatDependencyMessages(CheckMissingDependencies(caps, DetectDistribution()), caps)
}
