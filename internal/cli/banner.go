package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/keep-moving/internal/config"
	"github.com/stigoleg/keep-moving/internal/keepalive"
	"github.com/stigoleg/keep-moving/internal/ui"
)

type bannerInfo struct {
	Platform string
	Runner   *keepalive.Runner
	Duration time.Duration
	Config   *config.Config
	Verbose  bool
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Current.Label.Render(label),
		ui.Current.Value.Render(value),
	)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// printBanner writes the startup summary shown before the first movement.
func printBanner(w io.Writer, info bannerInfo) {
	width, height, area := info.Runner.Screen()

	lines := []string{
		row("Platform", info.Platform),
		row("Screen", fmt.Sprintf("%dx%d", width, height)),
		row("Area", area.String()),
	}
	if info.Duration > 0 {
		lines = append(lines, row("Stops in", info.Duration.Round(time.Second).String()))
	}
	if info.Verbose {
		lines = append(lines, configSummary(info.Config)...)
	}

	fmt.Fprintln(w, ui.Current.Title.Render("Keep Moving"))
	fmt.Fprintln(w, ui.Current.Panel.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(w, ui.Current.Help.Render("Press Ctrl+C to stop"))
}

func configSummary(cfg *config.Config) []string {
	var styles []string
	if cfg.Movement.EnableLinear {
		styles = append(styles, "linear")
	}
	if cfg.Movement.EnableBezier {
		styles = append(styles, "bezier")
	}

	jitter := onOff(cfg.Jitter.Enabled)
	if cfg.Jitter.Enabled {
		jitter = fmt.Sprintf("%d px", cfg.Jitter.Intensity)
	}
	small := onOff(cfg.SmallMovements.Enabled)
	if cfg.SmallMovements.Enabled {
		small = fmt.Sprintf("%.0f%%, %d-%d px", cfg.SmallMovements.Chance*100,
			cfg.SmallMovements.Range.Min, cfg.SmallMovements.Range.Max)
	}

	return []string{
		row("Styles", strings.Join(styles, ", ")),
		row("Wait", fmt.Sprintf("%d-%d s", cfg.Timing.Wait.Min, cfg.Timing.Wait.Max)),
		row("Duration", fmt.Sprintf("%.1f-%.1f s", cfg.Timing.MovementDuration.Min, cfg.Timing.MovementDuration.Max)),
		row("Margin", fmt.Sprint(cfg.Screen.Margin)),
		row("Safe zone", onOff(cfg.Screen.SafeZone)),
		row("Jitter", jitter),
		row("Small", small),
	}
}
