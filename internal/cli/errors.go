package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/stigoleg/keep-moving/internal/motion"
	"github.com/stigoleg/keep-moving/internal/ui"
)

// Exit statuses.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitConfig  = 2
)

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cfgErr *motion.ConfigError
	var boundsErr *motion.BoundsError
	if errors.As(err, &cfgErr) || errors.As(err, &boundsErr) {
		return ExitConfig
	}
	return ExitRuntime
}

// RenderError writes err to w in the error box style.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	title := "Error"
	if ExitCode(err) == ExitConfig {
		title = "Configuration error"
	}
	body := ui.Current.Error.Render(title) + "\n" + err.Error()
	fmt.Fprintln(w, ui.Current.ErrorBox.Render(body))
}

// flagError turns a cobra flag parse failure into a configuration error.
func flagError(err error) error {
	return &motion.ConfigError{Field: "flags", Reason: err.Error()}
}
