package handlers

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted by user")

var (
	// stdinIsTerminal reports whether prompts can be shown.
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// askConfirm shows a yes/no prompt.
	askConfirm = func(ctx context.Context, title, description string) (bool, error) {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description(description).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).RunWithContext(ctx)
		return ok, err
	}
)

// confirm asks before a destructive action. Without a terminal, or with
// --yes, the action proceeds unasked.
func confirm(ctx context.Context, opts Options, title, description string) error {
	if opts.Yes || !stdinIsTerminal() {
		return nil
	}
	ok, err := askConfirm(ctx, title, description)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
