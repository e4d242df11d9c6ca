// Package prompt asks a player for one line of text, the way anvil input
// screens do.
package prompt

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
)

// ErrInvalidInput is set on a Result when validation failed MaxAttempts times.
var ErrInvalidInput = errors.New("invalid input")

// Prompt describes the text input shown to the player.
type Prompt struct {
	Title       string
	Placeholder string
	// Validate rejects input; the error text becomes the next placeholder.
	Validate func(text string) error
	// MaxAttempts bounds the number of inputs shown. Zero means no limit.
	MaxAttempts int
}

// Result is the outcome of Ask.
type Result struct {
	Text      string
	Cancelled bool
	Err       error
}

// Prompter is the host capability that shows text input. reply may be
// called from any goroutine, at most once per ShowPrompt.
type Prompter interface {
	ShowPrompt(player uuid.UUID, p Prompt, reply func(text string, cancelled bool)) error
}

// Ask shows p to player and calls done with the outcome on the main thread.
func Ask(pr Prompter, s schedule.Scheduler, player uuid.UUID, p Prompt, done func(Result)) error {
	a := &asker{pr: pr, s: s, player: player, prompt: p, done: done}
	return a.show(p)
}

type asker struct {
	pr       Prompter
	s        schedule.Scheduler
	player   uuid.UUID
	prompt   Prompt
	done     func(Result)
	attempts int
}

func (a *asker) show(p Prompt) error {
	a.attempts++
	return a.pr.ShowPrompt(a.player, p, func(text string, cancelled bool) {
		a.s.Post(func() { a.reply(text, cancelled) })
	})
}

func (a *asker) reply(text string, cancelled bool) {
	if cancelled {
		a.done(Result{Cancelled: true})
		return
	}
	if a.prompt.Validate != nil {
		if err := a.prompt.Validate(text); err != nil {
			if a.prompt.MaxAttempts > 0 && a.attempts >= a.prompt.MaxAttempts {
				a.done(Result{Text: text, Err: fmt.Errorf("%w: %w", ErrInvalidInput, err)})
				return
			}
			retry := a.prompt
			retry.Placeholder = err.Error()
			if err := a.show(retry); err != nil {
				a.done(Result{Text: text, Err: err})
			}
			return
		}
	}
	a.done(Result{Text: text})
}
