package session

import (
	"errors"
	"fmt"

	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
)

// ErrInvalidConfig is returned by Open for a config that cannot be shown.
var ErrInvalidConfig = errors.New("invalid session config")

// Update is a periodic refresh callback run while the session is open.
type Update struct {
	Delay  schedule.Ticks
	Period schedule.Ticks
	Fn     func(s *Session)
}

// Config describes one menu.
type Config struct {
	Title string
	Rows  int
	// Closeable false re-opens the view whenever the player closes it.
	Closeable bool
	// ClearOnClose empties the model when the session closes. Otherwise the
	// model is kept so the menu can be shown again.
	ClearOnClose bool
	// Layout defaults to an undecorated layout of Rows rows.
	Layout *layout.Layout

	CloseOnClickOutside bool
	CloseOnEmptySlot    bool

	Update *Update

	OnOpen  func(s *Session)
	OnClose func(s *Session, reason Reason)

	// Identifier names the menu so it can be found across players.
	Identifier string
}

// NewConfig returns a closeable config.
func NewConfig(title string, rows int) Config {
	return Config{Title: title, Rows: rows, Closeable: true}
}

// Validate checks the config is consistent.
func (c Config) Validate() error {
	if c.Rows < layout.MinRows || c.Rows > layout.MaxRows {
		return fmt.Errorf("%w: rows %d not in [%d, %d]", ErrInvalidConfig, c.Rows, layout.MinRows, layout.MaxRows)
	}
	if c.Layout != nil && c.Layout.Rows() != c.Rows {
		return fmt.Errorf("%w: layout has %d rows, config %d", ErrInvalidConfig, c.Layout.Rows(), c.Rows)
	}
	if u := c.Update; u != nil {
		if u.Fn == nil {
			return fmt.Errorf("%w: update without a function", ErrInvalidConfig)
		}
		if u.Delay < 0 || u.Period < 1 {
			return fmt.Errorf("%w: update delay %d period %d", ErrInvalidConfig, u.Delay, u.Period)
		}
	}
	return nil
}

func (c Config) layout() *layout.Layout {
	if c.Layout != nil {
		return c.Layout
	}
	return layout.New(c.Rows)
}
