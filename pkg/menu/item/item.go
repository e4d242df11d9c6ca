// Package item defines the display items rendered into menu slots and the
// click context handed to their actions.
package item

import "slices"

// Icon is the visual descriptor of an item.
type Icon struct {
	Material string
	Amount   int
	Name     string
	Lore     []string
	Glow     bool
}

// DisplayItem is an icon bound to optional click actions. It is immutable:
// the With* methods return a new item with its own identity.
type DisplayItem struct {
	icon        Icon
	key         string
	highlighted bool

	action  Action
	actions map[ClickKind]Action

	guard    func(c *Click) bool
	onDenied Action
}

// Option configures a DisplayItem at construction.
type Option func(d *DisplayItem)

// New builds a display item.
func New(icon Icon, opts ...Option) *DisplayItem {
	d := &DisplayItem{icon: copyIcon(icon)}
	if d.icon.Amount <= 0 {
		d.icon.Amount = 1
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Static builds an item without actions.
func Static(material, name string, lore ...string) *DisplayItem {
	return New(Icon{Material: material, Name: name, Lore: lore})
}

// WithAction sets the handler used for every click kind without a specific handler.
func WithAction(fn Action) Option {
	return func(d *DisplayItem) { d.action = fn }
}

// OnClick sets the handler for one click kind.
func OnClick(kind ClickKind, fn Action) Option {
	return func(d *DisplayItem) {
		if d.actions == nil {
			d.actions = make(map[ClickKind]Action)
		}
		d.actions[kind] = fn
	}
}

// WithKey tags the item so it can be found again by key.
func WithKey(key string) Option {
	return func(d *DisplayItem) { d.key = key }
}

// Highlighted renders the item with an enchantment glint.
func Highlighted() Option {
	return func(d *DisplayItem) { d.highlighted = true }
}

// Guard rejects clicks for which allow returns false; onDenied runs instead
// of the action. onDenied may be nil.
func Guard(allow func(c *Click) bool, onDenied Action) Option {
	return func(d *DisplayItem) {
		d.guard = allow
		d.onDenied = onDenied
	}
}

func (d *DisplayItem) Icon() Icon { return copyIcon(d.icon) }

func (d *DisplayItem) Key() string { return d.key }

func (d *DisplayItem) IsHighlighted() bool { return d.highlighted }

// ActionFor returns the handler for kind, falling back to the default one.
// Drag clicks never fall back: only an explicit drag handler reacts to drags.
func (d *DisplayItem) ActionFor(kind ClickKind) Action {
	if fn, ok := d.actions[kind]; ok {
		return fn
	}
	if kind == ClickDrag {
		return nil
	}
	return d.action
}

// Clickable reports whether any click kind has a handler.
func (d *DisplayItem) Clickable() bool {
	return d.action != nil || len(d.actions) > 0
}

// Allowed runs the click guard.
func (d *DisplayItem) Allowed(c *Click) bool {
	return d.guard == nil || d.guard(c)
}

// Denied returns the handler run when the guard rejects a click.
func (d *DisplayItem) Denied() Action { return d.onDenied }

// WithIcon returns a copy of the item showing a different icon.
func (d *DisplayItem) WithIcon(icon Icon) *DisplayItem {
	c := d.clone()
	c.icon = copyIcon(icon)
	if c.icon.Amount <= 0 {
		c.icon.Amount = 1
	}
	return c
}

// WithHighlight returns a copy of the item with the highlighted state set to on.
func (d *DisplayItem) WithHighlight(on bool) *DisplayItem {
	c := d.clone()
	c.highlighted = on
	return c
}

func (d *DisplayItem) clone() *DisplayItem {
	c := *d
	c.icon = copyIcon(d.icon)
	if d.actions != nil {
		c.actions = make(map[ClickKind]Action, len(d.actions))
		for k, v := range d.actions {
			c.actions[k] = v
		}
	}
	return &c
}

func copyIcon(icon Icon) Icon {
	icon.Lore = slices.Clone(icon.Lore)
	return icon
}
