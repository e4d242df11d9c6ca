package layout

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
)

// Template is the YAML form of a layout:
//
//	rows: 6
//	content: "."
//	pattern:
//	  - "#########"
//	  - "#.......#"
//	  - "#<#####>#"
//	keys:
//	  "#": {material: gray_stained_glass_pane, name: " "}
//	  "<": {material: arrow, name: Previous, nav: previous}
//	  ">": {material: arrow, name: Next, nav: next}
type Template struct {
	Rows    int                `yaml:"rows"`
	Content string             `yaml:"content"`
	Pattern []string           `yaml:"pattern"`
	Keys    map[string]KeySpec `yaml:"keys"`
}

// KeySpec describes the decoration a pattern character stands for.
type KeySpec struct {
	Material string   `yaml:"material"`
	Name     string   `yaml:"name"`
	Lore     []string `yaml:"lore"`
	Glow     bool     `yaml:"glow"`
	Nav      string   `yaml:"nav"`
}

// ParseTemplate decodes and builds a YAML layout template.
func ParseTemplate(data []byte) (*Layout, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return t.Build()
}

// LoadTemplate reads a YAML layout template from disk.
func LoadTemplate(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	return ParseTemplate(data)
}

// Build turns the template into a layout. Characters other than the content
// marker and the declared keys are left empty.
func (t *Template) Build() (*Layout, error) {
	rows := t.Rows
	if rows == 0 {
		rows = len(t.Pattern)
	}
	if rows < MinRows || rows > MaxRows {
		return nil, fmt.Errorf("%w: rows %d not in [%d, %d]", ErrInvalidLayout, rows, MinRows, MaxRows)
	}
	if len(t.Pattern) > rows {
		return nil, fmt.Errorf("%w: pattern has %d lines for %d rows", ErrInvalidLayout, len(t.Pattern), rows)
	}
	marker := t.Content
	if marker == "" {
		marker = "."
	}

	decorations := make(map[string]Decoration, len(t.Keys))
	for key, spec := range t.Keys {
		if len([]rune(key)) != 1 {
			return nil, fmt.Errorf("%w: key %q must be a single character", ErrInvalidLayout, key)
		}
		d, err := spec.decoration()
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrInvalidLayout, key, err)
		}
		decorations[key] = d
	}

	l := New(rows)
	content := make([]int, 0, l.Size())
	for row, line := range t.Pattern {
		runes := []rune(line)
		if len(runes) > Columns {
			return nil, fmt.Errorf("%w: pattern line %d is %d wide", ErrInvalidLayout, row, len(runes))
		}
		for col, r := range runes {
			ch := string(r)
			slot := Slot(row, col)
			if ch == marker {
				content = append(content, slot)
				continue
			}
			if d, ok := decorations[ch]; ok {
				l.Decorate(slot, d)
			}
		}
	}
	if len(t.Pattern) > 0 {
		l.ContentArea(content...)
	}
	return l, nil
}

func (s KeySpec) decoration() (Decoration, error) {
	if _, err := item.ResolveMaterial(s.Material); err != nil {
		return Decoration{}, err
	}
	nav, err := parseNav(s.Nav)
	if err != nil {
		return Decoration{}, err
	}
	it := item.New(item.Icon{
		Material: item.NormalizeMaterial(s.Material),
		Name:     s.Name,
		Lore:     s.Lore,
		Glow:     s.Glow,
	})
	return Decoration{Item: it, Nav: nav}, nil
}

func parseNav(s string) (Nav, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NavNone, nil
	case "previous", "prev", "back":
		return NavPrevious, nil
	case "next", "forward":
		return NavNext, nil
	case "close", "exit":
		return NavClose, nil
	}
	return NavNone, fmt.Errorf("unknown nav %q", s)
}
