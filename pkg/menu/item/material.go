package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-mclib/data/pkg/data/items"
)

// ErrUnknownMaterial is returned when a material name is not in the item registry.
var ErrUnknownMaterial = errors.New("unknown material")

const namespace = "minecraft:"

// NormalizeMaterial lowercases a material name and adds the default namespace,
// so "STONE", "stone" and "minecraft:stone" all resolve the same way.
func NormalizeMaterial(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if !strings.Contains(name, ":") {
		name = namespace + name
	}
	return name
}

// ResolveMaterial returns the registry id of a material.
func ResolveMaterial(name string) (int32, error) {
	norm := NormalizeMaterial(name)
	if norm == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownMaterial)
	}
	id := items.ItemID(norm)
	if id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return id, nil
}

// MaterialName returns the registry name for an id.
func MaterialName(id int32) string {
	return items.ItemName(id)
}
