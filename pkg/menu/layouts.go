package menu

import (
	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
)

var (
	fillerItem   = item.Static("minecraft:gray_stained_glass_pane", " ")
	previousItem = item.Static("minecraft:arrow", "Previous page")
	nextItem     = item.Static("minecraft:arrow", "Next page")
)

// PagedLayout returns a layout with a filler bar on the bottom row and page
// buttons in its corners.
func PagedLayout(rows int) *layout.Layout {
	return layout.Paged(rows, fillerItem, previousItem, nextItem)
}
