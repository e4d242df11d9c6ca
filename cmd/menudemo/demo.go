package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu"
	"github.com/EntixOG/RyseInventory/pkg/menu/config"
	"github.com/EntixOG/RyseInventory/pkg/menu/content"
	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/session"
	"github.com/EntixOG/RyseInventory/tui"
)

var demoMaterials = []string{
	"minecraft:diamond",
	"minecraft:emerald",
	"minecraft:gold_ingot",
	"minecraft:iron_ingot",
	"minecraft:redstone",
	"minecraft:lapis_lazuli",
	"minecraft:apple",
	"minecraft:bread",
}

type demoOptions struct {
	configPath string
	rows       int
	items      int
}

func run(ctx context.Context, opts demoOptions) error {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// output moves to the terminal view once the program exists
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "menudemo",
		Level:           settings.Level(),
		ReportTimestamp: true,
	})
	loop := schedule.NewLoop(logger, settings.TickInterval)
	host := tui.NewHost(uuid.New(), loop)
	p, w := tui.Start(host)
	logger.SetOutput(w)

	mgr, err := menu.New(host, loop, menu.WithSettings(settings), menu.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := mgr.Invoke(host); err != nil {
		return err
	}

	l, err := demoLayout(logger, settings, opts.rows)
	if err != nil {
		return err
	}
	d := &demo{mgr: mgr, logger: logger, player: host.Player(), layout: l}
	loop.Post(func() {
		if err := d.openShop(opts.items); err != nil {
			logger.Error("open demo menu", "err", err)
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = loop.Run(ctx)
	}()

	_, runErr := p.Run()
	cancel()
	wg.Wait()
	mgr.Shutdown()
	return runErr
}

func demoLayout(logger *log.Logger, settings config.Settings, rows int) (*layout.Layout, error) {
	if settings.LayoutFile == "" {
		return menu.PagedLayout(rows), nil
	}
	l, err := layout.LoadTemplate(settings.LayoutFile)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		logger.Warn("layout has problems", "file", settings.LayoutFile, "err", err)
	}
	return l, nil
}

type demo struct {
	mgr    *menu.Manager
	logger *log.Logger
	player uuid.UUID
	layout *layout.Layout
}

func (d *demo) openShop(n int) error {
	model := content.New(d.layout.Capacity())
	for i := range n {
		model.Add(d.shopItem(model, i))
	}

	cfg := session.NewConfig("Demo shop", d.layout.Rows())
	cfg.Layout = d.layout
	cfg.Identifier = "demo-shop"
	cfg.Update = &session.Update{
		Period: 20,
		Fn: func(s *session.Session) {
			title := fmt.Sprintf("Demo shop (%d/%d)", s.CurrentPage()+1, s.Model().PageCount())
			if err := s.SetTitle(title); err != nil {
				d.logger.Debug("update title", "err", err)
			}
		},
	}
	cfg.OnClose = func(s *session.Session, r session.Reason) {
		d.logger.Info("menu closed", "menu", s.Config().Identifier, "reason", r)
	}
	_, err := d.mgr.Open(d.player, cfg, model)
	return err
}

func (d *demo) shopItem(model *content.Model, i int) *item.DisplayItem {
	material := demoMaterials[i%len(demoMaterials)]
	name := strings.ReplaceAll(strings.TrimPrefix(material, "minecraft:"), "_", " ")
	icon := item.Icon{
		Material: material,
		Amount:   i%64 + 1,
		Name:     fmt.Sprintf("%s #%d", name, i+1),
		Lore:     []string{"left: toggle", "right: rename", "shift: details"},
	}
	return item.New(icon,
		item.WithKey(material),
		item.OnClick(item.ClickLeft, func(c *item.Click) {
			if err := model.Replace(c.Item, c.Item.WithHighlight(!c.Item.IsHighlighted())); err != nil {
				d.logger.Warn("toggle item", "err", err)
			}
		}),
		item.OnClick(item.ClickRight, func(c *item.Click) {
			d.rename(model, c.Item)
		}),
		item.OnClick(item.ClickShiftLeft, func(c *item.Click) {
			if err := d.openDetails(c.Item); err != nil {
				d.logger.Warn("open details", "err", err)
			}
		}),
		item.OnClick(item.ClickDrop, func(c *item.Click) {
			if err := model.Remove(c.Item); err != nil {
				d.logger.Warn("remove item", "err", err)
			}
		}),
	)
}

func (d *demo) rename(model *content.Model, it *item.DisplayItem) {
	p := prompt.Prompt{
		Title:       "Rename",
		Placeholder: it.Icon().Name,
		Validate: func(text string) error {
			if strings.TrimSpace(text) == "" {
				return errors.New("name must not be empty")
			}
			return nil
		},
		MaxAttempts: 3,
	}
	err := d.mgr.Prompt(d.player, p, func(r prompt.Result) {
		if r.Cancelled || r.Err != nil {
			d.logger.Info("rename aborted", "cancelled", r.Cancelled, "err", r.Err)
			return
		}
		icon := it.Icon()
		icon.Name = r.Text
		if err := model.Replace(it, it.WithIcon(icon)); err != nil {
			d.logger.Warn("rename item", "err", err)
			return
		}
		if s := d.mgr.Session(d.player); s != nil && s.Model() == model {
			if err := s.Render(); err != nil {
				d.logger.Warn("render after rename", "err", err)
			}
		}
	})
	if err != nil {
		d.logger.Warn("show prompt", "err", err)
	}
}

func (d *demo) openDetails(it *item.DisplayItem) error {
	icon := it.Icon()
	l := layout.New(3)
	l.Border(item.Static("minecraft:black_stained_glass_pane", " "))
	l.Decorate(layout.Slot(1, 4), layout.Decoration{Item: item.New(icon)})
	l.Decorate(layout.Slot(2, 0), layout.Decoration{
		Item: item.New(item.Icon{Material: "minecraft:arrow", Name: "Back"}, item.WithAction(func(*item.Click) {
			if _, err := d.mgr.Back(d.player); err != nil {
				d.logger.Warn("back", "err", err)
			}
		})),
	})
	l.Decorate(layout.Slot(2, 8), layout.Decoration{
		Item: item.Static("minecraft:barrier", "Close"),
		Nav:  layout.NavClose,
	})

	cfg := session.NewConfig(icon.Name, 3)
	cfg.Layout = l
	cfg.Identifier = "demo-details"
	_, err := d.mgr.Open(d.player, cfg, content.New(l.Capacity()))
	return err
}
