package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ohalin/pickdesk/internal/picking"
)

// buildBoard creates the three-column kanban view and rebuilds the card
// index as a side effect.
func (u *UI) buildBoard(columns picking.BoardColumns) fyne.CanvasObject {
	u.cards = make(map[int64]*orderCard)

	refreshBtn := widget.NewButton("Refresh", func() {
		go u.ctrl.Refresh()
	})
	logoutBtn := widget.NewButton("Log out", func() {
		go u.ctrl.Logout()
	})
	toolbar := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Orders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(refreshBtn, logoutBtn),
	)

	grid := container.NewGridWithColumns(3,
		u.buildColumn("Not started", columns.NotStarted),
		u.buildColumn("Picking", columns.Picking),
		u.buildColumn("Picked", columns.Picked),
	)
	return container.NewBorder(toolbar, nil, nil, nil, grid)
}

func (u *UI) buildColumn(title string, entries []picking.BoardEntry) fyne.CanvasObject {
	header := widget.NewLabelWithStyle(
		fmt.Sprintf("%s (%d)", title, len(entries)),
		fyne.TextAlignCenter,
		fyne.TextStyle{Bold: true},
	)

	body := container.NewVBox()
	for _, e := range entries {
		card := newOrderCard(u, e)
		u.cards[e.Order.ID] = card
		body.Add(card.root)
	}
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(body))
}

// orderCard is one board card. update rewrites the mutable parts without
// replacing the widget tree.
type orderCard struct {
	root     fyne.CanvasObject
	tags     *widget.Label
	progress *widget.ProgressBar
	counts   *widget.Label
}

func newOrderCard(u *UI, e picking.BoardEntry) *orderCard {
	o := e.Order
	card := &orderCard{
		tags:     widget.NewLabel(cardTags(o)),
		progress: widget.NewProgressBar(),
		counts:   widget.NewLabel(cardCounts(o)),
	}
	card.tags.Wrapping = fyne.TextWrapWord
	card.progress.SetValue(o.ProgressPct / 100)

	preview := container.NewVBox()
	limit := u.previewLines
	if limit > len(e.Lines) {
		limit = len(e.Lines)
	}
	for _, l := range e.Lines[:limit] {
		row := widget.NewLabel(fmt.Sprintf("%s  %s/%s %s",
			l.ItemName,
			picking.FormatQty(l.QtyCollected),
			picking.FormatQty(l.QtyOrdered),
			l.Unit,
		))
		row.Truncation = fyne.TextTruncateEllipsis
		preview.Add(row)
	}
	if len(e.Lines) > limit {
		preview.Add(widget.NewLabel(fmt.Sprintf("… and %d more", len(e.Lines)-limit)))
	}

	openBtn := widget.NewButton("Open", func() {
		go func() {
			_ = u.ctrl.OpenOrder(o.ID)
		}()
	})

	content := container.NewVBox(
		card.tags,
		preview,
		card.progress,
		container.NewBorder(nil, nil, card.counts, openBtn),
	)
	card.root = widget.NewCard(o.Number, o.CustomerName, content)
	return card
}

func (c *orderCard) update(o picking.Order) {
	c.tags.SetText(cardTags(o))
	c.progress.SetValue(o.ProgressPct / 100)
	c.counts.SetText(cardCounts(o))
}

// cardTags joins the urgency badge, deadline and comment into one line.
func cardTags(o picking.Order) string {
	var parts []string
	if o.UrgencyText != "" {
		parts = append(parts, o.UrgencyText)
	} else {
		switch o.Urgency {
		case picking.UrgencyOverdue:
			parts = append(parts, "overdue")
		case picking.UrgencyDueSoon:
			parts = append(parts, "due soon")
		case picking.UrgencyStale:
			parts = append(parts, "stale")
		}
	}
	if o.ShipDeadline != nil {
		parts = append(parts, "ship by "+o.ShipDeadline.Format("02.01 15:04"))
	}
	if o.Comment != "" {
		parts = append(parts, o.Comment)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " · "
		}
		out += p
	}
	return out
}

func cardCounts(o picking.Order) string {
	return fmt.Sprintf("%d/%d lines · %s/%s",
		o.LinesDone, o.TotalLines,
		picking.FormatQty(o.CollectedQty), picking.FormatQty(o.TotalQty),
	)
}
