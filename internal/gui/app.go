// Package gui renders the picking board and order detail with Fyne. It
// implements picking.Presenter; the controller calls those methods from
// its own goroutines, so every one of them hops onto the Fyne event loop
// with fyne.Do before touching a widget.
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ohalin/pickdesk/internal/controller"
	"github.com/ohalin/pickdesk/internal/picking"
)

// UI is the GUI application. All fields except ctrl are touched only on
// the Fyne event loop.
type UI struct {
	app    fyne.App
	window fyne.Window
	ctrl   *controller.Controller

	previewLines int

	// cards indexes the live board cards by order ID so progress updates
	// after an edit land in place instead of rebuilding the board.
	cards map[int64]*orderCard

	// detail holds the open order view, nil while on the board.
	detail *detailView

	overlay *widget.PopUp
}

// New creates the application window. Call SetController before Run.
func New(previewLines int) *UI {
	a := app.New()
	w := a.NewWindow("Pickdesk")
	w.Resize(fyne.NewSize(1100, 720))

	u := &UI{
		app:          a,
		window:       w,
		previewLines: previewLines,
		cards:        make(map[int64]*orderCard),
	}
	w.SetContent(container.NewCenter(widget.NewProgressBarInfinite()))
	return u
}

// SetController wires the controller the event handlers call into. The
// controller is constructed after the UI because it needs the presenter.
func (u *UI) SetController(c *controller.Controller) {
	u.ctrl = c
}

// Run shows the window and blocks until it is closed.
func (u *UI) Run() {
	u.window.ShowAndRun()
}

// RenderBoard replaces the window content with the three-column board.
func (u *UI) RenderBoard(columns picking.BoardColumns) {
	fyne.Do(func() {
		u.hideOverlay()
		u.detail = nil
		u.window.SetContent(u.buildBoard(columns))
	})
}

// UpdateOrderCard refreshes one card's progress and tags in place. A card
// that is not on screen (order moved columns, or we are in detail view)
// is ignored; the next full board render picks the change up.
func (u *UI) UpdateOrderCard(o picking.Order) {
	fyne.Do(func() {
		if card, ok := u.cards[o.ID]; ok {
			card.update(o)
		}
	})
}

// RenderDetail replaces the window content with the order detail view.
func (u *UI) RenderDetail(d picking.Detail, groups picking.LineGroups) {
	fyne.Do(func() {
		u.hideOverlay()
		u.detail = newDetailView(u, d, groups)
		u.window.SetContent(u.detail.root)
	})
}

// UpdateLine applies a confirmed edit to the open detail view, relocating
// the row between groups when its bucket changed.
func (u *UI) UpdateLine(p picking.LinePatch) {
	fyne.Do(func() {
		if u.detail == nil || u.detail.orderID != p.Line.OrderID {
			return
		}
		u.detail.applyPatch(p)
	})
}

// ShowCompletion pops the "order picked" overlay. It stays up until the
// controller navigates back to the board.
func (u *UI) ShowCompletion(o picking.Order) {
	fyne.Do(func() {
		u.hideOverlay()
		msg := widget.NewLabelWithStyle(
			"Order "+o.Number+" picked",
			fyne.TextAlignCenter,
			fyne.TextStyle{Bold: true},
		)
		sub := widget.NewLabelWithStyle(
			o.CustomerName,
			fyne.TextAlignCenter,
			fyne.TextStyle{},
		)
		u.overlay = widget.NewModalPopUp(
			container.NewPadded(container.NewVBox(msg, sub)),
			u.window.Canvas(),
		)
		u.overlay.Show()
	})
}

// ShowLogin replaces the window content with the login form. reason is
// shown above the password field when non-empty.
func (u *UI) ShowLogin(reason string) {
	fyne.Do(func() {
		u.hideOverlay()
		u.detail = nil
		u.cards = make(map[int64]*orderCard)
		u.window.SetContent(u.buildLogin(reason))
	})
}

func (u *UI) hideOverlay() {
	if u.overlay != nil {
		u.overlay.Hide()
		u.overlay = nil
	}
}

var _ picking.Presenter = (*UI)(nil)
