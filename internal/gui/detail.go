package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ohalin/pickdesk/internal/picking"
)

// detailView is the open-order screen: header with aggregate progress and
// three line groups. Confirmed edits arrive through applyPatch, which
// updates the touched row in place and moves it between groups when its
// bucket changed.
type detailView struct {
	u       *UI
	orderID int64
	root    fyne.CanvasObject

	progress *widget.ProgressBar
	counts   *widget.Label

	rows   map[int64]*lineRow
	groups map[picking.Bucket]*lineGroup
}

func newDetailView(u *UI, d picking.Detail, groups picking.LineGroups) *detailView {
	v := &detailView{
		u:        u,
		orderID:  d.Order.ID,
		progress: widget.NewProgressBar(),
		counts:   widget.NewLabel(""),
		rows:     make(map[int64]*lineRow),
		groups:   make(map[picking.Bucket]*lineGroup),
	}
	v.setOrder(d.Order)

	v.groups[picking.BucketIncomplete] = v.newGroup("To pick", groups.Incomplete)
	v.groups[picking.BucketComplete] = v.newGroup("Done", groups.Complete)
	v.groups[picking.BucketRemoved] = v.newGroup("Removed", groups.Removed)

	backBtn := widget.NewButtonWithIcon("Back", theme.NavigateBackIcon(), func() {
		go v.u.ctrl.CloseOrder()
	})
	completeBtn := widget.NewButton("Mark picked", func() {
		go func() {
			_ = v.u.ctrl.CompleteOrder()
		}()
	})
	completeBtn.Importance = widget.HighImportance

	title := widget.NewLabelWithStyle(
		d.Order.Number+" · "+d.Order.CustomerName,
		fyne.TextAlignLeading,
		fyne.TextStyle{Bold: true},
	)
	toolbar := container.NewBorder(nil, nil, backBtn, completeBtn, title)

	comment := widget.NewLabel(d.Order.Comment)
	comment.Wrapping = fyne.TextWrapWord
	if d.Order.Comment == "" {
		comment.Hide()
	}

	body := container.NewVBox(
		comment,
		container.NewBorder(nil, nil, nil, v.counts, v.progress),
	)
	for _, b := range []picking.Bucket{picking.BucketIncomplete, picking.BucketComplete, picking.BucketRemoved} {
		g := v.groups[b]
		body.Add(g.header)
		body.Add(g.box)
	}

	v.root = container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(body))
	return v
}

func (v *detailView) setOrder(o picking.Order) {
	v.progress.SetValue(o.ProgressPct / 100)
	v.counts.SetText(cardCounts(o))
}

func (v *detailView) newGroup(title string, lines []picking.Line) *lineGroup {
	g := &lineGroup{
		title:  title,
		header: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		box:    container.NewVBox(),
	}
	for _, l := range lines {
		row := newLineRow(v.u, l)
		v.rows[l.ID] = row
		g.rows = append(g.rows, row)
		g.box.Add(row.root)
	}
	g.refreshHeader()
	return g
}

// applyPatch lands one confirmed edit: the row and aggregates update in
// place, and only a bucket change moves the row. Other rows keep their
// widgets and positions.
func (v *detailView) applyPatch(p picking.LinePatch) {
	v.setOrder(p.Order)

	row, ok := v.rows[p.Line.ID]
	if !ok {
		return
	}
	row.setLine(p.Line)

	if p.Prev == p.Next {
		return
	}
	from, to := v.groups[p.Prev], v.groups[p.Next]
	if from == nil || to == nil {
		return
	}
	from.remove(row)
	if p.Next == picking.BucketIncomplete {
		// Back to work goes to its catalog position, not the bottom.
		to.insertSorted(row)
	} else {
		// Newly finished lines stack at the end in completion order.
		to.appendRow(row)
	}
	from.refreshHeader()
	to.refreshHeader()
}

// lineGroup is one titled section of rows. rows and box.Objects stay in
// the same order.
type lineGroup struct {
	title  string
	header *widget.Label
	box    *fyne.Container
	rows   []*lineRow
}

func (g *lineGroup) refreshHeader() {
	g.header.SetText(fmt.Sprintf("%s (%d)", g.title, len(g.rows)))
	if len(g.rows) == 0 {
		g.header.Hide()
	} else {
		g.header.Show()
	}
}

func (g *lineGroup) remove(row *lineRow) {
	for i, r := range g.rows {
		if r == row {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			break
		}
	}
	g.box.Remove(row.root)
}

func (g *lineGroup) appendRow(row *lineRow) {
	g.rows = append(g.rows, row)
	g.box.Add(row.root)
}

func (g *lineGroup) insertSorted(row *lineRow) {
	idx := len(g.rows)
	for i, r := range g.rows {
		if r.line.SortIndex > row.line.SortIndex {
			idx = i
			break
		}
	}
	g.rows = append(g.rows[:idx], append([]*lineRow{row}, g.rows[idx:]...)...)
	objs := g.box.Objects
	g.box.Objects = append(objs[:idx:idx], append([]fyne.CanvasObject{row.root}, objs[idx:]...)...)
	g.box.Refresh()
}

// lineRow is one item row with stepper buttons. Steppers fire the
// controller off the event loop; the row only changes when the confirmed
// patch comes back.
type lineRow struct {
	root fyne.CanvasObject
	line picking.Line

	qty   *widget.Label
	delta *widget.Label
	minus *widget.Button
	plus  *widget.Button
}

func newLineRow(u *UI, l picking.Line) *lineRow {
	row := &lineRow{
		qty:   widget.NewLabel(""),
		delta: widget.NewLabel(""),
	}
	id := l.ID
	row.minus = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		go func() {
			_ = u.ctrl.AdjustLine(id, -1)
		}()
	})
	row.plus = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		go func() {
			_ = u.ctrl.AdjustLine(id, 1)
		}()
	})

	name := widget.NewLabel(l.ItemName)
	name.Truncation = fyne.TextTruncateEllipsis
	row.delta.Importance = widget.WarningImportance

	row.root = container.NewBorder(nil, nil, nil,
		container.NewHBox(row.delta, row.minus, row.qty, row.plus),
		name,
	)
	row.setLine(l)
	return row
}

func (r *lineRow) setLine(l picking.Line) {
	r.line = l
	r.qty.SetText(fmt.Sprintf("%s / %s %s",
		picking.FormatQty(l.QtyCollected),
		picking.FormatQty(l.QtyOrdered),
		l.Unit,
	))
	if d, ok := picking.LineDelta(l); ok {
		if d > 0 {
			r.delta.SetText("+" + picking.FormatQty(d))
		} else {
			r.delta.SetText("-" + picking.FormatQty(-d))
		}
		r.delta.Show()
	} else {
		r.delta.SetText("")
		r.delta.Hide()
	}
	if l.Removed {
		r.minus.Disable()
		r.plus.Disable()
	} else {
		r.minus.Enable()
		r.plus.Enable()
	}
}
