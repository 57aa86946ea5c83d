package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ohalin/pickdesk/internal/picking"
)

func fixtureDetail() (picking.Detail, picking.LineGroups) {
	lines := []picking.Line{
		{ID: 1, OrderID: 7, ItemName: "bolts", Unit: "pcs", QtyOrdered: 5, QtyCollected: 1, SortIndex: 0},
		{ID: 2, OrderID: 7, ItemName: "nuts", Unit: "pcs", QtyOrdered: 3, QtyCollected: 3, SortIndex: 1},
		{ID: 3, OrderID: 7, ItemName: "washers", Unit: "pcs", QtyOrdered: 4, QtyCollected: 0, SortIndex: 2},
		{ID: 4, OrderID: 7, ItemName: "tape", Unit: "pcs", QtyOrdered: 2, QtyCollected: 0, SortIndex: 3},
		{ID: 5, OrderID: 7, ItemName: "glue", Unit: "pcs", QtyOrdered: 1, QtyCollected: 1, SortIndex: 4},
	}
	d := picking.Detail{
		Order: picking.Order{ID: 7, Number: "B-2", CustomerName: "ACME", TotalQty: 15, CollectedQty: 5},
		Lines: lines,
	}
	return d, picking.GroupLines(lines)
}

func newFixtureView(t *testing.T) (*detailView, picking.Detail) {
	t.Helper()
	test.NewApp()
	u := &UI{previewLines: 3, cards: make(map[int64]*orderCard)}
	d, groups := fixtureDetail()
	return newDetailView(u, d, groups), d
}

func groupIDs(g *lineGroup) []int64 {
	ids := make([]int64, len(g.rows))
	for i, r := range g.rows {
		ids[i] = r.line.ID
	}
	return ids
}

// assertAligned checks rows and widgets stayed in the same order.
func assertAligned(t *testing.T, g *lineGroup) {
	t.Helper()
	if len(g.box.Objects) != len(g.rows) {
		t.Fatalf("group has %d widgets for %d rows", len(g.box.Objects), len(g.rows))
	}
	for i, r := range g.rows {
		if g.box.Objects[i] != r.root {
			t.Errorf("widget %d does not belong to row %d (line %d)", i, i, r.line.ID)
		}
	}
}

func TestDetailBackTransitionReinsertsByCatalogOrder(t *testing.T) {
	v, d := newFixtureView(t)

	// nuts sits between bolts and washers in the catalog; decrementing it
	// out of the done group must bring it back to that slot.
	line := d.Lines[1]
	line.QtyCollected = 2
	v.applyPatch(picking.LinePatch{
		Line:  line,
		Order: d.Order,
		Prev:  picking.BucketComplete,
		Next:  picking.BucketIncomplete,
	})

	inc := v.groups[picking.BucketIncomplete]
	got := groupIDs(inc)
	want := []int64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("incomplete group = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("incomplete group = %v, want %v", got, want)
		}
	}
	assertAligned(t, inc)

	comp := v.groups[picking.BucketComplete]
	if ids := groupIDs(comp); len(ids) != 1 || ids[0] != 5 {
		t.Errorf("complete group = %v, want [5]", ids)
	}
	assertAligned(t, comp)
}

func TestDetailCompletionAppendsAfterExisting(t *testing.T) {
	v, d := newFixtureView(t)

	// washers finishes; it joins the done group after the lines that were
	// already there, regardless of catalog order.
	line := d.Lines[2]
	line.QtyCollected = 4
	v.applyPatch(picking.LinePatch{
		Line:  line,
		Order: d.Order,
		Prev:  picking.BucketIncomplete,
		Next:  picking.BucketComplete,
	})

	comp := v.groups[picking.BucketComplete]
	got := groupIDs(comp)
	want := []int64{2, 5, 3}
	if len(got) != len(want) {
		t.Fatalf("complete group = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("complete group = %v, want %v", got, want)
		}
	}
	assertAligned(t, comp)

	inc := v.groups[picking.BucketIncomplete]
	if ids := groupIDs(inc); len(ids) != 2 || ids[0] != 1 || ids[1] != 4 {
		t.Errorf("incomplete group = %v, want [1 4]", ids)
	}
	assertAligned(t, inc)
}

func TestDetailPatchWithoutBucketChangeKeepsPosition(t *testing.T) {
	v, d := newFixtureView(t)

	line := d.Lines[0]
	line.QtyCollected = 2
	v.applyPatch(picking.LinePatch{
		Line:  line,
		Order: d.Order,
		Prev:  picking.BucketIncomplete,
		Next:  picking.BucketIncomplete,
	})

	inc := v.groups[picking.BucketIncomplete]
	if ids := groupIDs(inc); len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 4 {
		t.Errorf("incomplete group = %v, want [1 3 4]", ids)
	}
	assertAligned(t, inc)
	if v.rows[1].line.QtyCollected != 2 {
		t.Errorf("row quantity = %v, want 2", v.rows[1].line.QtyCollected)
	}
}
