package picking

// LinePatch describes a single-line update for in-place rendering. Prev and
// Next are the line's bucket before and after the update; when they differ
// the renderer relocates the row instead of rebuilding the list. A row that
// just completed goes to the end of the complete group (ahead of removed
// items); a row that dropped back to incomplete reinserts at the position
// its SortIndex dictates.
type LinePatch struct {
	Line  Line
	Order Order
	Prev  Bucket
	Next  Bucket
}

// Presenter is the rendering contract the engine drives. Implementations
// project engine state onto the screen; they never re-derive
// classification or aggregates themselves. Full renders replace a view,
// Update* calls adjust existing elements in place.
type Presenter interface {
	// RenderBoard replaces the board view with the given columns.
	RenderBoard(cols BoardColumns)

	// UpdateOrderCard refreshes the progress and tags of an existing
	// card without rebuilding its column. Unknown orders are ignored.
	UpdateOrderCard(o Order)

	// RenderDetail replaces the detail view for one open order.
	RenderDetail(d Detail, groups LineGroups)

	// UpdateLine adjusts a single line row in place, relocating it when
	// its bucket changed.
	UpdateLine(p LinePatch)

	// ShowCompletion displays the transient "order complete" overlay.
	// Returning to the board afterwards is the controller's job.
	ShowCompletion(o Order)

	// ShowLogin drops the user back to the login surface after the
	// session was invalidated.
	ShowLogin(reason string)
}
