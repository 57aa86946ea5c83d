package picking

import (
	"sort"
	"strings"
	"time"
)

// OrderDone reports whether an order's aggregate quantities amount to a
// finished pick. An order with nothing to collect is never done by this
// rule; it only finishes through explicit completion.
func OrderDone(o Order) bool {
	if o.TotalQty <= epsilon {
		return false
	}
	return o.CollectedQty >= o.TotalQty-doneTolerance
}

// OrderColumn decides the board column for an order. A valid column hint
// from the server wins. Otherwise the order's status string is matched
// against the configured labels, and quantity progress is the last resort.
func OrderColumn(o Order, cfg ServerConfig) Column {
	if o.Column.Valid() {
		return o.Column
	}

	status := strings.TrimSpace(o.Status)
	if status != "" {
		if equalsLabel(status, cfg.StatusPicked) {
			return ColumnPicked
		}
		if equalsLabel(status, cfg.StatusPicking) {
			return ColumnPicking
		}
	}

	if OrderDone(o) {
		return ColumnPicked
	}
	if o.CollectedQty > epsilon {
		return ColumnPicking
	}
	return ColumnNotStarted
}

func equalsLabel(status, label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && strings.EqualFold(status, label)
}

// SortBoard orders entries the way the board expects them: soonest ship
// deadline first (by day), orders without a deadline after all orders with
// one, creation time as the tie breaker.
func SortBoard(entries []BoardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := deadlineDay(entries[i].Order), deadlineDay(entries[j].Order)
		if (di == nil) != (dj == nil) {
			return di != nil
		}
		if di != nil && dj != nil && !di.Equal(*dj) {
			return di.Before(*dj)
		}
		ci, cj := entries[i].Order.CreatedAt, entries[j].Order.CreatedAt
		if (ci == nil) != (cj == nil) {
			return ci != nil
		}
		if ci != nil && cj != nil {
			return ci.Before(*cj)
		}
		return false
	})
}

// deadlineDay truncates the ship deadline to its calendar day. The
// deadline carries a business date; time of day is noise for ordering.
func deadlineDay(o Order) *time.Time {
	if o.ShipDeadline == nil {
		return nil
	}
	y, m, d := o.ShipDeadline.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, o.ShipDeadline.Location())
	return &day
}
