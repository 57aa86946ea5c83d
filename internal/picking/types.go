// Package picking holds the domain model of the order-picking client:
// orders, order lines, the classification rules that decide where they
// appear on screen, and the reconciliation store that keeps the cached
// board and the open order consistent across refreshes and edits.
package picking

import "time"

// Column is the board column an order card belongs to.
type Column string

const (
	ColumnNotStarted Column = "not_started"
	ColumnPicking    Column = "picking"
	ColumnPicked     Column = "picked"
)

// Valid reports whether c is one of the three known columns.
func (c Column) Valid() bool {
	switch c {
	case ColumnNotStarted, ColumnPicking, ColumnPicked:
		return true
	}
	return false
}

// Urgency codes attached to orders by the server. The text that goes with
// them is server-composed; the client only styles by code.
const (
	UrgencyOverdue = "overdue"
	UrgencyDueSoon = "due_soon"
	UrgencyStale   = "stale"
)

// Order is an order summary as the server reports it. Aggregate fields
// (TotalQty, CollectedQty, ProgressPct) are server-derived; the client
// never recomputes them from lines.
type Order struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	CustomerName string     `json:"customer_name"`
	Comment      string     `json:"comment"`
	Status       string     `json:"status"`
	Column       Column     `json:"column"`
	Urgency      string     `json:"urgency"`
	UrgencyText  string     `json:"urgency_text"`
	CreatedAt    *time.Time `json:"created_at"`
	ShipDeadline *time.Time `json:"ship_deadline"`

	TotalQty     float64 `json:"total_qty"`
	CollectedQty float64 `json:"collected_qty"`
	ProgressPct  float64 `json:"progress_pct"`
	TotalLines   int     `json:"total_lines"`
	LinesDone    int     `json:"lines_done"`
}

// Line is a single order line. BaselineQtyOrdered is only present when the
// server detected an upstream change to the ordered quantity; Added and
// Removed mark lines that appeared in, or were dropped from, the order
// after it was first seen.
type Line struct {
	ID                 int64    `json:"id"`
	OrderID            int64    `json:"order_id"`
	ItemID             string   `json:"item_id"`
	ItemName           string   `json:"item_name"`
	Unit               string   `json:"unit"`
	QtyOrdered         float64  `json:"qty_ordered"`
	QtyCollected       float64  `json:"qty_collected"`
	BaselineQtyOrdered *float64 `json:"baseline_qty_ordered"`
	Added              bool     `json:"is_added"`
	Removed            bool     `json:"is_removed"`
	SortIndex          int      `json:"sort_index"`
}

// BoardEntry pairs an order summary with a bounded preview of its lines.
// The preview is for card display only and is not authoritative for
// completion logic.
type BoardEntry struct {
	Order Order  `json:"order"`
	Lines []Line `json:"lines"`
}

// Detail is the full line set of the currently open order. Unlike the
// board preview it is authoritative.
type Detail struct {
	Order Order  `json:"order"`
	Lines []Line `json:"lines"`
}

// ServerConfig carries the thresholds and status labels the server exposes
// on /api/config. The status strings feed the status-to-column mapping.
type ServerConfig struct {
	DueSoonHours   int      `json:"due_soon_hours"`
	StaleHours     int      `json:"stale_hours"`
	StatusPicking  string   `json:"status_picking"`
	StatusPicked   string   `json:"status_picked"`
	StatusInWork   string   `json:"status_in_work"`
	StatusShipped  string   `json:"status_shipped"`
	StatusFinished string   `json:"status_finished"`
	ActiveStatuses []string `json:"active_statuses"`
}
