package picking

// Bucket is a line's lifecycle classification on the detail screen. It is
// explicit state computed from the line record, never read back from
// whatever was last rendered.
type Bucket int

const (
	BucketIncomplete Bucket = iota
	BucketComplete
	BucketRemoved
)

func (b Bucket) String() string {
	switch b {
	case BucketIncomplete:
		return "incomplete"
	case BucketComplete:
		return "complete"
	case BucketRemoved:
		return "removed"
	}
	return "unknown"
}

// LineDone reports whether a line needs no further picking. Lines with
// nothing ordered are vacuously done; otherwise the collected quantity must
// reach the ordered quantity within doneTolerance.
func LineDone(l Line) bool {
	if l.QtyOrdered <= epsilon {
		return true
	}
	return l.QtyCollected >= l.QtyOrdered-doneTolerance
}

// LineBucket classifies a line. Removal wins over completion: a removed
// line is history, regardless of how much of it was collected.
func LineBucket(l Line) Bucket {
	if l.Removed {
		return BucketRemoved
	}
	if LineDone(l) {
		return BucketComplete
	}
	return BucketIncomplete
}

// LineDelta returns the upstream change to the ordered quantity and whether
// one exists. Added lines count in full. Changes below doneTolerance are
// reported as no change so the UI does not show noisy +0 badges.
func LineDelta(l Line) (float64, bool) {
	if l.Added {
		return l.QtyOrdered, true
	}
	if l.BaselineQtyOrdered == nil {
		return 0, false
	}
	d := l.QtyOrdered - *l.BaselineQtyOrdered
	if d < doneTolerance && d > -doneTolerance {
		return 0, false
	}
	return d, true
}
