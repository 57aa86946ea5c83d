package picking

import "sync"

// Store is the reconciliation core. It exclusively owns the board cache
// and the open order's detail, ingests server responses wholesale, merges
// partial edit results into both without disturbing unrelated data, and
// hands out copies so callers cannot alias its state.
//
// Safe for concurrent use: the poll goroutine and UI callbacks both reach
// it.
type Store struct {
	mu     sync.RWMutex
	board  []BoardEntry
	detail *Detail
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// IngestBoard replaces the board cache with a fresh server listing. The
// response is authoritative; nothing from the previous cache survives.
// Entries are put in board order.
func (s *Store) IngestBoard(entries []BoardEntry) {
	fresh := make([]BoardEntry, len(entries))
	for i, e := range entries {
		fresh[i] = copyEntry(e)
	}
	SortBoard(fresh)

	s.mu.Lock()
	s.board = fresh
	s.mu.Unlock()
}

// IngestDetail replaces the open order's detail wholesale and makes that
// order the active one.
func (s *Store) IngestDetail(d Detail) {
	fresh := Detail{Order: d.Order, Lines: copyLines(d.Lines)}

	s.mu.Lock()
	s.detail = &fresh
	s.mu.Unlock()
}

// ClearDetail drops the open order, returning the store to board-only
// state. The board cache is untouched.
func (s *Store) ClearDetail() {
	s.mu.Lock()
	s.detail = nil
	s.mu.Unlock()
}

// Clear empties everything. Used on logout and on authentication failure.
func (s *Store) Clear() {
	s.mu.Lock()
	s.board = nil
	s.detail = nil
	s.mu.Unlock()
}

// ApplyLinePatch merges the authoritative order+line pair returned by a
// quantity edit into the detail and, when the order is on the board, into
// its board entry. All other lines and orders are left untouched. The
// return value reports whether this merge took the order from not-done to
// done, derived from the cached aggregates before and after; the server's
// own order_completed_now flag remains authoritative for the caller.
func (s *Store) ApplyLinePatch(o Order, l Line) (completedNow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasDone := false
	if prev, ok := s.cachedOrder(o.ID); ok {
		wasDone = OrderDone(prev)
	}

	s.mergeOrder(o)
	if s.detail != nil && s.detail.Order.ID == o.ID {
		replaceLine(s.detail.Lines, l)
	}
	for i := range s.board {
		if s.board[i].Order.ID == o.ID {
			replaceLine(s.board[i].Lines, l)
		}
	}

	return !wasDone && OrderDone(o)
}

// ApplyOrderPatch merges an order-level update (explicit completion, open
// notification result) into the detail and board without touching any
// lines.
func (s *Store) ApplyOrderPatch(o Order) {
	s.mu.Lock()
	s.mergeOrder(o)
	s.mu.Unlock()
}

// Board returns a copy of the board cache in board order.
func (s *Store) Board() []BoardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BoardEntry, len(s.board))
	for i, e := range s.board {
		out[i] = copyEntry(e)
	}
	return out
}

// Detail returns a copy of the open order's detail, or false when the
// board is showing.
func (s *Store) Detail() (Detail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detail == nil {
		return Detail{}, false
	}
	return Detail{Order: s.detail.Order, Lines: copyLines(s.detail.Lines)}, true
}

// ActiveOrderID returns the open order's id, or 0 when the board is
// showing.
func (s *Store) ActiveOrderID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detail == nil {
		return 0
	}
	return s.detail.Order.ID
}

// LineByID looks a line up in the open order's detail.
func (s *Store) LineByID(id int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detail == nil {
		return Line{}, false
	}
	for _, l := range s.detail.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return Line{}, false
}

// cachedOrder finds the freshest cached copy of an order, preferring the
// detail over the board preview. Caller holds the lock.
func (s *Store) cachedOrder(id int64) (Order, bool) {
	if s.detail != nil && s.detail.Order.ID == id {
		return s.detail.Order, true
	}
	for i := range s.board {
		if s.board[i].Order.ID == id {
			return s.board[i].Order, true
		}
	}
	return Order{}, false
}

// mergeOrder writes an order update into the detail and the matching board
// entry so the two can never disagree on aggregates. Caller holds the
// lock.
func (s *Store) mergeOrder(o Order) {
	if s.detail != nil && s.detail.Order.ID == o.ID {
		s.detail.Order = o
	}
	for i := range s.board {
		if s.board[i].Order.ID == o.ID {
			s.board[i].Order = o
		}
	}
}

func replaceLine(lines []Line, l Line) {
	for i := range lines {
		if lines[i].ID == l.ID {
			lines[i] = l
			return
		}
	}
}

func copyEntry(e BoardEntry) BoardEntry {
	return BoardEntry{Order: e.Order, Lines: copyLines(e.Lines)}
}

func copyLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
