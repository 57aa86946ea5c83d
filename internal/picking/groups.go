package picking

import "sort"

// BoardColumns is the board cache partitioned into its three columns,
// preserving board order within each column.
type BoardColumns struct {
	NotStarted []BoardEntry
	Picking    []BoardEntry
	Picked     []BoardEntry
}

// GroupBoard partitions entries by OrderColumn. Entries are expected to be
// in board order already (the store sorts on ingest).
func GroupBoard(entries []BoardEntry, cfg ServerConfig) BoardColumns {
	var cols BoardColumns
	for _, e := range entries {
		switch OrderColumn(e.Order, cfg) {
		case ColumnPicked:
			cols.Picked = append(cols.Picked, e)
		case ColumnPicking:
			cols.Picking = append(cols.Picking, e)
		default:
			cols.NotStarted = append(cols.NotStarted, e)
		}
	}
	return cols
}

// LineGroups is an order's lines partitioned by bucket, each group sorted
// by SortIndex ascending. The detail screen shows the groups in this
// order: incomplete, complete, removed.
type LineGroups struct {
	Incomplete []Line
	Complete   []Line
	Removed    []Line
}

// GroupLines partitions lines by LineBucket.
func GroupLines(lines []Line) LineGroups {
	var g LineGroups
	for _, l := range lines {
		switch LineBucket(l) {
		case BucketRemoved:
			g.Removed = append(g.Removed, l)
		case BucketComplete:
			g.Complete = append(g.Complete, l)
		default:
			g.Incomplete = append(g.Incomplete, l)
		}
	}
	sortBySortIndex(g.Incomplete)
	sortBySortIndex(g.Complete)
	sortBySortIndex(g.Removed)
	return g
}

func sortBySortIndex(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].SortIndex < lines[j].SortIndex
	})
}
