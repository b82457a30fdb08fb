package model

// indexer interface is design to give a unique cell index to a (day, period) pair of the slot table and vice versa
type indexer interface {
	// Returns a unique index to a (day, period) pair
	Index(day, period int) int
	// Returns the (day, period) pair from a unique index
	Attributes(index int) (day int, period int)
	// Returns the number of cells of the table
	Cells() int
}

func newIndexer(days, periods int) indexer {
	return &indexerImplementation{
		days:    days,
		periods: periods,
	}
}
