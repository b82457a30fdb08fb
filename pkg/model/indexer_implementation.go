package model

type indexerImplementation struct {
	days    int
	periods int
}

func (indexer *indexerImplementation) Index(day, period int) int {
	return period + indexer.periods*day
}

func (indexer *indexerImplementation) Attributes(index int) (day, period int) {
	period = index % indexer.periods
	day = index / indexer.periods
	return day, period
}

func (indexer *indexerImplementation) Cells() int {
	return indexer.days * indexer.periods
}
