package market

// ComputeView filters coins by query and filters, then sorts the result.
// It never mutates coins and returns the same output for the same inputs.
func ComputeView(coins []Coin, query string, filters FilterOptions, spec SortSpec) []Coin {
	return Sort(Filter(coins, query, filters), spec)
}
