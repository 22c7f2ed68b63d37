package fields

// compareClockStore orders two (clock, storeId) pairs the way every
// last-writer-wins field in this package resolves conflicting writes:
// higher clock wins, and within equal clocks, higher storeId wins.
func compareClockStore(clockA uint64, storeA uint32, clockB uint64, storeB uint32) int {
	switch {
	case clockA < clockB:
		return -1
	case clockA > clockB:
		return 1
	case storeA < storeB:
		return -1
	case storeA > storeB:
		return 1
	default:
		return 0
	}
}
