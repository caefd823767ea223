package pnet

import "sort"

// IsEnabled checks whether transition t can fire at m: the marking must be
// at least as large as the input weights in every place.
func IsEnabled(m Marking, tIn Matrix, t int) bool {
	row := tIn.Row(t)
	for p, v := range m {
		if v < row[p] {
			return false
		}
	}
	return true
}

// FindEnabled scans every transition and returns the enabled ones in
// ascending index order.
func FindEnabled(m Marking, tIn Matrix) []int {
	var enabled []int
	for t := 0; t < tIn.Transitions(); t++ {
		if IsEnabled(m, tIn, t) {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// UpdateEnabled maintains the enabled set incrementally. Given the enabled
// set before the last firing and the transition that fired, only the
// transitions whose enabledness may have changed are re-checked:
// candidates that last might have enabled (they consume from a place it
// added to) or disabled (they share a consumed place with it). All other
// transitions keep their prior membership.
//
// An empty prev means the start of a run; it falls back to a full scan.
// The returned slice is ascending and may alias prev's storage.
func UpdateEnabled(m Marking, tIn Matrix, prev []int, updates FiringUpdates, last int) []int {
	if len(prev) == 0 {
		return FindEnabled(m, tIn)
	}

	enabled := prev
	for _, t := range updates.CanEnable(last) {
		if containsSorted(enabled, t) {
			continue
		}
		if IsEnabled(m, tIn, t) {
			enabled = insertSorted(enabled, t)
		}
	}
	for _, t := range updates.MightDisable(last) {
		if !containsSorted(enabled, t) {
			continue
		}
		if !IsEnabled(m, tIn, t) {
			enabled = removeSorted(enabled, t)
		}
	}
	return enabled
}

func containsSorted(set []int, t int) bool {
	i := sort.SearchInts(set, t)
	return i < len(set) && set[i] == t
}

func insertSorted(set []int, t int) []int {
	i := sort.SearchInts(set, t)
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = t
	return set
}

func removeSorted(set []int, t int) []int {
	i := sort.SearchInts(set, t)
	copy(set[i:], set[i+1:])
	return set[:len(set)-1]
}
