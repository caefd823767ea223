package pnet

// FiringUpdates is a static index derived from the sparsity pattern of the
// arc matrices. For each transition t it records which transitions might
// become enabled after t fires (t adds tokens to a place they consume
// from) and which might become disabled (t consumes from a place they
// consume from, t itself included).
type FiringUpdates struct {
	canEnable    [][]int
	mightDisable [][]int
}

// NewFiringUpdates builds the index from the input and output matrices.
func NewFiringUpdates(tIn, tOut Matrix) FiringUpdates {
	transitions := tIn.Transitions()
	places := tIn.Places()

	// consumers[p] lists transitions that remove tokens from place p,
	// in ascending order.
	consumers := make([][]int, places)
	addsTo := make([][]int, transitions)
	for t := 0; t < transitions; t++ {
		for p := 0; p < places; p++ {
			if tOut.At(t, p) > 0 {
				addsTo[t] = append(addsTo[t], p)
			}
			if tIn.At(t, p) > 0 {
				consumers[p] = append(consumers[p], t)
			}
		}
	}

	u := FiringUpdates{
		canEnable:    make([][]int, transitions),
		mightDisable: make([][]int, transitions),
	}
	for t := 0; t < transitions; t++ {
		enables := make(map[int]struct{})
		for _, p := range addsTo[t] {
			for _, other := range consumers[p] {
				enables[other] = struct{}{}
			}
		}
		u.canEnable[t] = sortedKeys(enables)

		disables := make(map[int]struct{})
		for p := 0; p < places; p++ {
			if tIn.At(t, p) > 0 {
				for _, other := range consumers[p] {
					disables[other] = struct{}{}
				}
			}
		}
		u.mightDisable[t] = sortedKeys(disables)
	}
	return u
}

// CanEnable returns the transitions that might become enabled after t
// fires, in ascending order.
func (u FiringUpdates) CanEnable(t int) []int { return u.canEnable[t] }

// MightDisable returns the transitions that might become disabled after t
// fires, in ascending order.
func (u FiringUpdates) MightDisable(t int) []int { return u.mightDisable[t] }

func sortedKeys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	result := make([]int, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	// insertion sort; candidate sets are small and often nearly sorted
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j] < result[j-1]; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result
}
