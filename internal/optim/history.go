package optim

// historyPair is one curvature observation: s is the step vector actually
// subtracted from the parameters, y is the change in the flat gradient
// recorded at the same outer step. On the first step y seeds to the raw
// gradient because there is no previous gradient to difference against.
type historyPair struct {
	s []float64
	y []float64
}

// history is a bounded FIFO of curvature pairs. Pushing at capacity evicts
// the oldest pair first. Iteration over pairs is by index, oldest first,
// which is the order both loops of the recursion walk.
type history struct {
	pairs []historyPair
	cap   int
}

func newHistory(capacity int) *history {
	return &history{
		pairs: make([]historyPair, 0, capacity),
		cap:   capacity,
	}
}

func (h *history) push(p historyPair) {
	if len(h.pairs) == h.cap {
		copy(h.pairs, h.pairs[1:])
		h.pairs = h.pairs[:len(h.pairs)-1]
	}
	h.pairs = append(h.pairs, p)
}

func (h *history) size() int {
	return len(h.pairs)
}

// newest returns the most recently pushed pair, which supplies the initial
// Hessian scaling.
func (h *history) newest() (historyPair, bool) {
	if len(h.pairs) == 0 {
		return historyPair{}, false
	}
	return h.pairs[len(h.pairs)-1], true
}

func (h *history) clear() {
	h.pairs = h.pairs[:0]
}
