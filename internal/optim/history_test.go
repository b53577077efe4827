package optim

import "testing"

func TestHistoryEvictsOldest(t *testing.T) {
	h := newHistory(3)
	for i := 1; i <= 5; i++ {
		h.push(historyPair{s: []float64{float64(i)}, y: []float64{float64(-i)}})
	}

	if h.size() != 3 {
		t.Fatalf("size: got %d, want 3", h.size())
	}
	for i, want := range []float64{3, 4, 5} {
		if h.pairs[i].s[0] != want {
			t.Errorf("pairs[%d].s: got %v, want %v", i, h.pairs[i].s[0], want)
		}
	}

	newest, ok := h.newest()
	if !ok || newest.s[0] != 5 {
		t.Errorf("newest: got (%v, %v), want (5, true)", newest.s, ok)
	}
}

func TestHistoryNewestOnEmpty(t *testing.T) {
	h := newHistory(3)
	if _, ok := h.newest(); ok {
		t.Error("newest on empty history should report false")
	}
}

func TestHistoryClear(t *testing.T) {
	h := newHistory(3)
	h.push(historyPair{s: []float64{1}, y: []float64{1}})
	h.push(historyPair{s: []float64{2}, y: []float64{2}})

	h.clear()
	if h.size() != 0 {
		t.Fatalf("size after clear: got %d, want 0", h.size())
	}

	h.push(historyPair{s: []float64{7}, y: []float64{7}})
	if h.size() != 1 || h.pairs[0].s[0] != 7 {
		t.Error("history should accept pushes after clear")
	}
}
