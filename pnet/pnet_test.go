package pnet

import (
	"math/rand/v2"
	"testing"
)

// Two-place cycle: t0 moves a token p1 -> p0, t1 moves it back.
func cycleNet() Net {
	return NewNet(
		[][]int16{{0, 1}, {1, 0}},
		[][]int16{{1, 0}, {0, 1}},
	)
}

func TestFireAppliesEffectRow(t *testing.T) {
	net := cycleNet()
	m := Marking{0, 1}

	next := Fire(m, net.Effect, 0)
	if !next.Equals(Marking{1, 0}) {
		t.Errorf("expected [1 0], got %v", next)
	}
	// the source marking is untouched
	if !m.Equals(Marking{0, 1}) {
		t.Errorf("Fire mutated its input: %v", m)
	}

	FireInPlace(next, net.Effect, 1)
	if !next.Equals(Marking{0, 1}) {
		t.Errorf("expected [0 1] after firing back, got %v", next)
	}
}

func TestFindEnabledAscending(t *testing.T) {
	net := NewNet(
		[][]int16{{1, 0}, {0, 1}, {1, 1}},
		[][]int16{{0, 1}, {1, 0}, {0, 0}},
	)

	enabled := FindEnabled(Marking{1, 1}, net.In)
	want := []int{0, 1, 2}
	if len(enabled) != len(want) {
		t.Fatalf("expected %v, got %v", want, enabled)
	}
	for i, v := range want {
		if enabled[i] != v {
			t.Fatalf("expected %v, got %v", want, enabled)
		}
	}

	enabled = FindEnabled(Marking{0, 1}, net.In)
	if len(enabled) != 1 || enabled[0] != 1 {
		t.Errorf("expected [1], got %v", enabled)
	}

	if FindEnabled(Marking{0, 0}, net.In) != nil {
		t.Error("expected no enabled transitions at the zero marking")
	}
}

func TestIsEnabledComponentwise(t *testing.T) {
	net := NewNet([][]int16{{2, 1}}, [][]int16{{0, 0}})

	if IsEnabled(Marking{1, 1}, net.In, 0) {
		t.Error("transition needs 2 tokens in place 0")
	}
	if !IsEnabled(Marking{2, 1}, net.In, 0) {
		t.Error("transition should be enabled at [2 1]")
	}
}

func TestFiringUpdatesInvariants(t *testing.T) {
	// t0: p0 -> p1, t1: p1 -> p0, t2: p0 -> (sink)
	net := NewNet(
		[][]int16{{1, 0}, {0, 1}, {1, 0}},
		[][]int16{{0, 1}, {1, 0}, {0, 0}},
	)
	u := NewFiringUpdates(net.In, net.Out)

	// t0 adds to p1, consumed only by t1
	assertInts(t, u.CanEnable(0), []int{1})
	// t0 consumes from p0, shared with t2 and itself
	assertInts(t, u.MightDisable(0), []int{0, 2})

	assertInts(t, u.CanEnable(1), []int{0, 2})
	assertInts(t, u.MightDisable(1), []int{1})

	// t2 produces nothing
	assertInts(t, u.CanEnable(2), nil)
	assertInts(t, u.MightDisable(2), []int{0, 2})
}

func assertInts(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// UpdateEnabled seeded with a correct enabled set must agree with a full
// scan after every firing, on randomly generated sparse nets.
func TestUpdateEnabledMatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := 0; trial < 50; trial++ {
		transitions := 2 + rng.IntN(6)
		places := 2 + rng.IntN(6)

		inputs := make([][]int16, transitions)
		outputs := make([][]int16, transitions)
		for i := range inputs {
			inputs[i] = make([]int16, places)
			outputs[i] = make([]int16, places)
			for p := 0; p < places; p++ {
				if rng.IntN(3) == 0 {
					inputs[i][p] = int16(1 + rng.IntN(2))
				}
				if rng.IntN(3) == 0 {
					outputs[i][p] = int16(1 + rng.IntN(2))
				}
			}
		}
		net := NewNet(inputs, outputs)
		u := NewFiringUpdates(net.In, net.Out)

		m := make(Marking, places)
		for p := range m {
			m[p] = int16(rng.IntN(4))
		}

		enabled := FindEnabled(m, net.In)
		for step := 0; step < 200 && len(enabled) > 0; step++ {
			fired := enabled[rng.IntN(len(enabled))]
			FireInPlace(m, net.Effect, fired)

			enabled = UpdateEnabled(m, net.In, enabled, u, fired)
			assertInts(t, enabled, FindEnabled(m, net.In))
		}
	}
}

func TestMarkingKeyAndEquality(t *testing.T) {
	a := Marking{1, 0, 2}
	b := Marking{1, 0, 2}
	c := Marking{1, 2, 0}

	if a.Key() != b.Key() {
		t.Error("equal markings must share a key")
	}
	if a.Key() == c.Key() {
		t.Error("distinct markings must have distinct keys")
	}
	if !a.Equals(b) || a.Equals(c) {
		t.Error("structural equality broken")
	}
}

func TestMarkingString(t *testing.T) {
	if got := (Marking{1, 0, 2}).String(); got != "[1, 0, 2]" {
		t.Errorf("expected [1, 0, 2], got %q", got)
	}
	if got := (Marking{}).String(); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestCoverage(t *testing.T) {
	base := Marking{1, 1, 0}

	if !(Marking{1, 2, 0}).StrictlyCovers(base) {
		t.Error("[1 2 0] strictly covers [1 1 0]")
	}
	if (Marking{1, 1, 0}).StrictlyCovers(base) {
		t.Error("a marking does not strictly cover itself")
	}
	if (Marking{2, 0, 0}).StrictlyCovers(base) {
		t.Error("[2 0 0] is incomparable to [1 1 0]")
	}
	if !(Marking{1, 1, 0}).Covers(base) {
		t.Error("a marking covers itself")
	}
}
