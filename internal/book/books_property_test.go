package book

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/openvenue/matchbook/internal/domain"
)

func TestProperty_WalkOrderIsInsertionOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		side := domain.SideSell
		if rapid.Bool().Draw(t, "isBuy") {
			side = domain.SideBuy
		}

		n := rapid.IntRange(1, 40).Draw(t, "n")
		entries := make([]Entry, n)
		for i := range entries {
			price := domain.Price(rapid.Int64Range(90, 110).Draw(t, fmt.Sprintf("price-%d", i)))
			offset := rapid.Int64Range(0, 5).Draw(t, fmt.Sprintf("time-%d", i))
			entries[i] = newEntry(side, price, 1,
				t0.Add(time.Duration(offset)*time.Second), domain.EventID(i+1))
		}

		forward := New("XBT-EUR")
		for _, e := range entries {
			forward = forward.Insert(e)
		}
		backward := New("XBT-EUR")
		for i := len(entries) - 1; i >= 0; i-- {
			backward = backward.Insert(entries[i])
		}

		got := collect(forward, side)
		want := collect(backward, side)
		if len(got) != n || len(want) != n {
			t.Fatalf("lens = %d/%d, want %d", len(got), len(want), n)
		}
		for i := range got {
			if !got[i].SameKey(want[i]) {
				t.Fatalf("order diverges at %d: %+v vs %+v", i, got[i], want[i])
			}
		}

		// Priority never violates price-time order.
		m := side.Multiplier()
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			if m*int64(prev.Price) > m*int64(cur.Price) {
				t.Fatalf("price order violated at %d: %d then %d", i, prev.Price, cur.Price)
			}
			if prev.Price == cur.Price && prev.SubmittedAt.After(cur.SubmittedAt) {
				t.Fatalf("time order violated at %d within price %d", i, cur.Price)
			}
		}
	})
}
