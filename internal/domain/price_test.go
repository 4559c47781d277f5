package domain

import "testing"

func TestPrice_Betters(t *testing.T) {
	tests := []struct {
		side  Side
		p     Price
		other Price
		want  bool
	}{
		{SideBuy, 101, 100, true},
		{SideBuy, 100, 100, true},
		{SideBuy, 99, 100, false},
		{SideSell, 99, 100, true},
		{SideSell, 100, 100, true},
		{SideSell, 101, 100, false},
	}
	for _, tt := range tests {
		if got := tt.p.Betters(tt.side, tt.other); got != tt.want {
			t.Errorf("Price(%d).Betters(%s, %d) = %v, want %v", tt.p, tt.side, tt.other, got, tt.want)
		}
	}
}

func TestPrice_OnTick(t *testing.T) {
	tests := []struct {
		p    Price
		tick int64
		want bool
	}{
		{100, 1, true},
		{101, 1, true},
		{100, 5, true},
		{101, 5, false},
		{100, 0, true},
	}
	for _, tt := range tests {
		if got := tt.p.OnTick(tt.tick); got != tt.want {
			t.Errorf("Price(%d).OnTick(%d) = %v, want %v", tt.p, tt.tick, got, tt.want)
		}
	}
}

func TestPrice_IsSet(t *testing.T) {
	if None.IsSet() {
		t.Error("None should not be set")
	}
	if !Price(1).IsSet() {
		t.Error("Price(1) should be set")
	}
}

func TestSide_Opposite(t *testing.T) {
	if SideBuy.Opposite() != SideSell {
		t.Errorf("SideBuy.Opposite() = %q, want %q", SideBuy.Opposite(), SideSell)
	}
	if SideSell.Opposite() != SideBuy {
		t.Errorf("SideSell.Opposite() = %q, want %q", SideSell.Opposite(), SideBuy)
	}
}

func TestEventID_Sequence(t *testing.T) {
	var id EventID
	next := id.Next()
	if next != 1 {
		t.Fatalf("Next() = %d, want 1", next)
	}
	if !next.IsNextOf(id) {
		t.Error("Next() should directly follow the original id")
	}
	if next.Next().IsNextOf(id) {
		t.Error("skipping an id should not count as next")
	}
}
