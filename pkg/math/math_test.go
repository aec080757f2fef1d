package math

import "testing"

func TestDivRoundUp(t *testing.T) {
	for _, tc := range []struct {
		a, b, wanted int64
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{1024, 512, 2},
	} {
		if found := DivRoundUp(tc.a, tc.b); found != tc.wanted {
			t.Fatalf(
				"DivRoundUp(%d, %d): wanted `%d`; found `%d`",
				tc.a,
				tc.b,
				tc.wanted,
				found,
			)
		}
	}
}

func TestMin(t *testing.T) {
	if found := Min(uint32(3), uint32(7)); found != 3 {
		t.Fatalf("Min(3, 7): wanted `3`; found `%d`", found)
	}
	if found := Min(-1, 0); found != -1 {
		t.Fatalf("Min(-1, 0): wanted `-1`; found `%d`", found)
	}
}
