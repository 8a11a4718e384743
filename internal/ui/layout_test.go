package ui

import "testing"

func TestPackSingleRow(t *testing.T) {
	rects := Pack(120, 30, []int{40, 40, 30})
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	wantX := []int{0, 40, 80}
	for i, r := range rects {
		if r.X != wantX[i] || r.Y != 0 {
			t.Errorf("rect %d at (%d,%d), want (%d,0)", i, r.X, r.Y, wantX[i])
		}
		if r.H != 30 {
			t.Errorf("rect %d height %d, want full viewport height 30", i, r.H)
		}
	}
}

func TestPackWrapsAtRightEdge(t *testing.T) {
	// 60 fills past half, 50 cannot fit beside it, 40 fits beside the 50.
	rects := Pack(100, 30, []int{60, 50, 40})
	if rects[0].Y != 0 {
		t.Errorf("first panel should be on row 0, got Y=%d", rects[0].Y)
	}
	if rects[1].X != 0 || rects[1].Y == 0 {
		t.Errorf("second panel should wrap to a new row, got (%d,%d)", rects[1].X, rects[1].Y)
	}
	if rects[2].Y != rects[1].Y || rects[2].X != 50 {
		t.Errorf("third panel should sit beside the second, got (%d,%d)", rects[2].X, rects[2].Y)
	}
	for i, r := range rects {
		if r.H != 15 {
			t.Errorf("rect %d height %d, want 15 (two equal rows)", i, r.H)
		}
	}
}

func TestPackNoOverlap(t *testing.T) {
	overlap := func(a, b Rect) bool {
		return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
	}
	cases := [][]int{
		{30, 30, 30},
		{90, 20, 20, 90},
		{100, 100},
		{10, 95, 10, 10, 10},
	}
	for _, widths := range cases {
		rects := Pack(100, 40, widths)
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				if overlap(rects[i], rects[j]) {
					t.Errorf("widths %v: rects %d and %d overlap: %+v %+v", widths, i, j, rects[i], rects[j])
				}
			}
		}
	}
}

func TestPackClampsOversizedPanel(t *testing.T) {
	rects := Pack(80, 24, []int{200})
	if rects[0].W != 80 {
		t.Errorf("width %d, want clamped to viewport 80", rects[0].W)
	}
}

func TestPackEnforcesMinimums(t *testing.T) {
	rects := Pack(100, 4, []int{2, 2})
	for i, r := range rects {
		if r.W < MinPanelWidth {
			t.Errorf("rect %d width %d below minimum %d", i, r.W, MinPanelWidth)
		}
		if r.H < MinPanelHeight {
			t.Errorf("rect %d height %d below minimum %d", i, r.H, MinPanelHeight)
		}
	}
}

func TestPackEmpty(t *testing.T) {
	if rects := Pack(100, 40, nil); rects != nil {
		t.Errorf("expected nil for no panels, got %v", rects)
	}
}

func TestPopupRectInsets(t *testing.T) {
	r := PopupRect(100, 40)
	if r.X != PopupPadX || r.Y != PopupPadY {
		t.Errorf("popup at (%d,%d), want (%d,%d)", r.X, r.Y, PopupPadX, PopupPadY)
	}
	if r.W != 100-2*PopupPadX || r.H != 40-2*PopupPadY {
		t.Errorf("popup size %dx%d, want %dx%d", r.W, r.H, 100-2*PopupPadX, 40-2*PopupPadY)
	}
}

func TestPopupRectTinyViewportFallsBackToFull(t *testing.T) {
	r := PopupRect(12, 5)
	if r.W != 12 || r.H != 5 || r.X != 0 || r.Y != 0 {
		t.Errorf("tiny viewport should use the whole screen, got %+v", r)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 5, W: 20, H: 10}
	for _, tc := range []struct {
		x, y int
		want bool
	}{
		{10, 5, true},
		{29, 14, true},
		{30, 5, false},
		{10, 15, false},
		{9, 5, false},
		{15, 4, false},
	} {
		if got := r.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}
