package ui

// Layout constants. Keep these in one place so panel geometry and hit
// testing stay in sync.
const (
	// BorderLines is the vertical overhead of a panel frame (top + bottom border).
	BorderLines = 2
	// BorderCols is the horizontal overhead of a panel frame (left + right border).
	BorderCols = 2
	// HeaderLines is the column header plus its divider inside a list panel.
	HeaderLines = 2
	// FooterLines is the counter line at the bottom of a list panel.
	FooterLines = 1
	// MinPanelWidth is the narrowest panel the packer will emit.
	MinPanelWidth = 8
	// MinPanelHeight leaves room for the frame and at least one content row.
	MinPanelHeight = BorderLines + HeaderLines + FooterLines + 1

	// PopupPadX and PopupPadY inset the preview overlay from the viewport edges.
	PopupPadX = 6
	PopupPadY = 2
)

// Rect is a panel's placement in screen cells. X/Y are zero-based from the
// top-left of the viewport.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Pack places panels of the given widths into the viewport. Panels flow
// left to right and wrap to a new row when the next one would cross the
// right edge. Every row gets the same height, viewport height divided by
// the number of rows, so tables in the same layout line up.
func Pack(viewportW, viewportH int, widths []int) []Rect {
	if len(widths) == 0 {
		return nil
	}
	if viewportW < MinPanelWidth {
		viewportW = MinPanelWidth
	}

	rects := make([]Rect, len(widths))
	rowOf := make([]int, len(widths))
	x := 0
	row := 0
	for i, w := range widths {
		if w < MinPanelWidth {
			w = MinPanelWidth
		}
		if w > viewportW {
			w = viewportW
		}
		if x > 0 && x+w > viewportW {
			row++
			x = 0
		}
		rects[i] = Rect{X: x, W: w}
		rowOf[i] = row
		x += w
	}

	numRows := row + 1
	rowHeight := viewportH / numRows
	if rowHeight < MinPanelHeight {
		rowHeight = MinPanelHeight
	}
	for i := range rects {
		rects[i].Y = rowOf[i] * rowHeight
		rects[i].H = rowHeight
	}
	return rects
}

// PopupRect returns the preview overlay's placement, the full viewport
// inset by fixed padding.
func PopupRect(viewportW, viewportH int) Rect {
	w := viewportW - 2*PopupPadX
	h := viewportH - 2*PopupPadY
	if w < MinPanelWidth {
		w = viewportW
	}
	if h < MinPanelHeight {
		h = viewportH
	}
	x := (viewportW - w) / 2
	y := (viewportH - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}
