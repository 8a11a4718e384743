package ui

import (
	"fmt"
	"runtime/debug"
	"strings"

	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/rowpick/internal/formatter"
)

// ShiftStrategy controls how the viewport follows the cursor.
type ShiftStrategy int

const (
	// ShiftCursor scrolls minimally so the cursor stays visible.
	ShiftCursor ShiftStrategy = iota
	// ShiftPage jumps the viewport a full page at a time, pinning the
	// cursor to the top of each page. Used by the preview popup.
	ShiftPage
)

// PanelState holds the cursor, viewport, and filter state shared by every
// panel kind. Panel-specific content lives in the ContentProvider that owns
// the state.
type PanelState struct {
	Cursor int // selected content row, 0-based within filtered content
	Offset int // first visible content row
	Rows   int // content rows available in the viewport

	Shift      ShiftStrategy
	Active     bool
	FilterMode bool
	Filter     textinput.Model
	Err        string

	matcher *formatter.Matcher
}

// NewPanelState returns a state with an empty filter buffer.
func NewPanelState(shift ShiftStrategy) PanelState {
	fi := textinput.New()
	fi.Prompt = ""
	fi.CharLimit = 200
	return PanelState{Shift: shift, Filter: fi}
}

// SetActive toggles visual focus. Gaining focus leaves filter mode, typing
// resumes only after an explicit re-entry.
func (p *PanelState) SetActive(active bool) {
	p.Active = active
	if active {
		p.FilterMode = false
	}
}

// SyncFilter rebuilds the match tokens from the current filter buffer.
func (p *PanelState) SyncFilter() {
	p.matcher = formatter.NewMatcher(p.Filter.Value())
}

// Matcher returns the compiled filter matcher, nil when the buffer is empty.
func (p *PanelState) Matcher() *formatter.Matcher {
	return p.matcher
}

// ClearFilter empties the buffer and drops the matcher.
func (p *PanelState) ClearFilter() {
	p.Filter.SetValue("")
	p.matcher = nil
}

// Move shifts the cursor by delta rows. Navigation cancels filter mode.
func (p *PanelState) Move(delta, total int) {
	p.FilterMode = false
	p.Cursor += delta
	p.Clamp(total)
}

// Page shifts the cursor by whole viewport pages.
func (p *PanelState) Page(delta, total int) {
	step := p.Rows
	if step < 1 {
		step = 1
	}
	p.Move(delta*step, total)
}

// Home moves the cursor to the first row, End to the last.
func (p *PanelState) Home(total int) {
	p.FilterMode = false
	p.Cursor = 0
	p.Clamp(total)
}

func (p *PanelState) End(total int) {
	p.FilterMode = false
	p.Cursor = total - 1
	p.Clamp(total)
}

// Clamp forces the cursor into [0, total) and realigns the viewport so that
// Offset <= Cursor < Offset+Rows.
func (p *PanelState) Clamp(total int) {
	if p.Cursor >= total {
		p.Cursor = total - 1
	}
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.Rows < 1 {
		p.Offset = 0
		return
	}
	switch p.Shift {
	case ShiftPage:
		p.Offset = (p.Cursor / p.Rows) * p.Rows
	default:
		if p.Cursor < p.Offset {
			p.Offset = p.Cursor
		}
		if p.Cursor >= p.Offset+p.Rows {
			p.Offset = p.Cursor - p.Rows + 1
		}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ContentProvider is the per-panel-kind logic: it produces the text a panel
// shows and owns that panel's PanelState.
type ContentProvider interface {
	State() *PanelState
	Title() string
	// HeaderLines and FooterLine are fixed chrome inside the frame; body
	// rows fill whatever height remains.
	HeaderLines(inner int) []string
	BodyLines(inner int) []string
	FooterLine(inner int) string
	// ContentLen is the total (not just visible) content row count,
	// used for scrollbar geometry.
	ContentLen() int
}

// RenderPanel draws a framed panel into the given rectangle. A panic inside
// the provider is caught and rendered as an error panel so one broken table
// does not take down the whole screen.
func RenderPanel(c ContentProvider, r Rect, noColor bool) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = renderPanicPanel(c.Title(), rec, r, noColor)
		}
	}()

	st := c.State()
	inner := r.W - BorderCols
	if inner < 1 {
		inner = 1
	}

	header := c.HeaderLines(inner)
	footer := c.FooterLine(inner)
	footerCount := 0
	if footer != "" {
		footerCount = 1
	}

	bodyRows := r.H - BorderLines - len(header) - footerCount
	if bodyRows < 1 {
		bodyRows = 1
	}
	st.Rows = bodyRows
	st.Clamp(c.ContentLen())

	body := c.BodyLines(inner)
	if len(body) > bodyRows {
		body = body[:bodyRows]
	}
	for len(body) < bodyRows {
		body = append(body, "")
	}

	lines := make([]string, 0, len(header)+len(body)+footerCount)
	lines = append(lines, header...)
	lines = append(lines, body...)
	if footer != "" {
		lines = append(lines, footer)
	}
	for i := range lines {
		lines[i] = formatter.PadToWidth(formatter.ClampWidth(lines[i], inner), inner)
	}

	return renderFrame(frameSpec{
		title:      c.Title(),
		errText:    st.Err,
		filterText: filterIndicator(st),
		lines:      lines,
		width:      r.W,
		active:     st.Active,
		noColor:    noColor,
		scroll: scrollSpec{
			offset: st.Offset,
			rows:   bodyRows,
			total:  c.ContentLen(),
			skip:   len(header),
		},
	})
}

func filterIndicator(st *PanelState) string {
	val := st.Filter.Value()
	if val == "" && !st.FilterMode {
		return ""
	}
	if st.FilterMode {
		return "filter: " + val + "▌"
	}
	return "filter: " + val
}

type scrollSpec struct {
	offset int
	rows   int
	total  int
	skip   int // frame lines above the scrollable body
}

type frameSpec struct {
	title      string
	errText    string
	filterText string
	lines      []string
	width      int
	active     bool
	noColor    bool
	scroll     scrollSpec
}

// renderFrame wraps pre-padded content lines in a border. The top border
// carries the title (or the error banner), the bottom border carries the
// filter indicator, and the right border doubles as a scrollbar track.
func renderFrame(f frameSpec) string {
	th := CurrentTheme()
	border := borderForTheme(th)

	borderColor := th.BorderColor
	if f.active {
		borderColor = th.BorderFocus
	}
	paint := func(s string) string { return s }
	if !f.noColor {
		bs := lipgloss.NewStyle().Foreground(borderColor)
		paint = func(s string) string { return bs.Render(s) }
	}

	inner := f.width - BorderCols
	if inner < 1 {
		inner = 1
	}

	// Top border with embedded title. An error banner takes precedence
	// over the title so validation failures are impossible to miss.
	label := f.title
	labelStyle := lipgloss.NewStyle().Foreground(th.TitleColor).Bold(true)
	if f.errText != "" {
		label = f.errText
		labelStyle = lipgloss.NewStyle().Foreground(th.StatusError).Bold(true)
	}
	top := borderLabelLine(border.TopLeft, border.Top, border.TopRight, label, labelStyle, inner, paint, f.noColor)

	// Bottom border with the filter indicator.
	bottom := borderLabelLine(border.BottomLeft, border.Bottom, border.BottomRight, f.filterText,
		lipgloss.NewStyle().Foreground(th.FilterColor), inner, paint, f.noColor)

	thumbAt, thumbLen := scrollThumb(f.scroll)

	var b strings.Builder
	b.WriteString(top)
	for i, line := range f.lines {
		b.WriteString("\n")
		right := border.Right
		bodyLine := i - f.scroll.skip
		if thumbLen > 0 && bodyLine >= thumbAt && bodyLine < thumbAt+thumbLen {
			right = "█"
		}
		b.WriteString(paint(border.Left))
		b.WriteString(line)
		b.WriteString(paint(right))
	}
	b.WriteString("\n")
	b.WriteString(bottom)
	return b.String()
}

// borderLabelLine builds one horizontal border line with an optional
// centered label spliced into it.
func borderLabelLine(left, fill, right, label string, labelStyle lipgloss.Style, inner int, paint func(string) string, noColor bool) string {
	if label == "" {
		return paint(left) + paint(formatter.RepeatToWidth(fill, inner)) + paint(right)
	}
	text := " " + label + " "
	text = formatter.Truncate(text, inner)
	w := formatter.VisibleWidth(text)
	leftPad := (inner - w) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := inner - w - leftPad
	if rightPad < 0 {
		rightPad = 0
	}
	if !noColor {
		text = labelStyle.Render(text)
	}
	return paint(left) + paint(formatter.RepeatToWidth(fill, leftPad)) + text + paint(formatter.RepeatToWidth(fill, rightPad)) + paint(right)
}

// scrollThumb returns the thumb's first line and length within the body
// region, or a zero length when all content fits.
func scrollThumb(s scrollSpec) (at, length int) {
	if s.total <= s.rows || s.rows < 1 {
		return 0, 0
	}
	length = s.rows * s.rows / s.total
	if length < 1 {
		length = 1
	}
	at = s.offset * s.rows / s.total
	if at+length > s.rows {
		at = s.rows - length
	}
	if at < 0 {
		at = 0
	}
	return at, length
}

// renderPanicPanel replaces a panel whose provider panicked with an inline
// error display, keeping the rest of the screen alive.
func renderPanicPanel(title string, rec any, r Rect, noColor bool) string {
	inner := r.W - BorderCols
	if inner < 1 {
		inner = 1
	}
	bodyRows := r.H - BorderLines
	if bodyRows < 1 {
		bodyRows = 1
	}

	msg := fmt.Sprintf("render error: %v", rec)
	lines := []string{msg, ""}
	lines = append(lines, strings.Split(string(debug.Stack()), "\n")...)
	if len(lines) > bodyRows {
		lines = lines[:bodyRows]
	}
	for len(lines) < bodyRows {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = formatter.PadToWidth(formatter.Truncate(lines[i], inner), inner)
	}

	return renderFrame(frameSpec{
		title:   title,
		errText: "render failed",
		lines:   lines,
		width:   r.W,
		noColor: noColor,
	})
}
