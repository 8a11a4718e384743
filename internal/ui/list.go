package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/rowpick/internal/formatter"
	"github.com/oakwood-commons/rowpick/internal/rowset"
)

const (
	// checkboxWidth covers the selection glyph and its trailing space.
	checkboxWidth = 2
	// columnGap separates adjacent columns.
	columnGap = 2
	// maxAutoColWidth caps auto-sized columns so one long value cannot
	// starve the rest of the table.
	maxAutoColWidth = 40
)

// TableConfig describes one table shown by the picker.
type TableConfig struct {
	Title    string
	Rows     []map[string]any
	Fields   []string
	Widths   map[string]int
	Sort     []rowset.SortSpec
	Validate func(selected []map[string]any) error
}

type column struct {
	name  string
	width int
}

// ListSection is the data-bearing panel: a scrollable, filterable, selectable
// view over one table's rows.
type ListSection struct {
	title    string
	store    *rowset.Store
	cols     []column
	validate func([]map[string]any) error
	state    PanelState
	noColor  bool
}

// NewListSection builds a section from a table config. Sorting is applied
// once here; the view is never resorted afterwards.
func NewListSection(cfg TableConfig, noColor bool) *ListSection {
	s := &ListSection{
		title:    cfg.Title,
		store:    rowset.New(cfg.Rows, cfg.Fields, cfg.Sort),
		validate: cfg.Validate,
		state:    NewPanelState(ShiftCursor),
		noColor:  noColor,
	}
	s.cols = s.autoColumns(cfg.Widths)
	return s
}

// autoColumns sizes each column to its widest header or cell, capped, with
// explicit width overrides winning.
func (s *ListSection) autoColumns(overrides map[string]int) []column {
	fields := s.store.Fields()
	cols := make([]column, 0, len(fields))
	for _, f := range fields {
		w := len(f)
		for i := 0; i < s.store.Len(); i++ {
			row := s.store.Row(rowset.Handle(i))
			if row == nil {
				continue
			}
			if cw := formatter.VisibleWidth(formatter.Stringify(row[f])); cw > w {
				w = cw
			}
		}
		if w > maxAutoColWidth {
			w = maxAutoColWidth
		}
		if ov, ok := overrides[f]; ok && ov > 0 {
			w = ov
		}
		cols = append(cols, column{name: f, width: w})
	}
	return cols
}

// NaturalWidth is the panel width that fits every column.
func (s *ListSection) NaturalWidth() int {
	w := BorderCols + checkboxWidth
	for i, c := range s.cols {
		if i > 0 {
			w += columnGap
		}
		w += c.width
	}
	if w < MinPanelWidth {
		w = MinPanelWidth
	}
	return w
}

// fitColumns drops trailing columns until the table fits the inner width.
// A deterministic but lossy degrade for narrow terminals.
func (s *ListSection) fitColumns(inner int) []column {
	avail := inner - checkboxWidth
	cols := s.cols
	for len(cols) > 1 {
		total := 0
		for i, c := range cols {
			if i > 0 {
				total += columnGap
			}
			total += c.width
		}
		if total <= avail {
			break
		}
		cols = cols[:len(cols)-1]
	}
	return cols
}

func (s *ListSection) State() *PanelState { return &s.state }

func (s *ListSection) Title() string { return s.title }

func (s *ListSection) ContentLen() int { return s.store.VisibleLen() }

// Store exposes the underlying row set for result aggregation.
func (s *ListSection) Store() *rowset.Store { return s.store }

func (s *ListSection) HeaderLines(inner int) []string {
	cols := s.fitColumns(inner)
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", checkboxWidth))
	for i, c := range cols {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		b.WriteString(formatter.PadToWidth(formatter.Truncate(c.name, c.width), c.width))
	}
	header := formatter.Truncate(b.String(), inner)
	divider := formatter.RepeatToWidth("─", inner)
	if !s.noColor {
		th := CurrentTheme()
		header = lipgloss.NewStyle().Foreground(th.HeaderFG).Bold(true).Render(header)
		divider = lipgloss.NewStyle().Foreground(th.SeparatorColor).Render(divider)
	}
	return []string{header, divider}
}

func (s *ListSection) BodyLines(inner int) []string {
	cols := s.fitColumns(inner)
	th := CurrentTheme()
	matcher := s.store.Matcher()

	lines := make([]string, 0, s.state.Rows)
	for i := s.state.Offset; i < s.state.Offset+s.state.Rows && i < s.store.VisibleLen(); i++ {
		row, _ := s.store.VisibleRow(i)
		h, _ := s.store.VisibleHandle(i)
		selected := s.store.IsSelected(h)
		isCursor := i == s.state.Cursor

		cells := s.renderCells(row, cols)
		prefix := "  "
		if selected {
			prefix = "✓ "
		}

		if s.noColor {
			if isCursor && !selected {
				prefix = "› "
			}
			lines = append(lines, prefix+cells)
			continue
		}

		base := lipgloss.NewStyle()
		switch {
		case isCursor:
			base = base.Foreground(th.CursorFG).Background(th.CursorBG)
		case i%2 == 1:
			base = base.Background(th.ZebraBG)
		}
		match := lipgloss.NewStyle().Foreground(th.MatchFG).Background(th.MatchBG)

		if isCursor {
			// Cursor styling covers the whole row, checkbox included.
			// Pad before styling so the background runs to the edge.
			row := formatter.PadToWidth(prefix+cells, inner)
			lines = append(lines, matcher.Highlight(row, match, base))
			continue
		}
		glyph := base.Render(prefix)
		if selected {
			glyph = base.Foreground(th.CheckedColor).Render(prefix)
		}
		padded := formatter.PadToWidth(cells, inner-checkboxWidth)
		lines = append(lines, glyph+matcher.Highlight(padded, match, base))
	}
	return lines
}

func (s *ListSection) renderCells(row rowset.Row, cols []column) string {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", columnGap))
		}
		val := formatter.TruncateKeepTail(formatter.Stringify(row[c.name]), c.width)
		b.WriteString(formatter.PadToWidth(val, c.width))
	}
	return b.String()
}

func (s *ListSection) FooterLine(inner int) string {
	pos := 0
	if s.store.VisibleLen() > 0 {
		pos = s.state.Cursor + 1
	}
	text := fmt.Sprintf("%d/%d selected  %d/%d", s.store.SelectedCount(), s.store.Len(), pos, s.store.VisibleLen())
	text = formatter.Truncate(text, inner)
	if s.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme().FooterColor).Render(text)
}

// ToggleSelect flips selection of the row under the cursor.
func (s *ListSection) ToggleSelect() {
	if h, ok := s.store.VisibleHandle(s.state.Cursor); ok {
		s.store.ToggleSelect(h)
	}
}

// ToggleSelectAll selects every visible row, or clears the selection when
// all were already selected.
func (s *ListSection) ToggleSelectAll() {
	s.store.ToggleSelectAllVisible()
}

// DeleteRows removes the selected rows, or the row under the cursor when
// nothing is selected, then clamps the cursor back into range.
func (s *ListSection) DeleteRows() {
	s.store.Delete(s.state.Cursor)
	s.state.Clamp(s.store.VisibleLen())
}

// EnterFilterMode starts routing typed characters into the filter buffer.
func (s *ListSection) EnterFilterMode() {
	s.state.FilterMode = true
	s.state.Filter.Focus()
}

// HandleFilterKey feeds a keystroke into the filter buffer and reapplies the
// filter when the buffer changed.
func (s *ListSection) HandleFilterKey(msg tea.KeyMsg) tea.Cmd {
	prev := s.state.Filter.Value()
	var cmd tea.Cmd
	s.state.Filter, cmd = s.state.Filter.Update(msg)
	if s.state.Filter.Value() != prev {
		s.applyFilter()
	}
	return cmd
}

// BackspaceFilter drops the last rune of the filter buffer. Works outside
// filter mode too, so a stale filter can be peeled back without re-entering
// the typing mode.
func (s *ListSection) BackspaceFilter() {
	val := s.state.Filter.Value()
	if val == "" {
		return
	}
	runes := []rune(val)
	s.state.Filter.SetValue(string(runes[:len(runes)-1]))
	s.applyFilter()
}

// ClearFilter empties the buffer and restores the unfiltered view.
func (s *ListSection) ClearFilter() {
	s.state.ClearFilter()
	s.applyFilter()
}

func (s *ListSection) applyFilter() {
	s.store.SetFilter(s.state.Filter.Value())
	s.state.SyncFilter()
	s.state.Cursor = 0
	s.state.Offset = 0
}

// CurrentRow returns the row under the cursor.
func (s *ListSection) CurrentRow() (rowset.Row, bool) {
	return s.store.VisibleRow(s.state.Cursor)
}

// Selected returns the selected rows in original ingestion order.
func (s *ListSection) Selected() []map[string]any {
	return s.store.Selected()
}

// RunValidator checks the current selection against the table's validator.
func (s *ListSection) RunValidator() error {
	if s.validate == nil {
		return nil
	}
	return s.validate(s.Selected())
}
