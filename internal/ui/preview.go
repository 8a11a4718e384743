package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/rowpick/internal/formatter"
	"github.com/oakwood-commons/rowpick/internal/rowset"
	"github.com/oakwood-commons/rowpick/pkg/loader"
)

// maxKeyColWidth caps the key column so long field names do not squeeze the
// value column out of the popup.
const maxKeyColWidth = 30

type previewLine struct {
	key   string // empty on wrapped continuation lines
	value string
}

// PreviewSection renders one row as a key/value listing inside the popup.
// Lines are laid out lazily for the current inner width and re-laid out on
// resize.
type PreviewSection struct {
	title   string
	fields  []string
	row     rowset.Row
	state   PanelState
	noColor bool

	layoutWidth int
	lines       []previewLine
	visible     []int
}

func NewPreviewSection(noColor bool) *PreviewSection {
	return &PreviewSection{
		state:   NewPanelState(ShiftPage),
		noColor: noColor,
	}
}

// SetRow loads a row into the popup and resets scroll and filter state.
func (p *PreviewSection) SetRow(title string, row rowset.Row, fields []string) {
	p.title = title
	p.row = row
	p.fields = fields
	p.layoutWidth = 0
	p.state = NewPanelState(ShiftPage)
}

// orderedKeys lists the table's fields first, then any extra keys the row
// carries, sorted.
func (p *PreviewSection) orderedKeys() []string {
	keys := make([]string, 0, len(p.row))
	seen := make(map[string]bool, len(p.row))
	for _, f := range p.fields {
		if _, ok := p.row[f]; ok {
			keys = append(keys, f)
			seen[f] = true
		}
	}
	extras := make([]string, 0)
	for k := range p.row {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

// previewValue expands a cell for the popup. Serialized strings are decoded
// so a JSON blob stored in a cell reads as structure, not as one long line.
func previewValue(v any) string {
	if s, ok := v.(string); ok {
		if decoded, ok := loader.TryDecode(s); ok {
			v = decoded
		}
	}
	switch v.(type) {
	case map[string]any, []any:
		pretty, err := json.MarshalIndent(loader.RecursiveDecode(v), "", "  ")
		if err == nil {
			return string(pretty)
		}
	}
	return formatter.StringifyPreserveNewlines(v)
}

func (p *PreviewSection) rebuild(inner int) {
	if inner == p.layoutWidth {
		return
	}
	p.layoutWidth = inner

	keys := p.orderedKeys()
	keyW := 0
	for _, k := range keys {
		if w := formatter.VisibleWidth(k); w > keyW {
			keyW = w
		}
	}
	if keyW > maxKeyColWidth {
		keyW = maxKeyColWidth
	}
	valueW := inner - keyW - columnGap
	if valueW < 1 {
		valueW = 1
	}

	p.lines = p.lines[:0]
	for _, k := range keys {
		label := formatter.PadToWidth(formatter.Truncate(k, keyW), keyW)
		rendered := previewValue(p.row[k])
		first := true
		for _, raw := range strings.Split(rendered, "\n") {
			wrapped := formatter.WrapPlain(raw, valueW)
			for _, line := range strings.Split(wrapped, "\n") {
				if first {
					p.lines = append(p.lines, previewLine{key: label, value: line})
					first = false
					continue
				}
				p.lines = append(p.lines, previewLine{value: line})
			}
		}
	}
	p.applyFilter()
}

// applyFilter keeps the lines whose text matches the filter. Continuation
// lines are matched on their own so a hit inside a wrapped value survives.
func (p *PreviewSection) applyFilter() {
	matcher := p.state.Matcher()
	p.visible = p.visible[:0]
	for i, ln := range p.lines {
		if matcher.Match(ln.key + " " + ln.value) {
			p.visible = append(p.visible, i)
		}
	}
	p.state.Cursor = 0
	p.state.Offset = 0
}

func (p *PreviewSection) State() *PanelState { return &p.state }

func (p *PreviewSection) Title() string { return p.title }

func (p *PreviewSection) ContentLen() int { return len(p.visible) }

func (p *PreviewSection) HeaderLines(inner int) []string {
	p.rebuild(inner)
	return nil
}

func (p *PreviewSection) BodyLines(inner int) []string {
	p.rebuild(inner)
	th := CurrentTheme()
	matcher := p.state.Matcher()

	keyStyle := lipgloss.NewStyle().Foreground(th.KeyColor)
	base := lipgloss.NewStyle().Foreground(th.ValueColor)
	match := lipgloss.NewStyle().Foreground(th.MatchFG).Background(th.MatchBG)

	out := make([]string, 0, p.state.Rows)
	gap := strings.Repeat(" ", columnGap)
	for i := p.state.Offset; i < p.state.Offset+p.state.Rows && i < len(p.visible); i++ {
		ln := p.lines[p.visible[i]]
		label := ln.key
		if label == "" {
			// Continuation lines align under the value column.
			label = strings.Repeat(" ", p.keyWidth())
		}
		if p.noColor {
			out = append(out, label+gap+ln.value)
			continue
		}
		out = append(out, keyStyle.Render(label)+gap+matcher.Highlight(ln.value, match, base))
	}
	return out
}

func (p *PreviewSection) keyWidth() int {
	for _, ln := range p.lines {
		if ln.key != "" {
			return formatter.VisibleWidth(ln.key)
		}
	}
	return 0
}

func (p *PreviewSection) FooterLine(inner int) string {
	top := 0
	if len(p.visible) > 0 {
		top = p.state.Offset + 1
	}
	text := fmt.Sprintf("%d/%d", top, len(p.visible))
	text = formatter.Truncate(text, inner)
	if p.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme().FooterColor).Render(text)
}

// EnterFilterMode starts routing typed characters into the popup filter.
func (p *PreviewSection) EnterFilterMode() {
	p.state.FilterMode = true
	p.state.Filter.Focus()
}

// HandleFilterKey feeds a keystroke into the popup filter buffer.
func (p *PreviewSection) HandleFilterKey(msg tea.KeyMsg) tea.Cmd {
	prev := p.state.Filter.Value()
	var cmd tea.Cmd
	p.state.Filter, cmd = p.state.Filter.Update(msg)
	if p.state.Filter.Value() != prev {
		p.state.SyncFilter()
		p.applyFilter()
	}
	return cmd
}

// BackspaceFilter drops the last rune of the popup filter buffer.
func (p *PreviewSection) BackspaceFilter() {
	val := p.state.Filter.Value()
	if val == "" {
		return
	}
	runes := []rune(val)
	p.state.Filter.SetValue(string(runes[:len(runes)-1]))
	p.state.SyncFilter()
	p.applyFilter()
}

// ClearFilter empties the popup filter buffer.
func (p *PreviewSection) ClearFilter() {
	p.state.ClearFilter()
	p.applyFilter()
}
