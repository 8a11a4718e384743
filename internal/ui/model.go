package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/rowpick/internal/formatter"
)

// doubleClickWindow is how close two left clicks on the same cell must be
// to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// Model drives the whole picker screen: one panel per table, a shared
// preview popup, and keyboard plus mouse dispatch between them.
type Model struct {
	sections []*ListSection
	preview  *PreviewSection
	rects    []Rect

	width   int
	height  int
	focus   int
	noColor bool

	popupOpen bool
	quitting  bool
	canceled  bool
	result    [][]map[string]any

	lastClickAt time.Time
	lastClickX  int
	lastClickY  int

	log logr.Logger
}

// NewModel builds the picker over the given tables. The first table starts
// focused.
func NewModel(configs []TableConfig, noColor bool) *Model {
	m := &Model{
		preview: NewPreviewSection(noColor),
		noColor: noColor,
		log:     logr.Discard(),
	}
	for _, cfg := range configs {
		m.sections = append(m.sections, NewListSection(cfg, noColor))
	}
	if len(m.sections) > 0 {
		m.sections[0].State().SetActive(true)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Result returns the per-table selections after a confirmed run.
func (m *Model) Result() [][]map[string]any {
	return m.result
}

// Canceled reports whether the user aborted instead of confirming.
func (m *Model) Canceled() bool {
	return m.canceled
}

// SetLogger installs a logger for debug-level event tracing. The default
// discards everything.
func (m *Model) SetLogger(lgr logr.Logger) {
	m.log = lgr
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleClick(msg.Mouse())
	case tea.MouseWheelMsg:
		return m.handleWheel(msg.Mouse())
	}
	return m, nil
}

// relayout repacks the panels for the current viewport. Called on every
// resize so a squeezed terminal reflows instead of clipping.
func (m *Model) relayout() {
	widths := make([]int, len(m.sections))
	for i, s := range m.sections {
		w := s.NaturalWidth()
		if w > m.width {
			w = m.width
		}
		widths[i] = w
	}
	m.rects = Pack(m.width, m.height, widths)
	// Seed each panel's body height now so mouse hit testing works even
	// before the first render.
	for i, r := range m.rects {
		st := m.sections[i].State()
		st.Rows = r.H - BorderLines - HeaderLines - FooterLines
		if st.Rows < 1 {
			st.Rows = 1
		}
		st.Clamp(m.sections[i].ContentLen())
	}
}

func (m *Model) focused() *ListSection {
	if len(m.sections) == 0 {
		return nil
	}
	return m.sections[m.focus]
}

func (m *Model) setFocus(i int) {
	if i == m.focus || i < 0 || i >= len(m.sections) {
		return
	}
	m.sections[m.focus].State().SetActive(false)
	m.focus = i
	m.sections[m.focus].State().SetActive(true)
	m.log.V(1).Info("focus changed", "section", i, "title", m.sections[i].Title())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.popupOpen {
		return m.handlePopupKey(key, msg)
	}

	sec := m.focused()
	if sec == nil {
		if key == "ctrl+c" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
	st := sec.State()

	// A fresh keystroke retires any validation banner.
	st.Err = ""

	if st.FilterMode {
		if action, ok := FilterActionFor(key); ok {
			return m.dispatch(action)
		}
		return m, sec.HandleFilterKey(msg)
	}

	if action, ok := ActionFor(key); ok {
		return m.dispatch(action)
	}
	return m, nil
}

func (m *Model) handlePopupKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.preview.State()
	if st.FilterMode {
		if action, ok := FilterActionFor(key); ok {
			return m.dispatchPopup(action)
		}
		return m, m.preview.HandleFilterKey(msg)
	}
	if action, ok := ActionFor(key); ok {
		return m.dispatchPopup(action)
	}
	return m, nil
}

func (m *Model) dispatch(action Action) (tea.Model, tea.Cmd) {
	sec := m.focused()
	st := sec.State()
	total := sec.ContentLen()

	switch action {
	case ActionUp:
		st.Move(-1, total)
	case ActionDown:
		st.Move(1, total)
	case ActionPageUp:
		st.Page(-1, total)
	case ActionPageDown:
		st.Page(1, total)
	case ActionHome:
		st.Home(total)
	case ActionEnd:
		st.End(total)
	case ActionFocusNext:
		m.setFocus((m.focus + 1) % len(m.sections))
	case ActionFocusPrev:
		m.setFocus((m.focus - 1 + len(m.sections)) % len(m.sections))
	case ActionToggleSelect:
		sec.ToggleSelect()
	case ActionSelectAll:
		sec.ToggleSelectAll()
	case ActionDelete:
		sec.DeleteRows()
	case ActionFilterMode:
		sec.EnterFilterMode()
	case ActionBackspace:
		sec.BackspaceFilter()
	case ActionClearFilter:
		sec.ClearFilter()
	case ActionPreview:
		m.openPreview()
	case ActionClose, ActionConfirm:
		// Esc with no popup open confirms, same as ctrl+c.
		return m.confirm()
	case ActionCancel:
		m.canceled = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) dispatchPopup(action Action) (tea.Model, tea.Cmd) {
	st := m.preview.State()
	total := m.preview.ContentLen()

	switch action {
	case ActionUp:
		st.Move(-1, total)
	case ActionDown:
		st.Move(1, total)
	case ActionPageUp:
		st.Page(-1, total)
	case ActionPageDown:
		st.Page(1, total)
	case ActionHome:
		st.Home(total)
	case ActionEnd:
		st.End(total)
	case ActionFilterMode:
		m.preview.EnterFilterMode()
	case ActionBackspace:
		m.preview.BackspaceFilter()
	case ActionClearFilter:
		m.preview.ClearFilter()
	case ActionClose, ActionPreview:
		m.popupOpen = false
	case ActionConfirm:
		m.popupOpen = false
		return m.confirm()
	case ActionCancel:
		m.canceled = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) openPreview() {
	sec := m.focused()
	if sec == nil {
		return
	}
	row, ok := sec.CurrentRow()
	if !ok {
		return
	}
	m.preview.SetRow(sec.Title(), row, sec.Store().Fields())
	m.popupOpen = true
}

// confirm runs every table's validator in declaration order. The first
// failure puts its message in that table's border, moves focus there, and
// keeps the picker running. When all pass, the per-table selections become
// the result and the program quits.
func (m *Model) confirm() (tea.Model, tea.Cmd) {
	for _, s := range m.sections {
		s.State().Err = ""
	}
	for i, s := range m.sections {
		if err := s.RunValidator(); err != nil {
			m.log.V(1).Info("validation failed", "section", s.Title(), "reason", err.Error())
			s.State().Err = err.Error()
			m.setFocus(i)
			m.popupOpen = false
			return m, nil
		}
	}
	m.result = make([][]map[string]any, len(m.sections))
	for i, s := range m.sections {
		m.result[i] = s.Selected()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleClick(mo tea.Mouse) (tea.Model, tea.Cmd) {
	if m.popupOpen {
		if mo.Button == tea.MouseRight || !PopupRect(m.width, m.height).Contains(mo.X, mo.Y) {
			m.popupOpen = false
		}
		return m, nil
	}
	if mo.Button == tea.MouseRight {
		return m, nil
	}

	for i, r := range m.rects {
		if !r.Contains(mo.X, mo.Y) {
			continue
		}
		sec := m.sections[i]
		m.setFocus(i)
		st := sec.State()
		st.Err = ""

		// Map the click to a body row: skip the top border and header.
		bodyY := mo.Y - r.Y - 1 - len(sec.HeaderLines(r.W-BorderCols))
		if bodyY >= 0 && bodyY < st.Rows {
			if idx := st.Offset + bodyY; idx < sec.ContentLen() {
				st.Cursor = idx
				st.Clamp(sec.ContentLen())
			}
		}

		now := time.Now()
		if now.Sub(m.lastClickAt) < doubleClickWindow && mo.X == m.lastClickX && mo.Y == m.lastClickY {
			m.openPreview()
			m.lastClickAt = time.Time{}
		} else {
			m.lastClickAt = now
			m.lastClickX = mo.X
			m.lastClickY = mo.Y
		}
		break
	}
	return m, nil
}

// handleWheel scrolls the panel under the pointer, focused or not.
func (m *Model) handleWheel(mo tea.Mouse) (tea.Model, tea.Cmd) {
	delta := 0
	switch mo.Button {
	case tea.MouseWheelUp:
		delta = -1
	case tea.MouseWheelDown:
		delta = 1
	default:
		return m, nil
	}

	if m.popupOpen {
		m.preview.State().Move(delta, m.preview.ContentLen())
		return m, nil
	}
	for i, r := range m.rects {
		if r.Contains(mo.X, mo.Y) {
			m.sections[i].State().Move(delta, m.sections[i].ContentLen())
			break
		}
	}
	return m, nil
}

func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	base := m.renderBase()
	if m.popupOpen {
		base = m.overlayPopup(base)
	}

	v := tea.NewView(base)
	v.AltScreen = true
	// Clicks, releases and wheel events; motion tracking is not needed.
	v.MouseMode = tea.MouseModeCellMotion
	// Needed so modified keys like shift+tab arrive distinctly.
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// renderBase draws every panel and composes them row by row.
func (m *Model) renderBase() string {
	if len(m.sections) == 0 || m.width == 0 {
		return ""
	}

	var rows []string
	var rowPanels []string
	rowY := -1
	for i, r := range m.rects {
		panel := RenderPanel(m.sections[i], r, m.noColor)
		if r.Y != rowY && len(rowPanels) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowPanels...))
			rowPanels = rowPanels[:0]
		}
		rowY = r.Y
		rowPanels = append(rowPanels, panel)
	}
	if len(rowPanels) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowPanels...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// overlayPopup splices the preview panel over the base view line by line,
// keeping the base visible around the popup edges.
func (m *Model) overlayPopup(base string) string {
	r := PopupRect(m.width, m.height)
	popup := strings.Split(RenderPanel(m.preview, r, m.noColor), "\n")

	lines := strings.Split(base, "\n")
	for len(lines) < r.Y+r.H {
		lines = append(lines, "")
	}
	for j := 0; j < r.H && j < len(popup); j++ {
		y := r.Y + j
		baseLine := lines[y]
		left := formatter.PadToWidth(formatter.ClampWidth(baseLine, r.X), r.X)
		right := ""
		if rest := formatter.VisibleWidth(baseLine) - r.X - r.W; rest > 0 {
			right = formatter.LeftTruncateANSI(baseLine, rest)
		}
		lines[y] = left + "\x1b[0m" + popup[j] + "\x1b[0m" + right
	}
	return strings.Join(lines, "\n")
}
