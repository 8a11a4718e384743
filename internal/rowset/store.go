// Package rowset holds the per-table entity state: the ingestion arena,
// the canonical and filtered view orders, and the selection set. All
// bookkeeping uses integer handles assigned at ingestion so filtering,
// sorting, and deletion never depend on value identity.
package rowset

import (
	"sort"
	"strings"

	"github.com/oakwood-commons/rowpick/internal/formatter"
)

// Handle identifies a row for the lifetime of a Store. Handles are arena
// indices assigned at ingestion and stay valid across filter and delete
// operations.
type Handle int

// Row is a single record supplied by the caller.
type Row = map[string]any

// SortSpec orders the initial view by one field. When several specs are
// given only the first is honored; the rest are accepted and ignored.
type SortSpec struct {
	Field      string
	Descending bool
}

// Store owns one table's rows. The arena never shrinks; deletion removes
// handles from the view orders only.
type Store struct {
	arena    []Row
	order    []Handle // canonical view order (post-sort, post-delete)
	visible  []Handle // filtered subset of order
	selected map[Handle]struct{}
	fields   []string
	matcher  *formatter.Matcher
	search   map[Handle]string // cached lower-cased match candidates
}

// New builds a Store from caller rows. When fields is empty the column list
// is auto-detected from the first row. The sort, if given, reorders the
// canonical view once at construction; it is never re-applied.
func New(rows []Row, fields []string, sortSpecs []SortSpec) *Store {
	s := &Store{
		arena:    make([]Row, len(rows)),
		order:    make([]Handle, len(rows)),
		selected: make(map[Handle]struct{}),
		search:   make(map[Handle]string, len(rows)),
	}
	copy(s.arena, rows)
	for i := range rows {
		s.order[i] = Handle(i)
	}

	if len(fields) > 0 {
		s.fields = append([]string(nil), fields...)
	} else {
		s.fields = DetectFields(rows)
	}

	if len(sortSpecs) > 0 {
		s.sortOrder(sortSpecs[0])
	}

	s.visible = append([]Handle(nil), s.order...)
	return s
}

// DetectFields derives a column list from the first row's own keys, excluding
// nested composite values. Keys are sorted for deterministic output since Go
// maps carry no insertion order.
func DetectFields(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	var fields []string
	for k, v := range rows[0] {
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// sortOrder applies the one-shot construction sort to the canonical order.
func (s *Store) sortOrder(spec SortSpec) {
	field := spec.Field
	sort.SliceStable(s.order, func(i, j int) bool {
		a := s.arena[s.order[i]][field]
		b := s.arena[s.order[j]][field]
		less := lessValue(a, b)
		if spec.Descending {
			return lessValue(b, a)
		}
		return less
	})
}

// lessValue compares two cell values: numerically when both are numbers,
// case-insensitively as strings otherwise.
func lessValue(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af < bf
	}
	return strings.ToLower(formatter.Stringify(a)) < strings.ToLower(formatter.Stringify(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Fields returns the column list.
func (s *Store) Fields() []string { return s.fields }

// Len returns the canonical (post-deletion) row count.
func (s *Store) Len() int { return len(s.order) }

// VisibleLen returns the filtered row count.
func (s *Store) VisibleLen() int { return len(s.visible) }

// Visible returns the filtered view order.
func (s *Store) Visible() []Handle { return s.visible }

// Row returns the record behind a handle.
func (s *Store) Row(h Handle) Row {
	if h < 0 || int(h) >= len(s.arena) {
		return nil
	}
	return s.arena[h]
}

// VisibleRow returns the record at a filtered-view index.
func (s *Store) VisibleRow(i int) (Row, bool) {
	if i < 0 || i >= len(s.visible) {
		return nil, false
	}
	return s.arena[s.visible[i]], true
}

// VisibleHandle returns the handle at a filtered-view index.
func (s *Store) VisibleHandle(i int) (Handle, bool) {
	if i < 0 || i >= len(s.visible) {
		return 0, false
	}
	return s.visible[i], true
}

// SetFilter recomputes the visible view from a filter query. An empty query
// restores the full canonical order.
func (s *Store) SetFilter(query string) {
	s.matcher = formatter.NewMatcher(query)
	s.rebuildVisible()
}

// Matcher returns the active filter matcher, or nil when no filter applies.
func (s *Store) Matcher() *formatter.Matcher { return s.matcher }

func (s *Store) rebuildVisible() {
	if s.matcher == nil {
		s.visible = append(s.visible[:0], s.order...)
		return
	}
	s.visible = s.visible[:0]
	for _, h := range s.order {
		if s.matcher.Match(s.SearchText(h)) {
			s.visible = append(s.visible, h)
		}
	}
}

// SearchText returns the lower-cased pipe-joined match candidate for a row:
// every string, number, bool, and object field value, JSON-stringified.
// Computed once per handle and cached.
func (s *Store) SearchText(h Handle) string {
	if cached, ok := s.search[h]; ok {
		return cached
	}
	row := s.Row(h)
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch row[k].(type) {
		case nil:
			continue
		case []any:
			continue
		}
		parts = append(parts, formatter.Stringify(row[k]))
	}
	candidate := strings.ToLower(strings.Join(parts, "|"))
	s.search[h] = candidate
	return candidate
}

// ToggleSelect flips the selection state of a handle.
func (s *Store) ToggleSelect(h Handle) {
	if _, ok := s.selected[h]; ok {
		delete(s.selected, h)
		return
	}
	s.selected[h] = struct{}{}
}

// IsSelected reports whether a handle is selected.
func (s *Store) IsSelected(h Handle) bool {
	_, ok := s.selected[h]
	return ok
}

// SelectedCount returns the number of selected rows.
func (s *Store) SelectedCount() int { return len(s.selected) }

// ToggleSelectAllVisible clears the selection when every visible row is
// already selected, otherwise adds all visible rows to it. Invoking it twice
// with no other state change restores the prior selection state.
func (s *Store) ToggleSelectAllVisible() {
	allSelected := len(s.visible) > 0
	for _, h := range s.visible {
		if !s.IsSelected(h) {
			allSelected = false
			break
		}
	}
	if allSelected {
		// Only the visible rows flip back; selections hidden by the
		// active filter stay selected.
		for _, h := range s.visible {
			delete(s.selected, h)
		}
		return
	}
	for _, h := range s.visible {
		s.selected[h] = struct{}{}
	}
}

// Delete removes rows: all selected rows when the selection is non-empty
// (clearing it), otherwise only the row at the given filtered-view index.
// Both view orders are pruned; the arena keeps the records so previously
// returned rows stay valid. Returns the number of rows removed.
func (s *Store) Delete(cursorIdx int) int {
	if len(s.selected) > 0 {
		removed := len(s.selected)
		doomed := s.selected
		s.selected = make(map[Handle]struct{})
		s.order = pruneHandles(s.order, doomed)
		s.visible = pruneHandles(s.visible, doomed)
		return removed
	}
	h, ok := s.VisibleHandle(cursorIdx)
	if !ok {
		return 0
	}
	doomed := map[Handle]struct{}{h: {}}
	s.order = pruneHandles(s.order, doomed)
	s.visible = pruneHandles(s.visible, doomed)
	return 1
}

func pruneHandles(view []Handle, doomed map[Handle]struct{}) []Handle {
	out := view[:0]
	for _, h := range view {
		if _, gone := doomed[h]; !gone {
			out = append(out, h)
		}
	}
	return out
}

// Selected returns the selected rows in original ingestion order.
func (s *Store) Selected() []Row {
	handles := make([]Handle, 0, len(s.selected))
	for h := range s.selected {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	rows := make([]Row, len(handles))
	for i, h := range handles {
		rows[i] = s.arena[h]
	}
	return rows
}
