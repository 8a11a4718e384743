package ui

// Action is a dispatchable picker operation. Key and mouse events resolve to
// actions before the model routes them, so tests can drive the model without
// synthesizing terminal input.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionFocusNext
	ActionFocusPrev
	ActionToggleSelect
	ActionSelectAll
	ActionDelete
	ActionFilterMode
	ActionClearFilter
	ActionBackspace
	ActionPreview
	ActionClose
	ActionConfirm
	ActionCancel
)

// keyBindings maps Bubble Tea key strings to actions. Left/right jump to the
// start/end of the filtered set rather than moving columns; the picker has no
// horizontal cursor.
var keyBindings = map[string]Action{
	"up":     ActionUp,
	"k":      ActionUp,
	"down":   ActionDown,
	"j":      ActionDown,
	"pgup":   ActionPageUp,
	"pgdown": ActionPageDown,
	"left":   ActionHome,
	"home":   ActionHome,
	"right":  ActionEnd,
	"end":    ActionEnd,

	"tab":       ActionFocusNext,
	"shift+tab": ActionFocusPrev,

	"space":  ActionToggleSelect,
	"ctrl+a": ActionSelectAll,
	"delete": ActionDelete,
	"ctrl+d": ActionDelete,

	"ctrl+f":         ActionFilterMode,
	"/":              ActionFilterMode,
	"backspace":      ActionBackspace,
	"ctrl+backspace": ActionClearFilter,
	"ctrl+u":         ActionClearFilter,

	"enter":  ActionPreview,
	"esc":    ActionClose,
	"ctrl+c": ActionConfirm,
	"ctrl+q": ActionCancel,
}

// filterModeBindings are the keys that keep their meaning while typing into
// the filter buffer. Everything else is text input.
var filterModeBindings = map[string]Action{
	"up":             ActionUp,
	"down":           ActionDown,
	"pgup":           ActionPageUp,
	"pgdown":         ActionPageDown,
	"tab":            ActionFocusNext,
	"shift+tab":      ActionFocusPrev,
	"enter":          ActionPreview,
	"esc":            ActionClose,
	"ctrl+c":         ActionConfirm,
	"ctrl+q":         ActionCancel,
	"ctrl+backspace": ActionClearFilter,
	"ctrl+u":         ActionClearFilter,
}

// ActionFor resolves a key string to an action in normal mode.
func ActionFor(key string) (Action, bool) {
	a, ok := keyBindings[key]
	return a, ok
}

// FilterActionFor resolves a key string to an action while filter mode is
// active. The false return means the key should edit the filter buffer.
func FilterActionFor(key string) (Action, bool) {
	a, ok := filterModeBindings[key]
	return a, ok
}
