package ui

import "testing"

func TestActionForBindings(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"up", ActionUp},
		{"k", ActionUp},
		{"down", ActionDown},
		{"j", ActionDown},
		{"pgup", ActionPageUp},
		{"pgdown", ActionPageDown},
		{"left", ActionHome},
		{"home", ActionHome},
		{"right", ActionEnd},
		{"end", ActionEnd},
		{"tab", ActionFocusNext},
		{"shift+tab", ActionFocusPrev},
		{"space", ActionToggleSelect},
		{"ctrl+a", ActionSelectAll},
		{"delete", ActionDelete},
		{"ctrl+f", ActionFilterMode},
		{"/", ActionFilterMode},
		{"backspace", ActionBackspace},
		{"ctrl+backspace", ActionClearFilter},
		{"enter", ActionPreview},
		{"esc", ActionClose},
		{"ctrl+c", ActionConfirm},
		{"ctrl+q", ActionCancel},
	}
	for _, tc := range tests {
		got, ok := ActionFor(tc.key)
		if !ok || got != tc.want {
			t.Errorf("ActionFor(%q) = (%v,%v), want (%v,true)", tc.key, got, ok, tc.want)
		}
	}
	if _, ok := ActionFor("f12"); ok {
		t.Error("unbound key should report no action")
	}
}

func TestFilterModeKeepsTypingKeysFree(t *testing.T) {
	// Keys that still act while the filter is being typed.
	for _, key := range []string{"up", "down", "pgup", "pgdown", "tab", "shift+tab", "enter", "esc", "ctrl+c", "ctrl+q", "ctrl+backspace", "ctrl+u"} {
		if _, ok := FilterActionFor(key); !ok {
			t.Errorf("%q should keep its action in filter mode", key)
		}
	}
	// Everything else routes to the filter buffer.
	for _, key := range []string{"a", " ", "space", "/", "ctrl+a", "delete", "backspace", "k", "j"} {
		if _, ok := FilterActionFor(key); ok {
			t.Errorf("%q should reach the filter buffer, not an action", key)
		}
	}
}
