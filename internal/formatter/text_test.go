package formatter

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxWidth int
		want     string
	}{
		{"fits", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"trimmed with ellipsis", "abcdef", 5, "abcd…"},
		{"width one", "abc", 1, "a"},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := TruncateMiddle("abcdefghij", 7)
	// head(3) + ellipsis + tail(3)
	if got != "abc…hij" {
		t.Errorf("TruncateMiddle = %q, want %q", got, "abc…hij")
	}
	if w := VisibleWidth(got); w != 7 {
		t.Errorf("width = %d, want 7", w)
	}
	if got := TruncateMiddle("short", 10); got != "short" {
		t.Errorf("short input modified: %q", got)
	}
}

func TestLeftTruncate(t *testing.T) {
	if got := LeftTruncate("abcdef", 3); got != "def" {
		t.Errorf("LeftTruncate = %q, want %q", got, "def")
	}
	if got := LeftTruncate("ab", 3); got != "ab" {
		t.Errorf("LeftTruncate short = %q", got)
	}
}

func TestLeftTruncateANSIPreservesEscapes(t *testing.T) {
	styled := "\x1b[31mabcdef\x1b[0m"
	got := LeftTruncateANSI(styled, 3)
	if VisibleWidth(got) != 3 {
		t.Errorf("visible width = %d, want 3", VisibleWidth(got))
	}
	if StripANSI(got) != "def" {
		t.Errorf("visible text = %q, want %q", StripANSI(got), "def")
	}
}

func TestPadToWidth(t *testing.T) {
	if got := PadToWidth("ab", 5); got != "ab   " {
		t.Errorf("PadToWidth = %q", got)
	}
	// ANSI codes must not count toward width.
	styled := "\x1b[31mab\x1b[0m"
	got := PadToWidth(styled, 5)
	if VisibleWidth(got) != 5 {
		t.Errorf("padded visible width = %d, want 5", VisibleWidth(got))
	}
}

func TestClampWidth(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxWidth int
		want     string
	}{
		{"plain clamp", "abcdef", 4, "abcd"},
		{"keeps short line", "ab", 4, "ab"},
		{"multiline resets width", "abcdef\nxyz", 3, "abc\nxyz"},
		{"zero width", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampWidth(tt.in, tt.maxWidth); got != tt.want {
				t.Errorf("ClampWidth(%q, %d) = %q, want %q", tt.in, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestClampWidthPreservesANSI(t *testing.T) {
	in := "\x1b[31mabcdef\x1b[0m"
	got := ClampWidth(in, 3)
	if !strings.Contains(got, "\x1b[31m") || !strings.Contains(got, "\x1b[0m") {
		t.Errorf("escape sequences dropped: %q", got)
	}
	if StripANSI(got) != "abc" {
		t.Errorf("visible = %q, want abc", StripANSI(got))
	}
}

func TestClampHeight(t *testing.T) {
	if got := ClampHeight("a\nb\nc", 2); got != "a\nb" {
		t.Errorf("ClampHeight = %q", got)
	}
	if got := ClampHeight("a\nb", 5); got != "a\nb" {
		t.Errorf("ClampHeight short = %q", got)
	}
	if got := ClampHeight("a", 0); got != "" {
		t.Errorf("ClampHeight zero = %q", got)
	}
}

func TestWrapPlain(t *testing.T) {
	got := WrapPlain("the quick brown fox", 9)
	want := "the quick\nbrown fox"
	if got != want {
		t.Errorf("WrapPlain = %q, want %q", got, want)
	}
	// Words longer than the width are hard-broken into width-sized chunks.
	got = WrapPlain("hi superlongword", 5)
	if got != "hi\nsuper\nlongw\nord" {
		t.Errorf("long word = %q", got)
	}
}

func TestWrapPlainHardBreaksUnbrokenTokens(t *testing.T) {
	hash := strings.Repeat("a1b2c3d4e5", 10) // 100 chars, no spaces
	got := WrapPlain(hash, 24)
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("line count = %d, want 5: %q", len(lines), got)
	}
	for i, line := range lines {
		if len(line) > 24 {
			t.Errorf("line %d width = %d, want <= 24", i, len(line))
		}
	}
	if joined := strings.Join(lines, ""); joined != hash {
		t.Errorf("content changed by wrapping: %q", joined)
	}
}

func TestRepeatToWidth(t *testing.T) {
	if got := RepeatToWidth("─", 4); got != "────" {
		t.Errorf("RepeatToWidth = %q", got)
	}
	if got := RepeatToWidth("x", 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
}
