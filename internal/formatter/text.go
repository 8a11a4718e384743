package formatter

import (
	"regexp"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// VisibleWidth calculates the display width of a string, ignoring ANSI escape
// sequences.
func VisibleWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// PadToWidth pads s to the target display width with spaces, accounting for
// ANSI escape sequences that don't contribute to visible width.
func PadToWidth(s string, targetWidth int) string {
	visible := VisibleWidth(s)
	if visible >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visible)
}

// RepeatToWidth repeats the fill string until reaching the requested display width.
func RepeatToWidth(fill string, width int) string {
	if width <= 0 {
		return ""
	}
	if strings.TrimSpace(fill) == "" {
		fill = " "
	}
	var b strings.Builder
	for runewidth.StringWidth(b.String()) < width {
		b.WriteString(fill)
	}
	result := b.String()
	if w := runewidth.StringWidth(result); w > width {
		result = runewidth.Truncate(result, width, "")
	}
	return result
}

// Truncate trims a plain string to maxWidth display columns, appending an
// ellipsis when content is dropped.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// TruncateMiddle trims a plain string to maxWidth display columns keeping the
// head and tail, with an ellipsis marking the removed middle. Useful for paths
// and identifiers where both ends carry information.
func TruncateMiddle(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	headWidth := (maxWidth - 1) / 2
	tailWidth := maxWidth - 1 - headWidth
	head := runewidth.Truncate(s, headWidth, "")
	tail := LeftTruncate(s, tailWidth)
	return head + "…" + tail
}

// TruncateKeepTail trims a plain string to maxWidth display columns with an
// ellipsis prefix, keeping the tail. Long cell values usually differ at the
// end (versions, timestamps, suffixes), so the tail is the useful part.
func TruncateKeepTail(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return LeftTruncate(s, maxWidth)
	}
	return "…" + LeftTruncate(s, maxWidth-1)
}

// LeftTruncate keeps the rightmost visible width of a plain (non-ANSI) string.
func LeftTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	total := 0
	out := []rune{}
	// Walk from the end to preserve the tail.
	for i := len(runes) - 1; i >= 0; i-- {
		w := runewidth.RuneWidth(runes[i])
		if total+w > maxWidth {
			break
		}
		out = append(out, runes[i])
		total += w
	}
	// Reverse to restore order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// LeftTruncateANSI keeps the rightmost visible width of a string while
// preserving ANSI sequences.
func LeftTruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}

	type token struct {
		text  string
		width int
	}

	tokens := make([]token, 0, len(s))
	inEscape := false
	var esc strings.Builder
	for _, r := range s {
		if inEscape {
			esc.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				tokens = append(tokens, token{text: esc.String(), width: 0})
				esc.Reset()
				inEscape = false
			}
			continue
		}
		if r == 0x1b { // ESC
			inEscape = true
			esc.WriteRune(r)
			continue
		}
		tokens = append(tokens, token{text: string(r), width: runewidth.RuneWidth(r)})
	}
	if inEscape && esc.Len() > 0 {
		tokens = append(tokens, token{text: esc.String(), width: 0})
	}

	visible := 0
	var pendingZeros []token
	var out []token
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		if t.width == 0 {
			pendingZeros = append(pendingZeros, t)
			continue
		}
		if visible+t.width > maxWidth {
			continue
		}
		if len(pendingZeros) > 0 {
			out = append(out, pendingZeros...)
			pendingZeros = nil
		}
		out = append(out, t)
		visible += t.width
	}
	if visible > 0 && len(pendingZeros) > 0 {
		out = append(out, pendingZeros...)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	var b strings.Builder
	for _, t := range out {
		b.WriteString(t.text)
	}
	return b.String()
}

// ClampWidth trims each line to the provided max display width while
// preserving ANSI escape sequences.
func ClampWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	var out strings.Builder
	width := 0

	// State machine for ANSI escape sequences.
	// Handles both CSI (ESC [ ... letter) and OSC (ESC ] ... ST/BEL).
	const (
		stNormal = iota
		stEsc    // just saw ESC, next char determines sequence type
		stCSI    // inside CSI sequence, waiting for terminating letter
		stOSC    // inside OSC sequence, waiting for ST (ESC \) or BEL
		stOSCEsc // inside OSC, just saw ESC (looking for \ to end)
	)
	state := stNormal

	for _, r := range s {
		if r == '\n' {
			out.WriteRune(r)
			width = 0
			state = stNormal
			continue
		}

		switch state {
		case stNormal:
			if r == 0x1b { // ESC
				state = stEsc
				out.WriteRune(r)
				continue
			}
			w := runewidth.RuneWidth(r)
			if width+w > maxWidth {
				continue
			}
			out.WriteRune(r)
			width += w

		case stEsc:
			out.WriteRune(r)
			switch r {
			case '[':
				state = stCSI
			case ']':
				state = stOSC
			default:
				// Single-char escape (e.g. ESC c), done.
				state = stNormal
			}

		case stCSI:
			out.WriteRune(r)
			// CSI sequences end with a letter.
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				state = stNormal
			}

		case stOSC:
			out.WriteRune(r)
			switch r {
			case 0x1b:
				state = stOSCEsc
			case 0x07: // BEL terminates OSC
				state = stNormal
			}

		case stOSCEsc:
			out.WriteRune(r)
			// ESC \ (ST) terminates OSC; anything else stays in OSC.
			if r == '\\' {
				state = stNormal
			} else {
				state = stOSC
			}
		}
	}

	return out.String()
}

// ClampHeight trims text to the provided max line count. ANSI escape sequences
// are preserved because lines are clipped, not rewritten.
func ClampHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}

	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

// WrapPlain wraps plain text (no ANSI) to the given width, preserving newlines.
func WrapPlain(s string, width int) string {
	if width <= 0 {
		return s
	}

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			out = append(out, "")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		current := ""
		for _, w := range words {
			if current != "" && len(current)+1+len(w) <= width {
				current += " " + w
				continue
			}
			if current != "" {
				out = append(out, current)
			}
			current = w
			// Hard-break tokens that cannot fit on a line of their own
			// (hashes, URLs, base64 blobs).
			for r := []rune(current); len(r) > width; r = r[width:] {
				out = append(out, string(r[:width]))
				current = string(r[width:])
			}
		}
		out = append(out, current)
	}

	return strings.Join(out, "\n")
}
