package cli

import (
	"strings"
	"unicode/utf8"
)

const (
	boxTopLeft     = "╒"
	boxBottomLeft  = "└"
	boxTopRight    = "╕"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	dividerLeft    = "┠"
	dividerMiddle  = "─"
	dividerRight   = "┨"
	ellipsis       = "…"
)

// DefaultWidth is used when callers have no better idea of the terminal width.
const DefaultWidth = 60

// Banner draws s inside a box of the given width, one row per line of s.
// Lines that do not fit are truncated with an ellipsis.
func Banner(s string, width int) string {
	inner := width - 2
	if inner <= 0 || s == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	var sb strings.Builder

	sb.WriteString(boxTopLeft + strings.Repeat(boxTop, inner) + boxTopRight + "\n")

	for _, line := range lines {
		sb.WriteString(boxSide + pad(line, inner) + boxSide + "\n")
	}

	sb.WriteString(boxBottomLeft + strings.Repeat(boxBottom, inner) + boxBottomRight + "\n")

	return sb.String()
}

// Divider draws a horizontal rule of the given width.
func Divider(width int) string {
	if width < 2 { //nolint:mnd
		return ""
	}

	return dividerLeft + strings.Repeat(dividerMiddle, width-2) + dividerRight + "\n"
}

func pad(text string, width int) string {
	n := utf8.RuneCountInString(text)

	switch {
	case n == width:
		return text
	case n < width:
		return text + strings.Repeat(" ", width-n)
	default:
		return string([]rune(text)[:width-1]) + ellipsis
	}
}
