package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps text at display width, honoring wide (CJK) runes.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 76
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(line, width)...)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) []string {
	if len(line) == 0 {
		return []string{""}
	}
	runes := []rune(line)
	lineWidth := 0
	for _, r := range runes {
		lineWidth += runeWidth(r)
	}
	if lineWidth <= width {
		return []string{line}
	}

	var lines []string
	var current []rune
	currentWidth := 0

	for _, r := range runes {
		rw := runeWidth(r)
		if currentWidth+rw > width && len(current) > 0 {
			lines = append(lines, string(current))
			current = nil
			currentWidth = 0
		}
		current = append(current, r)
		currentWidth += rw
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}

func runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// truncate cuts a string to a display width, appending an ellipsis when
// anything was dropped.
func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
