package vtreplay

import "github.com/unilibs/uniwidth"

// runeWidth returns the display column width of r: 2 for wide characters
// (CJK, emoji), 1 for normal, 0 for zero-width (combining marks, control
// chars). Used by LogicalLine to keep printableSize() exact.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if r occupies 2 columns (CJK ideographs, fullwidth
// forms, emoji).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display column width of s (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
