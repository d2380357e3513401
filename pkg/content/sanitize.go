package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxSlugBytes is the longest slug SanitizeSlug returns.
const MaxSlugBytes = 255

var (
	illegalChars  = regexp.MustCompile(`[/?<>\\:*|"]`)
	controlChars  = regexp.MustCompile(`[\x00-\x1f\x{80}-\x{9f}]`)
	reservedNames = regexp.MustCompile(`^\.+$`)
	windowsNames  = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
	trailingDots  = regexp.MustCompile(`[. ]+$`)
)

// SanitizeSlug turns untrusted input into a string that is safe to use as
// a single file name: path separators, reserved characters and control
// characters are removed, names made only of dots and reserved device
// names become empty, trailing dots and spaces are trimmed, and the
// result is cut to MaxSlugBytes without splitting a UTF-8 sequence.
func SanitizeSlug(input string) string {
	s := strings.ToValidUTF8(input, "")
	s = illegalChars.ReplaceAllString(s, "")
	s = controlChars.ReplaceAllString(s, "")
	s = reservedNames.ReplaceAllString(s, "")
	s = windowsNames.ReplaceAllString(s, "")
	s = trailingDots.ReplaceAllString(s, "")
	return truncate(s, MaxSlugBytes)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
