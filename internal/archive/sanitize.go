package archive

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength is the longest name, in runes, that Sanitize returns.
	MaxNameLength = 100

	// UnknownName replaces an empty input.
	UnknownName = "_unknown_"
	// EmptyName replaces a name that has nothing left after stripping.
	EmptyName = "_empty_"

	truncSuffix = "_trunc"
	// truncSearchLimit bounds the separator search so the suffix always fits.
	truncSearchLimit = MaxNameLength - 7
	reservedPrefix   = "_reserved_"
)

var (
	forbiddenChars = regexp.MustCompile(`[\\/*?:"<>|]+`)
	separatorRuns  = regexp.MustCompile(`[\s\p{Z}_]+`)

	// placeholders are returned verbatim when fed back in.
	placeholders = map[string]struct{}{
		UnknownName:        {},
		EmptyName:          {},
		reservedName("."):  {},
		reservedName(".."): {},
	}
)

func reservedName(token string) string {
	return reservedPrefix + token + "_"
}

// Sanitize maps an arbitrary string to a token that is safe to use as a file
// or directory name on common filesystems. It never fails and is idempotent.
func Sanitize(name string) string {
	if name == "" {
		return UnknownName
	}
	if _, ok := placeholders[name]; ok {
		return name
	}

	name = strings.ToValidUTF8(name, string(utf8.RuneError))
	name = forbiddenChars.ReplaceAllString(name, "_")
	name = separatorRuns.ReplaceAllString(name, "_")

	if core := strings.Trim(name, "_ "); core == "." || core == ".." {
		return reservedName(core)
	}

	name = strings.Trim(name, "_. ")
	if name == "" {
		return EmptyName
	}

	return truncateName(name)
}

// truncateName enforces MaxNameLength, preferring to cut at a separator.
func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxNameLength {
		return name
	}

	if cut := lastSeparator(runes[:truncSearchLimit]); cut > 0 {
		return string(runes[:cut]) + truncSuffix
	}

	keep := MaxNameLength - utf8.RuneCountInString(truncSuffix)
	head := strings.TrimRight(string(runes[:keep]), "_")
	return head + truncSuffix
}

func lastSeparator(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '_' {
			return i
		}
	}
	return -1
}
