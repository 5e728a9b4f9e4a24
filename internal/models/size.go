// internal/models/size.go
package models

import (
	"regexp"
	"strings"
)

// sizePattern captures an integer immediately followed by b, bil or billion.
// The integer must not continue a longer number or a decimal ("13b" is never
// read as "3b", and "6.7b" is not read as "7b").
var sizePattern = regexp.MustCompile(`(?:^|[^0-9.])([0-9]+)b(?:il(?:lion)?)?(?:[^a-z]|$)`)

var knownSizeSet = func() map[string]string {
	m := make(map[string]string, len(KnownSizes))
	for _, s := range KnownSizes {
		m[strings.TrimSuffix(s, "B")] = s
	}
	return m
}()

// NormalizeParameterSize maps free-form size text such as "13 B", "13bil" or
// "13billion" onto one of the known size tokens, or Unknown.
func NormalizeParameterSize(raw string) string {
	compact := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if compact == "" {
		return SizeUnknown
	}
	return matchSize(compact)
}

// SizeFromName guesses a size token from a model name such as "llama2:13b".
func SizeFromName(name string) string {
	return matchSize(strings.ToLower(name))
}

func matchSize(s string) string {
	for _, m := range sizePattern.FindAllStringSubmatch(s, -1) {
		digits := strings.TrimLeft(m[1], "0")
		if tok, ok := knownSizeSet[digits]; ok {
			return tok
		}
	}
	return SizeUnknown
}
