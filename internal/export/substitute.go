package export

import "strings"

// Sub is one placeholder substitution.
type Sub struct {
	Token string
	Value string
}

// ReplaceFirst applies each substitution to the first occurrence of
// its token only, in the given order. This is the discipline used for
// user-configured metadata value templates.
func ReplaceFirst(template string, subs []Sub) string {
	for _, s := range subs {
		template = strings.Replace(template, s.Token, s.Value, 1)
	}
	return template
}

// ReplaceEach applies each substitution to every occurrence of its
// token. This is the discipline used for the document template.
func ReplaceEach(template string, subs []Sub) string {
	for _, s := range subs {
		template = strings.ReplaceAll(template, s.Token, s.Value)
	}
	return template
}
