// Package ident turns free-form text into identifiers.
package ident

import (
	"strings"

	"github.com/iancoleman/strcase"
)

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// ToID lowercases the ASCII letters and digits of value and joins its words
// with underscores. Any run of other characters separates words. Words of a
// single character are glued to their single-character neighbours, so
// "a b hello" becomes "ab_hello".
//
// A positive maxLength caps the normalized text, separators included, before
// words are joined.
func ToID(value string, maxLength int) string {
	var (
		norm      []byte
		lastSpace = true
	)
	for i := 0; i < len(value); i++ {
		if maxLength > 0 && len(norm) >= maxLength {
			break
		}
		c := value[i]
		switch {
		case isAlnum(c):
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			norm = append(norm, c)
			lastSpace = false
		case !lastSpace:
			norm = append(norm, ' ')
			lastSpace = true
		}
	}

	var (
		id     strings.Builder
		single strings.Builder
	)
	words := strings.Split(string(norm), " ")
	for i, w := range words {
		if len(w) <= 1 {
			single.WriteString(w)
			continue
		}
		if single.Len() > 0 {
			id.WriteString(single.String())
			id.WriteByte('_')
			single.Reset()
		}
		id.WriteString(w)
		if i < len(words)-1 {
			id.WriteByte('_')
		}
	}
	id.WriteString(single.String())

	return strings.TrimSuffix(id.String(), "_")
}

func ToSnake(s string) string {
	return strcase.ToSnake(s)
}

func ToCamel(s string) string {
	return strcase.ToCamel(s)
}

func ToKebab(s string) string {
	return strcase.ToKebab(s)
}
