// Package strutil is the default "strings" capability module: wrapping,
// padding and identifier casing helpers for command output and generators.
package strutil

import (
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
)

type Strings struct{}

func New() *Strings {
	return &Strings{}
}

// Wrap breaks text onto lines no wider than width.
func (s *Strings) Wrap(text string, width uint) string {
	return wordwrap.WrapString(text, width)
}

// PadRight pads text with spaces up to width.
func (s *Strings) PadRight(text string, width int) string {
	if len(text) >= width {
		return text
	}

	return text + strings.Repeat(" ", width-len(text))
}

// KebabCase converts "SomeName" or "some_name" to "some-name".
func (s *Strings) KebabCase(text string) string {
	return strings.ToLower(delimit(text, '-'))
}

// SnakeCase converts "SomeName" or "some-name" to "some_name".
func (s *Strings) SnakeCase(text string) string {
	return strings.ToLower(delimit(text, '_'))
}

// PascalCase converts "some-name" or "some_name" to "SomeName".
func (s *Strings) PascalCase(text string) string {
	var sb strings.Builder

	upper := true
	for _, r := range text {
		switch {
		case r == '-' || r == '_' || r == ' ':
			upper = true
		case upper:
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func delimit(text string, sep rune) string {
	var sb strings.Builder

	var prev rune
	for i, r := range text {
		switch {
		case r == '-' || r == '_' || r == ' ':
			sb.WriteRune(sep)
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(prev):
			sb.WriteRune(sep)
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
		prev = r
	}

	return sb.String()
}
