package engine

import (
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites console source into something zygomys reads:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols that could clash with user variables.
//   - ray-hit becomes ray_hit. zygomys reads a hyphen as subtraction, so a
//     hyphen between identifier characters is replaced.
//   - ; and ;; line comments become // comments.
//
// String literals (double-quoted or backtick) pass through unchanged.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	b := source
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			j := stringEnd(b, i)
			out.WriteString(b[i:j])
			i = j

		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := strings.IndexByte(b[i:], '\n')
			if j < 0 {
				j = len(b) - i
			}
			out.WriteString("//")
			out.WriteString(b[i : i+j])
			i += j

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(b[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// stringEnd returns the index just past the string literal opening at i.
// Double-quoted strings honour backslash escapes. An unterminated literal
// runs to the end of the source.
func stringEnd(b string, i int) int {
	quote := b[i]
	for j := i + 1; j < len(b); j++ {
		switch {
		case quote == '"' && b[j] == '\\':
			j++
		case b[j] == quote:
			return j + 1
		}
	}
	return len(b)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value maps to nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// arg returns keyword name if present, else positional argument i.
func (a kwArgs) arg(name string, i int) (zygo.Sexp, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if i >= 0 && i < len(a.positional) {
		return a.positional[i], true
	}
	return nil, false
}
