package lexer

// ASCII character lookup tables for fast classification.
var (
	isSpaceTab   [128]bool // space, tab (NOT newline - newlines are meaningful)
	isIdentStart [128]bool // letter or underscore (variable name lead byte)
	isIdentPart  [128]bool // letter, digit, underscore, or colon (for ::ns::var)
	isDigit      [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpaceTab[i] = ch == ' ' || ch == '\t'
		isDigit[i] = ch >= '0' && ch <= '9'
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		isIdentStart[i] = letter
		isIdentPart[i] = letter || isDigit[i] || ch == ':'
	}
}

// isWordTerminator reports whether b ends a bareword run at the outer
// (word-boundary) lexing level: whitespace, command separators, or any byte
// that introduces a different word variant.
func isWordTerminator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', ';', '{', '}', '"', '[', ']', '$', '\\':
		return true
	default:
		return false
	}
}
