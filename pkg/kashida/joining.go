package kashida

import (
	"unicode"

	"github.com/go-text/typesetting/language"
)

// joining is the cursive joining behaviour of a character.
type joining uint8

const (
	nonJoining joining = iota
	rightJoining
	dualJoining
	transparent
)

// rightJoiners connect only to the preceding letter.
var rightJoiners = map[rune]bool{
	'آ': true, 'أ': true, 'ؤ': true, 'إ': true, 'ا': true, 'ة': true,
	'د': true, 'ذ': true, 'ر': true, 'ز': true, 'و': true, 'ٱ': true,
	'ٲ': true, 'ٳ': true, 'ٵ': true, 'ٶ': true, 'ٷ': true, 'ڈ': true,
	'ډ': true, 'ڊ': true, 'ڋ': true, 'ڌ': true, 'ڍ': true, 'ڎ': true,
	'ڏ': true, 'ڐ': true, 'ڑ': true, 'ڒ': true, 'ړ': true, 'ڔ': true,
	'ڕ': true, 'ږ': true, 'ڗ': true, 'ژ': true, 'ڙ': true, 'ۀ': true,
	'ۄ': true, 'ۅ': true, 'ۆ': true, 'ۇ': true, 'ۈ': true, 'ۉ': true,
	'ۊ': true, 'ۋ': true, 'ۍ': true, 'ۏ': true, 'ے': true, 'ۓ': true,
	'ە': true, 'ۮ': true, 'ۯ': true,
}

// nonJoiners are Arabic letters that never connect.
var nonJoiners = map[rune]bool{
	'ء': true,
}

func joiningOf(r rune) joining {
	switch {
	case unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r):
		return transparent
	case r == Tatweel:
		return dualJoining
	case rightJoiners[r]:
		return rightJoining
	case nonJoiners[r]:
		return nonJoining
	case unicode.IsLetter(r) && language.LookupScript(r) == language.Arabic:
		return dualJoining
	}
	return nonJoining
}

// joinsNext reports whether r connects to the following letter.
func joinsNext(r rune) bool { return joiningOf(r) == dualJoining }

// joinsPrev reports whether r connects to the preceding letter.
func joinsPrev(r rune) bool {
	j := joiningOf(r)
	return j == dualJoining || j == rightJoining
}

func isAlef(r rune) bool {
	switch r {
	case 'ا', 'أ', 'إ', 'آ', 'ٱ', 'ٲ', 'ٳ', 'ٵ':
		return true
	}
	return false
}
