// Package kashida finds and fills the points where Arabic text may be
// lengthened with the tatweel (U+0640).
//
// [Locate] returns insertion byte offsets, at most one per word, ordered from
// the typographically preferred to the least preferred. [Insert] places a
// given number of tatweels at those offsets, cycling through them when the
// count exceeds the number of locations.
//
// Preference follows the usual calligraphic order: after the seen and sad
// families, then before a final heh, teh marbuta or dal, then before an alef
// or lam, then before reh or waw, then before a final yeh or noon, then any
// other join. A lam followed by an alef forms a ligature and is never split.
package kashida

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
)

// Tatweel is ARABIC TATWEEL, the kashida character.
const Tatweel = 'ـ'

type candidate struct {
	offset int
	tier   int
}

type item struct {
	r   rune
	off int
}

// Locate returns the kashida insertion offsets of text for script. Only
// Arabic licenses kashida; other scripts yield no locations.
func Locate(text string, script language.Script) []int {
	if script != language.Arabic {
		return nil
	}

	var items []item
	for off, r := range text {
		items = append(items, item{r, off})
	}

	best := map[int]candidate{}
	word := 0
	for i := 0; i < len(items); i++ {
		a := items[i]
		ja := joiningOf(a.r)
		if ja == transparent {
			continue
		}
		if !unicode.IsLetter(a.r) && a.r != Tatweel {
			word++
			continue
		}

		j := nextLetter(items, i)
		if j < 0 {
			continue
		}
		b := items[j]
		if !joinsNext(a.r) || !joinsPrev(b.r) || a.r == Tatweel || b.r == Tatweel {
			continue
		}
		if a.r == 'ل' && isAlef(b.r) {
			continue
		}

		final := wordFinal(items, j)
		c := candidate{offset: b.off, tier: tier(a.r, b.r, final)}
		if prev, ok := best[word]; !ok || c.tier <= prev.tier {
			best[word] = c
		}
	}

	cands := make([]candidate, 0, len(best))
	for _, c := range best {
		cands = append(cands, c)
	}
	slices.SortFunc(cands, func(x, y candidate) int {
		return cmp.Or(cmp.Compare(x.tier, y.tier), cmp.Compare(x.offset, y.offset))
	})

	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.offset
	}
	return out
}

// Detect returns language.Arabic if text contains Arabic letters, else the
// first strong script found (or language.Unknown).
func Detect(text string) language.Script {
	first := language.Unknown
	for _, r := range text {
		s := language.LookupScript(r)
		if s == language.Arabic {
			return s
		}
		if first == language.Unknown && s.Strong() {
			first = s
		}
	}
	return first
}

// Insert places count tatweels into text at offsets, assigning them in the
// order given and cycling when count exceeds len(offsets). Offsets must be
// valid rune boundaries of text.
func Insert(text string, offsets []int, count int) string {
	if count <= 0 || len(offsets) == 0 {
		return text
	}

	per := make(map[int]int, len(offsets))
	for i := 0; i < count; i++ {
		per[offsets[i%len(offsets)]]++
	}
	sorted := slices.Sorted(maps.Keys(per))

	var b strings.Builder
	b.Grow(len(text) + count*utf8.RuneLen(Tatweel))
	prev := 0
	for _, off := range sorted {
		b.WriteString(text[prev:off])
		b.WriteString(strings.Repeat(string(Tatweel), per[off]))
		prev = off
	}
	b.WriteString(text[prev:])
	return b.String()
}

func nextLetter(items []item, i int) int {
	for j := i + 1; j < len(items); j++ {
		if joiningOf(items[j].r) != transparent {
			return j
		}
	}
	return -1
}

func wordFinal(items []item, j int) bool {
	k := nextLetter(items, j)
	return k < 0 || !unicode.IsLetter(items[k].r)
}

func tier(a, b rune, final bool) int {
	switch {
	case a == 'س' || a == 'ش' || a == 'ص' || a == 'ض':
		return 0
	case final && (b == 'ه' || b == 'ة' || b == 'د' || b == 'ذ'):
		return 1
	case isAlef(b) || b == 'ل':
		return 2
	case b == 'ر' || b == 'ز' || b == 'و' || b == 'ؤ':
		return 3
	case final && (b == 'ي' || b == 'ى' || b == 'ن' || b == 'ئ'):
		return 4
	}
	return 5
}
