package rolniknysa

import "strings"

// translitPairs maps Polish diacritics (plus the euro sign) to their
// nearest ASCII letter, applied in this order.
var translitPairs = [][2]string{
	{"ą", "a"},
	{"ż", "z"},
	{"ś", "s"},
	{"ź", "z"},
	{"ę", "e"},
	{"ć", "c"},
	{"ń", "c"},
	{"€", "u"},
	{"ó", "o"},
	{"ł", "l"},
}

// Slugify converts a human title to a URL-safe slug. A max of 0 or less
// means no length limit.
//
// Each transliteration pair replaces only the first occurrence of its
// character; a title with two 'ą' keeps the second one, which then becomes
// a hyphen. Published URLs depend on this exact output, so the
// substitution must stay first-occurrence-only.
//
// When the slug exceeds max it is cut back at hyphen boundaries, never
// mid-word. A slug with no hyphen below max is returned over-length.
func Slugify(title string, max int) string {
	src := strings.ToLower(title)

	for _, p := range translitPairs {
		src = strings.Replace(src, p[0], p[1], 1)
	}

	src = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		}
		return '-'
	}, src)

	if max > 0 {
		for len(src) > max {
			cut := strings.LastIndex(src, "-")
			if cut < 0 {
				break
			}
			src = src[:cut]
		}
	}

	return src
}
