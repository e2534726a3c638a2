// Package textnorm folds the decorated Unicode alphabets spammers use to
// slip brand names past keyword filters ("ᴍᴀɴᴅᴀʟɪᴋᴀ77", "🅺🆈🆃4🅳")
// down to plain lowercase ASCII.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// lookalikes maps characters with no compatibility decomposition onto
// their ASCII stand-ins. Mathematical alphanumerics, fullwidth forms and
// circled letters are handled by NFKD and need no entry here.
var lookalikes = map[rune]rune{
	// small capitals ("ᴍᴀɴᴅᴀʟɪᴋᴀ77")
	'ᴀ': 'a', 'ʙ': 'b', 'ᴄ': 'c', 'ᴅ': 'd', 'ᴇ': 'e', 'ꜰ': 'f',
	'ɢ': 'g', 'ʜ': 'h', 'ɪ': 'i', 'ᴊ': 'j', 'ᴋ': 'k', 'ʟ': 'l',
	'ᴍ': 'm', 'ɴ': 'n', 'ᴏ': 'o', 'ᴘ': 'p', 'ʀ': 'r', 'ꜱ': 's',
	'ᴛ': 't', 'ᴜ': 'u', 'ᴠ': 'v', 'ᴡ': 'w', 'ʏ': 'y', 'ᴢ': 'z',
	// Armenian
	'է': 't', 'օ': 'o', 'ո': 'n',
	// Cyrillic
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c', 'х': 'x',
}

// foldRune maps a single decorated rune to its ASCII base, or returns it
// unchanged.
func foldRune(r rune) rune {
	switch {
	case r >= '🅐' && r <= '🅩': // negative circled A-Z
		return 'a' + (r - '🅐')
	case r >= '🅰' && r <= '🆉': // negative squared A-Z
		return 'a' + (r - '🅰')
	case r >= '🄋' && r <= '🄌':
		return '0'
	}
	if base, ok := lookalikes[r]; ok {
		return base
	}
	return r
}

// Fold normalizes text for cache-key derivation and keyword matching:
// decorated alphabets are mapped to ASCII, compatibility forms are
// decomposed, combining diacritics dropped, and everything that is not
// an ASCII letter, digit or whitespace removed. Output is lowercase.
func Fold(text string) string {
	mapped := strings.Map(foldRune, text)
	decomposed := norm.NFKD.String(mapped)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining diacritics
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// CollapseSpace squeezes runs of whitespace in folded text down to a
// single space and trims the ends.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// StripSpace removes all whitespace from folded text. Used for substring
// matching against learned keywords, where spammers space brand letters out.
func StripSpace(text string) string {
	return strings.Join(strings.Fields(text), "")
}
