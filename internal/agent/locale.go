package agent

import (
	"regexp"
	"strings"
)

// localeTable holds the language-dependent pieces of deterministic slot
// extraction. Tables are keyed by BCP 47 tag; lookup falls back from the
// full tag to the primary language subtag to English.
type localeTable struct {
	// namePhrases are the self-introduction phrases that precede a name.
	namePhrases []string
	// phonePatterns validate a normalized candidate (digits plus optional
	// leading "+") against the region's number shapes. First match wins.
	phonePatterns []*regexp.Regexp
}

// Phone number shapes per region, matched against normalized digit strings.
// Every table also accepts a full international number with a "+" prefix.
var (
	intlPhoneRE = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
	// NANP: optional country code 1, then ten digits not starting with 0/1.
	usPhoneRE = regexp.MustCompile(`^(?:\+?1)?[2-9]\d{9}$`)
	// Nigeria: 0 plus ten digits (mobile prefixes 070x-091x), or +234.
	ngPhoneRE = regexp.MustCompile(`^(?:\+?234\d{10}|0[789]\d{9})$`)
	// India: mobiles start 6-9, ten digits, optional country code 91.
	inPhoneRE = regexp.MustCompile(`^(?:\+?91)?[6-9]\d{9}$`)
	// Spain: nine digits starting 6-9.
	esPhoneRE = regexp.MustCompile(`^(?:\+?34)?[6-9]\d{8}$`)
	// France: 0 plus nine digits, or +33 without the trunk zero.
	frPhoneRE = regexp.MustCompile(`^(?:\+33|0)[1-9]\d{8}$`)
	// Germany: variable length behind a trunk zero or +49.
	dePhoneRE = regexp.MustCompile(`^(?:\+49|0)[1-9]\d{6,10}$`)
	// Portugal: nine digits starting 2 or 9.
	ptPhoneRE = regexp.MustCompile(`^(?:\+?351)?[29]\d{8}$`)
	// Italy: mobiles 3xx, landlines behind a trunk zero.
	itPhoneRE = regexp.MustCompile(`^(?:\+39)?(?:3\d{8,9}|0\d{7,10})$`)
)

var englishNamePhrases = []string{
	"my name is",
	"my name's",
	"i'm",
	"i am",
	"this is",
	"call me",
	"name is",
}

var localeTables = map[string]localeTable{
	"en": {
		namePhrases:   englishNamePhrases,
		phonePatterns: []*regexp.Regexp{usPhoneRE, intlPhoneRE},
	},
	"en-ng": {
		namePhrases:   append([]string{"na me be", "my name na"}, englishNamePhrases...),
		phonePatterns: []*regexp.Regexp{ngPhoneRE, intlPhoneRE},
	},
	"en-in": {
		namePhrases:   append([]string{"mera naam", "myself"}, englishNamePhrases...),
		phonePatterns: []*regexp.Regexp{inPhoneRE, intlPhoneRE},
	},
	"hi": {
		namePhrases:   []string{"mera naam", "main"},
		phonePatterns: []*regexp.Regexp{inPhoneRE, intlPhoneRE},
	},
	"es": {
		namePhrases:   []string{"me llamo", "mi nombre es", "soy"},
		phonePatterns: []*regexp.Regexp{esPhoneRE, intlPhoneRE},
	},
	"fr": {
		namePhrases:   []string{"je m'appelle", "mon nom est", "moi c'est"},
		phonePatterns: []*regexp.Regexp{frPhoneRE, intlPhoneRE},
	},
	"de": {
		namePhrases:   []string{"ich heiße", "ich heisse", "mein name ist"},
		phonePatterns: []*regexp.Regexp{dePhoneRE, intlPhoneRE},
	},
	"pt": {
		namePhrases:   []string{"meu nome é", "meu nome e", "me chamo"},
		phonePatterns: []*regexp.Regexp{ptPhoneRE, intlPhoneRE},
	},
	"it": {
		namePhrases:   []string{"mi chiamo", "il mio nome è", "sono"},
		phonePatterns: []*regexp.Regexp{itPhoneRE, intlPhoneRE},
	},
}

// tableFor resolves the extraction table for a locale tag. Unknown tags fall
// back to English rather than failing the turn.
func tableFor(tag string) localeTable {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if t, ok := localeTables[tag]; ok {
		return t
	}
	if i := strings.IndexByte(tag, '-'); i > 0 {
		if t, ok := localeTables[tag[:i]]; ok {
			return t
		}
	}
	return localeTables["en"]
}
