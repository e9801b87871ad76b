package agent

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

var (
	emailRE = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRE = regexp.MustCompile(`\+?\d[\d\s().\-]{4,}\d`)

	isoDateRE   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	clockHintRE = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm|a\.m\.|p\.m\.)`)
)

var dateWords = []string{
	"tomorrow",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var daypartWords = []string{"morning", "afternoon", "evening"}

// DeterministicExtractor pulls booking slots out of a single user message
// with regexes and phrase tables. It is the always-available strategy; the
// structured LLM extractor layers on top of it.
type DeterministicExtractor struct{}

// Extract scans text for slot candidates. Fields it cannot find stay empty;
// it never guesses.
func (DeterministicExtractor) Extract(text, localeTag string) booking.Extraction {
	table := tableFor(localeTag)
	lower := strings.ToLower(text)

	var ext booking.Extraction

	if email := emailRE.FindString(booking.ReplaceEmailArtifacts(text)); email != "" {
		ext.Email = email
	}
	if name := extractName(text, table); name != "" {
		ext.Name = name
	}
	if phone := extractPhone(text, table); phone != "" {
		ext.Phone = phone
	}
	ext.Service = booking.MatchService(text)
	ext.Date = extractDateToken(lower)
	ext.Time = extractTimeToken(lower)

	return ext
}

// ExtractSlots satisfies SlotExtractor for callers that want the
// deterministic strategy on its own.
func (d DeterministicExtractor) ExtractSlots(_ context.Context, text, localeTag string) booking.Extraction {
	return d.Extract(text, localeTag)
}

// weakPhrases introduce a name only sometimes ("I'm Jane" vs "I'm looking
// for SEO"). They require the following word to be capitalized.
var weakPhrases = map[string]bool{
	"i'm":     true,
	"i am":    true,
	"this is": true,
	"soy":     true,
	"sono":    true,
	"main":    true,
	"myself":  true,
}

// extractName finds the first self-introduction phrase and takes up to three
// following words as the name.
func extractName(text string, table localeTable) string {
	lower := strings.ToLower(text)
	for _, phrase := range table.namePhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(phrase):]
		if name := takeNameWords(rest, weakPhrases[phrase]); name != "" {
			return name
		}
	}
	return ""
}

// takeNameWords consumes up to three leading alphabetic words, stopping at
// the first token that is not name-like.
func takeNameWords(rest string, requireCapital bool) string {
	rest = strings.TrimLeft(rest, " \t,.:;")
	// Only the same line can hold the name.
	if i := strings.IndexAny(rest, "\n.!?,"); i >= 0 {
		rest = rest[:i]
	}

	var words []string
	for _, w := range strings.Fields(rest) {
		if len(words) == 3 || !isNameWord(w) {
			break
		}
		if len(words) == 0 && requireCapital && !startsUpper(w) {
			return ""
		}
		words = append(words, titleCase(w))
	}
	return strings.Join(words, " ")
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func isNameWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	// Common connectives after a name ("I'm Jane and I need...").
	switch strings.ToLower(w) {
	case "and", "but", "from", "the", "a", "an", "here",
		"looking", "interested", "calling", "trying", "just", "not", "so":
		return false
	}
	return true
}

func titleCase(w string) string {
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// extractPhone validates candidate digit runs against the locale's region
// patterns, so the same digits can be a phone number in one locale and noise
// in another.
func extractPhone(text string, table localeTable) string {
	// ISO dates would otherwise read as digit runs.
	text = isoDateRE.ReplaceAllString(text, "")
	for _, match := range phoneRE.FindAllString(text, -1) {
		normalized := normalizeDigits(match)
		for _, pattern := range table.phonePatterns {
			if pattern.MatchString(normalized) {
				return normalized
			}
		}
	}
	return ""
}

func normalizeDigits(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractDateToken returns the raw date phrase for later resolution: a
// weekday or "tomorrow" keyword, or an ISO date.
func extractDateToken(lower string) string {
	for _, w := range dateWords {
		if strings.Contains(lower, w) {
			return w
		}
	}
	return isoDateRE.FindString(lower)
}

// extractTimeToken returns the raw time phrase: a daypart keyword or a clock
// literal. The daypart wins when both appear, matching how the phrase is
// resolved downstream.
func extractTimeToken(lower string) string {
	for _, w := range daypartWords {
		if strings.Contains(lower, w) {
			return w
		}
	}
	return strings.TrimSpace(clockHintRE.FindString(lower))
}
