package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

func TestDeterministicExtractEmail(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"my email is jane@example.com", "jane@example.com"},
		{"reach me at jane (at) example (dot) com thanks", "jane@example.com"},
		{"it's JANE@EXAMPLE.COM", "jane@example.com"},
		{"no address here", ""},
	}

	var ext DeterministicExtractor
	for _, tt := range tests {
		got := ext.Extract(tt.text, "en")
		assert.Equal(t, tt.want, got.Email, "text %q", tt.text)
	}
}

func TestDeterministicExtractName(t *testing.T) {
	tests := []struct {
		text   string
		locale string
		want   string
	}{
		{"Hi, my name is jane doe", "en", "Jane Doe"},
		{"I'm Jane and I need a website", "en", "Jane"},
		{"I'm looking for SEO help", "en", ""},
		{"call me Jane", "en", "Jane"},
		{"me llamo Juana García", "es", "Juana García"},
		{"je m'appelle Jeanne", "fr", "Jeanne"},
		{"ich heiße Johanna Schmidt", "de", "Johanna Schmidt"},
		{"mera naam Priya hai", "en-IN", "Priya Hai"},
		{"hello there", "en", ""},
	}

	var ext DeterministicExtractor
	for _, tt := range tests {
		got := ext.Extract(tt.text, tt.locale)
		assert.Equal(t, tt.want, got.Name, "text %q", tt.text)
	}
}

func TestDeterministicExtractPhone(t *testing.T) {
	var ext DeterministicExtractor

	got := ext.Extract("you can call +1 (555) 123-4567 anytime", "en")
	assert.Equal(t, "+15551234567", got.Phone)

	got = ext.Extract("maybe 42 of them", "en")
	assert.Empty(t, got.Phone)

	// An ISO date is not a phone number.
	got = ext.Extract("how about 2026-03-20", "en")
	assert.Empty(t, got.Phone)
	assert.Equal(t, "2026-03-20", got.Date)
}

func TestPhonePatternsAreLocaleSpecific(t *testing.T) {
	var ext DeterministicExtractor

	// Nigerian mobile: trunk zero plus ten digits.
	got := ext.Extract("you fit call 0803 123 4567", "en-NG")
	assert.Equal(t, "08031234567", got.Phone)

	// The same digits are not a valid number under the US grouping.
	got = ext.Extract("you fit call 0803 123 4567", "en")
	assert.Empty(t, got.Phone)

	// Indian mobile with country code.
	got = ext.Extract("mera number +91 98765 43210 hai", "hi")
	assert.Equal(t, "+919876543210", got.Phone)

	// French number behind the trunk zero, rejected by the Spanish table.
	got = ext.Extract("appelez le 01 42 68 53 00", "fr")
	assert.Equal(t, "0142685300", got.Phone)
	got = ext.Extract("appelez le 01 42 68 53 00", "es")
	assert.Empty(t, got.Phone)

	// Full international numbers are accepted by every table.
	got = ext.Extract("call +442079460958 please", "en")
	assert.Equal(t, "+442079460958", got.Phone)
}

func TestDeterministicExtractServiceDateTime(t *testing.T) {
	var ext DeterministicExtractor

	got := ext.Extract("I'd like SEO, maybe Friday at 2pm", "en")
	assert.Equal(t, "SEO", got.Service)
	assert.Equal(t, "friday", got.Date)
	assert.Equal(t, "2pm", got.Time)

	got = ext.Extract("tomorrow morning works for the website project", "en")
	assert.Equal(t, "Web Design", got.Service)
	assert.Equal(t, "tomorrow", got.Date)
	assert.Equal(t, "morning", got.Time)

	got = ext.Extract("how about 2:30 PM?", "en")
	assert.Equal(t, "2:30 pm", got.Time)
}

func TestDeterministicExtractNeverGuesses(t *testing.T) {
	var ext DeterministicExtractor

	got := ext.Extract("tell me about your services", "en")
	assert.Equal(t, booking.Extraction{}, got)
}

func TestTableForFallsBack(t *testing.T) {
	assert.Equal(t, localeTables["en"], tableFor("en-US"))
	assert.Equal(t, localeTables["es"], tableFor("es-MX"))
	assert.Equal(t, localeTables["en-ng"], tableFor("en-NG"))
	assert.Equal(t, localeTables["en"], tableFor("zz"))
	assert.Equal(t, localeTables["en"], tableFor(""))
}
