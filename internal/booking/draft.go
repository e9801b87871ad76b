// Package booking holds the partial booking draft collected across a
// conversation and the commit pipeline that turns a completed draft into a
// calendar appointment.
package booking

import "strings"

// Draft is the partial booking record built up turn by turn. Every field is
// independently optional; empty string means "not captured yet".
type Draft struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Service string `json:"service,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// Extraction is the per-turn candidate set produced by the slot extractor.
// Fields mirror Draft; an empty field means the turn produced no candidate.
type Extraction struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Empty reports whether no field has been captured.
func (d Draft) Empty() bool {
	return d == Draft{}
}

// Complete reports whether the draft is ready to commit. Date and time are
// each individually sufficient; the pipeline defaults the missing one.
func (d Draft) Complete() bool {
	return d.Name != "" && d.Email != "" && d.Service != "" && (d.Date != "" || d.Time != "")
}

// emailCorrections undoes transcription artifacts before an email candidate
// is merged ("jane at example dot com").
var emailCorrections = strings.NewReplacer(
	" at the rate ", "@",
	" (at) ", "@",
	" [at] ", "@",
	"(at)", "@",
	"[at]", "@",
	" at ", "@",
	" (dot) ", ".",
	" [dot] ", ".",
	"(dot)", ".",
	"[dot]", ".",
	" dot ", ".",
	" underscore ", "_",
)

// ReplaceEmailArtifacts lowercases text and undoes spoken-email artifacts
// without collapsing whitespace, so address patterns become matchable inside
// a longer message.
func ReplaceEmailArtifacts(text string) string {
	return emailCorrections.Replace(strings.ToLower(text))
}

// CorrectEmail normalizes an extracted email candidate: lowercases it,
// applies the transcription substitutions, and strips remaining whitespace.
func CorrectEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	email = ReplaceEmailArtifacts(email)
	return strings.Join(strings.Fields(email), "")
}

// Merge folds a turn's extraction into the draft. Monotonic overwrite: a
// non-empty candidate replaces the field, an empty candidate never clears
// it. Pure and idempotent: merging the same extraction twice is a no-op.
func Merge(d Draft, c Extraction) Draft {
	if c.Name != "" {
		d.Name = c.Name
	}
	if email := CorrectEmail(c.Email); email != "" {
		d.Email = email
	}
	if c.Phone != "" {
		d.Phone = c.Phone
	}
	if c.Service != "" {
		d.Service = c.Service
	}
	if c.Date != "" {
		d.Date = c.Date
	}
	if c.Time != "" {
		d.Time = c.Time
	}
	return d
}
