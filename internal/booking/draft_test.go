package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftComplete(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		complete bool
	}{
		{
			name:     "empty draft",
			draft:    Draft{},
			complete: false,
		},
		{
			name:     "date but no time",
			draft:    Draft{Name: "Jane Doe", Email: "jane@example.com", Service: "SEO", Date: "friday"},
			complete: true,
		},
		{
			name:     "time but no date",
			draft:    Draft{Name: "Jane Doe", Email: "jane@example.com", Service: "SEO", Time: "2pm"},
			complete: true,
		},
		{
			name:     "missing email",
			draft:    Draft{Name: "Jane Doe", Service: "SEO", Date: "friday", Time: "2pm"},
			complete: false,
		},
		{
			name:     "missing service",
			draft:    Draft{Name: "Jane Doe", Email: "jane@example.com", Date: "friday"},
			complete: false,
		},
		{
			name:     "neither date nor time",
			draft:    Draft{Name: "Jane Doe", Email: "jane@example.com", Service: "SEO"},
			complete: false,
		},
		{
			name:     "phone never required",
			draft:    Draft{Name: "Jane", Email: "j@x.com", Service: "SEO", Date: "monday"},
			complete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.draft.Complete())
		})
	}
}

func TestMergeOverwritesNonEmpty(t *testing.T) {
	d := Draft{Name: "Jane", Service: "SEO"}
	d = Merge(d, Extraction{Name: "Jane Doe", Date: "friday"})

	assert.Equal(t, "Jane Doe", d.Name)
	assert.Equal(t, "SEO", d.Service)
	assert.Equal(t, "friday", d.Date)
}

func TestMergeNeverClears(t *testing.T) {
	d := Draft{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "+15551234567",
		Service: "SEO",
		Date:    "friday",
		Time:    "2pm",
	}

	merged := Merge(d, Extraction{})

	assert.Equal(t, d, merged)
}

func TestMergeIdempotent(t *testing.T) {
	ext := Extraction{Name: "Jane Doe", Email: "JANE@Example.com", Service: "Web Design"}

	once := Merge(Draft{}, ext)
	twice := Merge(once, ext)

	assert.Equal(t, once, twice)
}

func TestMergeCorrectsEmail(t *testing.T) {
	d := Merge(Draft{}, Extraction{Email: "Jane at example dot com"})

	assert.Equal(t, "jane@example.com", d.Email)
}

func TestCorrectEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane@example.com", "jane@example.com"},
		{"JANE@EXAMPLE.COM", "jane@example.com"},
		{"jane at example dot com", "jane@example.com"},
		{"jane (at) example (dot) com", "jane@example.com"},
		{"jane [at] example [dot] com", "jane@example.com"},
		{"jane at the rate example dot com", "jane@example.com"},
		{"jane underscore doe at example dot com", "jane_doe@example.com"},
		{"  jane@example.com  ", "jane@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CorrectEmail(tt.in), "input %q", tt.in)
	}
}
