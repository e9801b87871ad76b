package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchService(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I need help with social media", "Social Media Marketing"},
		{"looking for SEO for my shop", "SEO"},
		{"can you do search engine optimization", "SEO"},
		{"I want a new website", "Web Design"},
		{"we need content for the blog", "Content Creation"},
		{"run some PPC ads for us", "PPC Advertising"},
		{"help with our brand", "Brand Strategy"},
		{"just saying hello", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchService(tt.text), "text %q", tt.text)
	}
}

func TestServiceNames(t *testing.T) {
	names := ServiceNames()
	assert.Len(t, names, len(Catalog))
	assert.Equal(t, "Social Media Marketing", names[0])
}

func TestIsKnownService(t *testing.T) {
	assert.True(t, IsKnownService("SEO"))
	assert.True(t, IsKnownService("web design"))
	assert.False(t, IsKnownService("Astrology"))
}
