package booking

import "strings"

// ServiceEntry maps customer phrasing to a canonical service name.
type ServiceEntry struct {
	Name     string
	Keywords []string
}

// Catalog is the fixed service catalog. Order matters: the first entry with
// a matching keyword wins, so more specific phrasings come first.
var Catalog = []ServiceEntry{
	{Name: "Social Media Marketing", Keywords: []string{"social media"}},
	{Name: "SEO", Keywords: []string{"seo", "search engine"}},
	{Name: "Web Design", Keywords: []string{"web design", "website"}},
	{Name: "Content Creation", Keywords: []string{"content"}},
	{Name: "PPC Advertising", Keywords: []string{"ppc", "ads", "advertising"}},
	{Name: "Brand Strategy", Keywords: []string{"brand"}},
}

// MatchService returns the catalog name for the first keyword contained in
// text, or "" if nothing matches. Matching is case-insensitive.
func MatchService(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range Catalog {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Name
			}
		}
	}
	return ""
}

// ServiceNames returns the canonical catalog names in order.
func ServiceNames() []string {
	names := make([]string, 0, len(Catalog))
	for _, entry := range Catalog {
		names = append(names, entry.Name)
	}
	return names
}

// IsKnownService reports whether name is a canonical catalog entry.
func IsKnownService(name string) bool {
	for _, entry := range Catalog {
		if strings.EqualFold(entry.Name, name) {
			return true
		}
	}
	return false
}
