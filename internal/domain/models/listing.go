package models

import "strings"

// MissingID is the identity assigned to a listing whose detail link could not
// be extracted at all.
const MissingID = "missing"

// Listing is one scraped classified ad. A listing is never mutated after
// extraction; every field except ID may be empty when the page markup lacks
// the corresponding element.
type Listing struct {
	ID       string
	Location string
	Price    string
	Size     string
	Href     string
}

// DeriveID returns the identity key used for novelty comparisons: the token
// after the last "_" of the detail-page reference. A reference without such a
// token keeps the whole href as identity so that two malformed listings on
// one page stay distinct; MissingID is used only when the href is absent.
func DeriveID(href string) string {
	if href == "" {
		return MissingID
	}

	trimmed := strings.TrimSuffix(href, "/")
	idx := strings.LastIndex(trimmed, "_")
	if idx < 0 || idx+1 >= len(trimmed) {
		return href
	}
	return trimmed[idx+1:]
}
