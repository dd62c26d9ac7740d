package repositories

import (
	"strconv"
	"sync"

	"github.com/VakeDomen/FlatScraper/internal/domain/models"
	"github.com/pkg/errors"
)

// SeenListings tracks, per (subscriber, search URL) pair, the listing
// identifiers already shown to that subscriber. Identifiers are only ever
// appended; the backing document keys pairs as "<subscriberID> <url>".
type SeenListings struct {
	mu   sync.Mutex
	ids  map[string][]string
	sets map[string]map[string]struct{}
	doc  document
}

func NewSeenListings(doc document) *SeenListings {

	s := &SeenListings{
		ids:  doc.Load(),
		sets: make(map[string]map[string]struct{}),
		doc:  doc,
	}

	for key, ids := range s.ids {
		set := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		s.sets[key] = set
	}

	return s
}

// Diff records and returns the listings whose identifier has not been shown
// for this (subscriber, url) pair yet, preserving input order. Duplicate
// identifiers inside one batch collapse to the first occurrence.
//
// A pair seen for the very first time records every identifier but returns
// nothing: an unseen pair has no "new" listings, only a baseline.
func (s *SeenListings) Diff(userID int64, url string, listings []models.Listing) []models.Listing {

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, url)
	set, known := s.sets[key]
	if !known {
		set = make(map[string]struct{})
		s.sets[key] = set
		s.ids[key] = []string{}
	}

	var fresh []models.Listing
	for _, listing := range listings {
		if _, ok := set[listing.ID]; ok {
			continue
		}
		set[listing.ID] = struct{}{}
		s.ids[key] = append(s.ids[key], listing.ID)
		if known {
			fresh = append(fresh, listing)
		}
	}

	return fresh
}

// Flush rewrites the backing document with the current state.
func (s *SeenListings) Flush() error {

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.doc.Save(s.ids); err != nil {
		return errors.Wrap(err, "failed to persist seen listings")
	}
	return nil
}

func pairKey(userID int64, url string) string {
	return strconv.FormatInt(userID, 10) + " " + url
}
