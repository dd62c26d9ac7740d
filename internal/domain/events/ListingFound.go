package events

import "github.com/VakeDomen/FlatScraper/internal/domain/models"

var ListingFoundTopic = "ListingFoundEvent"

type ListingFound struct {
	UserID    int64
	SearchURL string
	Listing   models.Listing
}
