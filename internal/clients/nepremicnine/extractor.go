package nepremicnine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/VakeDomen/FlatScraper/internal/domain/models"
)

// ExtractListings returns the listings found on one result page, in document
// order. Every field is extracted independently; an item with missing markup
// still yields a listing with the corresponding fields empty.
func ExtractListings(doc *goquery.Document) []models.Listing {

	var listings []models.Listing

	doc.Find(`div[itemprop="item"]`).Each(func(_ int, item *goquery.Selection) {

		href := ""
		if ref, exists := item.Find(`h2[itemprop="name"]`).First().Attr("data-href"); exists {
			href = absoluteURL(ref)
		}

		listings = append(listings, models.Listing{
			ID:       models.DeriveID(href),
			Location: strings.TrimSpace(item.Find("span.title").First().Text()),
			Price:    strings.TrimSpace(item.Find("span.cena").First().Text()),
			Size:     strings.TrimSpace(item.Find("span.velikost").First().Text()),
			Href:     href,
		})
	})

	return listings
}

// NextPageURL returns the absolute URL of the next result page. The second
// return value is false when the page carries no "next" pagination control,
// which ends the crawl.
func NextPageURL(doc *goquery.Document) (string, bool) {

	next := doc.Find("a.next").First()
	if next.Length() == 0 {
		return "", false
	}

	href, exists := next.Attr("href")
	if !exists || href == "" {
		return "", false
	}

	return absoluteURL(href), true
}

func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return BaseURL + href
}
