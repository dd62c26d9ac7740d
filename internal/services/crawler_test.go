package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/VakeDomen/FlatScraper/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

const (
	page1 = "http://chain.test/p1"
	page2 = "http://chain.test/p2"
	page3 = "http://chain.test/p3"
)

func resultPageHTML(ids []string, nextURL string) string {

	var b strings.Builder
	b.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<div itemprop="item">`+
			`<h2 itemprop="name" data-href="/oglasi-najem/stanovanje/oglas_%s/"></h2>`+
			`<span class="title">Ljubljana</span><span class="cena">900 €/mesec</span></div>`, id)
	}
	if nextURL != "" {
		fmt.Fprintf(&b, `<a class="next" href="%s"></a>`, nextURL)
	}
	b.WriteString("</body></html>")
	return b.String()
}

type fakeFetcher struct {
	pages   map[string]string
	failOn  string
	fetches []string
}

func (f *fakeFetcher) GetPage(url string) (*goquery.Document, error) {
	f.fetches = append(f.fetches, url)
	if url == f.failOn {
		return nil, errors.New("connection reset")
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.Errorf("no page for %v", url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func listingIDs(listings []models.Listing) []string {
	return lo.Map(listings, func(l models.Listing, _ int) string { return l.ID })
}

func Test_Crawl_WalksWholePageChain(t *testing.T) {

	assert := assert.New(t)
	fetcher := &fakeFetcher{pages: map[string]string{
		page1: resultPageHTML([]string{"1", "2"}, page2),
		page2: resultPageHTML([]string{"3"}, page3),
		page3: resultPageHTML([]string{"4", "5"}, ""),
	}}

	listings := NewCrawler(fetcher, 50).Crawl(page1)

	assert.Equal([]string{"1", "2", "3", "4", "5"}, listingIDs(listings))
	assert.Equal([]string{page1, page2, page3}, fetcher.fetches)
}

func Test_Crawl_FetchFailureMidChain_ReturnsPartialResult(t *testing.T) {

	fetcher := &fakeFetcher{
		pages: map[string]string{
			page1: resultPageHTML([]string{"1", "2"}, page2),
			page3: resultPageHTML([]string{"9"}, ""),
		},
		failOn: page2,
	}

	listings := NewCrawler(fetcher, 50).Crawl(page1)

	assert.Equal(t, []string{"1", "2"}, listingIDs(listings))
}

func Test_Crawl_FirstPageFails_ReturnsEmpty(t *testing.T) {

	fetcher := &fakeFetcher{failOn: page1}

	listings := NewCrawler(fetcher, 50).Crawl(page1)
	assert.Empty(t, listings)
}

func Test_Crawl_PageChainLoop_BoundedByMaxPages(t *testing.T) {

	fetcher := &fakeFetcher{pages: map[string]string{
		page1: resultPageHTML([]string{"1"}, page1),
	}}

	listings := NewCrawler(fetcher, 5).Crawl(page1)

	assert.Len(t, fetcher.fetches, 5)
	assert.Len(t, listings, 5)
}
