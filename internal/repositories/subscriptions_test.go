package repositories

import (
	"path/filepath"
	"testing"

	"github.com/VakeDomen/FlatScraper/internal/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeDocument struct {
	data  map[string][]string
	saves int
}

func newFakeDocument() *fakeDocument {
	return &fakeDocument{data: make(map[string][]string)}
}

func (d *fakeDocument) Load() map[string][]string {
	return d.data
}

func (d *fakeDocument) Save(data map[string][]string) error {
	d.data = data
	d.saves++
	return nil
}

const searchURL = "https://www.nepremicnine.net/oglasi-najem/ljubljana-mesto/stanovanje/"

func Test_Subscribe_TwiceSameURL_IsIdempotent(t *testing.T) {

	assert := assert.New(t)
	subs := NewSubscriptions(newFakeDocument())

	result, err := subs.Subscribe(42, searchURL)
	assert.NoError(err)
	assert.Equal(SubscriptionAdded, result)

	result, err = subs.Subscribe(42, searchURL)
	assert.NoError(err)
	assert.Equal(SubscriptionExists, result)

	assert.Equal([]string{searchURL}, subs.List(42))
}

func Test_Subscribe_EmptyURL_RejectedBeforeTouchingState(t *testing.T) {

	doc := newFakeDocument()
	subs := NewSubscriptions(doc)

	_, err := subs.Subscribe(42, "")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Empty(t, subs.List(42))
	assert.Zero(t, doc.saves)
}

func Test_Subscribe_MalformedURL_Rejected(t *testing.T) {

	subs := NewSubscriptions(newFakeDocument())

	_, err := subs.Subscribe(42, "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func Test_Unsubscribe_UnknownURL_DoesNotMutate(t *testing.T) {

	assert := assert.New(t)
	subs := NewSubscriptions(newFakeDocument())
	_, err := subs.Subscribe(42, searchURL)
	assert.NoError(err)

	result := subs.Unsubscribe(42, "https://www.nepremicnine.net/other/")
	assert.Equal(SubscriptionNotFound, result)
	assert.Equal([]string{searchURL}, subs.List(42))

	result = subs.Unsubscribe(42, searchURL)
	assert.Equal(SubscriptionRemoved, result)
	assert.Empty(subs.List(42))
}

func Test_List_UnknownSubscriber_ReturnsEmpty(t *testing.T) {

	subs := NewSubscriptions(newFakeDocument())
	assert.Empty(t, subs.List(999))
}

func Test_Subscriptions_PersistOnEveryMutation(t *testing.T) {

	doc := newFakeDocument()
	subs := NewSubscriptions(doc)

	_, _ = subs.Subscribe(42, searchURL)
	assert.Equal(t, 1, doc.saves)

	subs.List(42)
	assert.Equal(t, 1, doc.saves)

	subs.Unsubscribe(42, searchURL)
	assert.Equal(t, 2, doc.saves)
}

func Test_Subscriptions_SurviveReload(t *testing.T) {

	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "subscriptions.json")

	subs := NewSubscriptions(storage.NewDocument(path))
	_, err := subs.Subscribe(42, searchURL)
	assert.NoError(err)
	_, err = subs.Subscribe(7, searchURL+"2/")
	assert.NoError(err)

	reloaded := NewSubscriptions(storage.NewDocument(path))
	assert.Equal([]string{searchURL}, reloaded.List(42))
	assert.Equal([]string{searchURL + "2/"}, reloaded.List(7))
}

func Test_Snapshot_IsDetachedFromLiveRegistry(t *testing.T) {

	assert := assert.New(t)
	subs := NewSubscriptions(newFakeDocument())
	_, err := subs.Subscribe(42, searchURL)
	assert.NoError(err)

	snapshot := subs.Snapshot()
	subs.Unsubscribe(42, searchURL)

	assert.Equal([]string{searchURL}, snapshot[42])
	assert.Empty(subs.List(42))
}

type failingDocument struct{}

func (failingDocument) Load() map[string][]string { return map[string][]string{} }

func (failingDocument) Save(map[string][]string) error { return errors.New("disk full") }

func Test_Subscribe_WriteFailure_InMemoryStateStaysAuthoritative(t *testing.T) {

	subs := NewSubscriptions(failingDocument{})

	result, err := subs.Subscribe(42, searchURL)
	assert.NoError(t, err)
	assert.Equal(t, SubscriptionAdded, result)
	assert.Equal(t, []string{searchURL}, subs.List(42))
}
