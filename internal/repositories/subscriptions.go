package repositories

import (
	"slices"
	"strconv"
	"sync"

	"github.com/VakeDomen/FlatScraper/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type document interface {
	Load() map[string][]string
	Save(data map[string][]string) error
}

type SubscribeResult int

const (
	SubscriptionAdded SubscribeResult = iota
	SubscriptionExists
)

type UnsubscribeResult int

const (
	SubscriptionRemoved UnsubscribeResult = iota
	SubscriptionNotFound
)

var ErrInvalidURL = errors.New("invalid search url")

// Subscriptions is the registry of search URLs each subscriber watches.
// All access serializes through one mutex; the backing document is rewritten
// after every mutation. A failed write is logged and the in-memory registry
// stays authoritative until the next successful flush.
type Subscriptions struct {
	mu       sync.Mutex
	byUser   map[int64][]string
	doc      document
	validate *validator.Validate
}

func NewSubscriptions(doc document) *Subscriptions {

	s := &Subscriptions{
		byUser:   make(map[int64][]string),
		doc:      doc,
		validate: validator.New(),
	}

	for key, urls := range doc.Load() {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			log.Warnf("skipping subscription entry with bad key %q: %v", key, err)
			continue
		}
		s.byUser[userID] = urls
	}

	return s
}

func (s *Subscriptions) Subscribe(userID int64, url string) (SubscribeResult, error) {

	if err := s.validate.Var(url, "required,url"); err != nil {
		return 0, errors.Wrapf(ErrInvalidURL, "%q", url)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.byUser[userID], url) {
		return SubscriptionExists, nil
	}

	s.byUser[userID] = append(s.byUser[userID], url)
	s.persistLocked()
	return SubscriptionAdded, nil
}

func (s *Subscriptions) Unsubscribe(userID int64, url string) UnsubscribeResult {

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.Index(s.byUser[userID], url)
	if idx < 0 {
		return SubscriptionNotFound
	}

	s.byUser[userID] = slices.Delete(s.byUser[userID], idx, idx+1)
	if len(s.byUser[userID]) == 0 {
		delete(s.byUser, userID)
	}

	s.persistLocked()
	return SubscriptionRemoved
}

func (s *Subscriptions) List(userID int64) []string {

	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.byUser[userID])
}

// Snapshot returns a deep copy of the whole registry for one check cycle, so
// the scheduler never iterates live state.
func (s *Subscriptions) Snapshot() map[int64][]string {

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64][]string, len(s.byUser))
	for userID, urls := range s.byUser {
		snapshot[userID] = slices.Clone(urls)
	}
	return snapshot
}

func (s *Subscriptions) persistLocked() {

	data := make(map[string][]string, len(s.byUser))
	for userID, urls := range s.byUser {
		data[strconv.FormatInt(userID, 10)] = urls
	}

	if err := s.doc.Save(data); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePersistence).
			Errorf("failed to persist subscriptions: %v", err)
	}
}
