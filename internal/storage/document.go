package storage

import (
	"encoding/json"
	"github.com/VakeDomen/FlatScraper/internal/logger"
	"github.com/pkg/errors"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Document is one durable key-value file: a JSON mapping from a string key to
// a sequence of strings, replaced wholesale on every save. Callers serialize
// access behind the same guard that protects the in-memory structure the
// document reflects.
type Document struct {
	path string
}

func NewDocument(path string) *Document {
	return &Document{path: path}
}

// Load reads the mapping from disk. A missing or unreadable file is not a
// failure: the document starts over as an empty mapping.
func (d *Document) Load() map[string][]string {

	data := make(map[string][]string)

	raw, err := os.ReadFile(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypePersistence).
				Errorf("failed to read %v, starting empty: %v", d.path, err)
		}
		return data
	}

	if err = json.Unmarshal(raw, &data); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypePersistence).
			Errorf("corrupt document %v, starting empty: %v", d.path, err)
		return make(map[string][]string)
	}

	return data
}

// Save atomically replaces the file with the given mapping by writing to a
// temporary sibling and renaming it over the target.
func (d *Document) Save(data map[string][]string) error {

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %v", d.path)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal document %v", d.path)
	}

	tmp := d.path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %v", tmp)
	}

	if err = os.Rename(tmp, d.path); err != nil {
		return errors.Wrapf(err, "failed to replace %v", d.path)
	}

	return nil
}
