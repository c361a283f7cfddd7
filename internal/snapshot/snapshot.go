// Package snapshot persists filter chain state between runs so a restarted
// process continues from a realistic baseline instead of burning in again.
package snapshot

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sensorfilt/dsp/filterchain"
)

// Version of the document layout written by Save.
const Version = 1

// Document is the on-disk snapshot format.
type Document struct {
	Version int               `yaml:"version"`
	SavedAt time.Time         `yaml:"saved_at"`
	Samples uint64            `yaml:"samples"`
	Chain   filterchain.State `yaml:"chain"`
}

// Save writes doc to path atomically: the document is written to a temporary
// file next to path, synced, then renamed over it.
func Save(path string, doc Document) error {
	if doc.Version == 0 {
		doc.Version = Version
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "snapshot: encode")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "snapshot: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "snapshot: write")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "snapshot: sync")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "snapshot: close")
	}

	return errors.Wrap(os.Rename(tmp.Name(), path), "snapshot: rename")
}

// Load reads a snapshot written by Save. A missing file is reported with an
// error matching fs.ErrNotExist.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "snapshot: read")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(err, "snapshot: decode")
	}

	if doc.Version != Version {
		return Document{}, errors.Errorf("snapshot: unsupported version %d", doc.Version)
	}

	return doc, nil
}
