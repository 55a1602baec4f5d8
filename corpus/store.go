// Package corpus stores the choice logs of failing property cases so that
// later runs replay them before generating fresh ones.
package corpus

import (
	"context"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrNotFound        = errors.New("corpus entry not found")
	ErrInvalidProperty = errors.New("invalid property name")
	ErrInvalidID       = errors.New("invalid entry id")
)

// idLen is the length in bytes of the digest prefix used as an entry ID.
const idLen = 8

// Entry is one recorded choice log.
type Entry struct {
	Property  string
	ID        string
	Choices   []byte
	CreatedAt time.Time
}

// NewEntry builds the entry of a choice log. Entries are content addressed,
// so saving the same log twice keeps a single entry.
func NewEntry(property string, choices []byte) Entry {
	return Entry{
		Property:  property,
		ID:        EntryID(choices),
		Choices:   append([]byte(nil), choices...),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// EntryID is the hex encoding of the first 8 bytes of blake2b-256(choices).
func EntryID(choices []byte) string {
	sum := blake2b.Sum256(choices)
	return hex.EncodeToString(sum[:idLen])
}

// Hex returns the choice log as PROPTEST_REPLAY expects it.
func (e Entry) Hex() string {
	return hex.EncodeToString(e.Choices)
}

// Store persists entries grouped by property name.
type Store interface {
	// Save is idempotent for a given property and ID.
	Save(ctx context.Context, e Entry) error
	// Load returns the entries of property oldest first. An unknown
	// property has no entries.
	Load(ctx context.Context, property string) ([]Entry, error)
	// Get returns ErrNotFound for a missing entry.
	Get(ctx context.Context, property, id string) (Entry, error)
	// Delete returns ErrNotFound for a missing entry.
	Delete(ctx context.Context, property, id string) error
	// Properties lists every property with at least one entry, sorted.
	Properties(ctx context.Context) ([]string, error)
	Close() error
}

func validateProperty(property string) error {
	if strings.TrimSpace(property) == "" {
		return errors.Wrap(ErrInvalidProperty, "empty name")
	}
	if property == "." || property == ".." {
		return errors.Wrapf(ErrInvalidProperty, "%q", property)
	}
	if len(property) > 255 {
		return errors.Wrapf(ErrInvalidProperty, "%d bytes, at most 255", len(property))
	}
	return nil
}

func validateID(id string) error {
	if len(id) != 2*idLen {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	if _, err := hex.DecodeString(id); err != nil {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}

func validateEntry(e Entry) error {
	if err := validateProperty(e.Property); err != nil {
		return err
	}
	if err := validateID(e.ID); err != nil {
		return err
	}
	if e.ID != EntryID(e.Choices) {
		return errors.Wrapf(ErrInvalidID, "%s does not match its choices", e.ID)
	}
	return nil
}

// sortEntries orders entries oldest first, then by ID.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// decodeChoices parses the hex body of a stored entry.
func decodeChoices(body []byte) ([]byte, error) {
	choices, err := hex.DecodeString(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, errors.Wrap(err, "decoding entry")
	}
	return choices, nil
}

func encodeChoices(choices []byte) []byte {
	return []byte(hex.EncodeToString(choices) + "\n")
}
