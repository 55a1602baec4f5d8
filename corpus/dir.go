package corpus

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const entryExt = ".hex"

// DirStore keeps one directory per property, named by its path-escaped
// name, holding one <id>.hex file per entry. CreatedAt is the file's
// modification time.
type DirStore struct {
	root string
}

var _ Store = (*DirStore)(nil)

// NewDirStore creates root if needed.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating corpus directory %s", root)
	}
	return &DirStore{root: root}, nil
}

// Root returns the corpus directory.
func (s *DirStore) Root() string { return s.root }

func (s *DirStore) propertyDir(property string) string {
	return filepath.Join(s.root, url.PathEscape(property))
}

func (s *DirStore) entryPath(property, id string) string {
	return filepath.Join(s.propertyDir(property), id+entryExt)
}

func (s *DirStore) Save(_ context.Context, e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	dir := s.propertyDir(e.Property)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary entry")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(encodeChoices(e.Choices)); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing entry")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing entry")
	}

	path := s.entryPath(e.Property, e.ID)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "storing %s", path)
	}
	if !e.CreatedAt.IsZero() {
		// best effort; CreatedAt falls back to the rename time
		_ = os.Chtimes(path, e.CreatedAt, e.CreatedAt)
	}
	return nil
}

func (s *DirStore) Load(ctx context.Context, property string) ([]Entry, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	files, err := os.ReadDir(s.propertyDir(property))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", property)
	}

	var entries []Entry
	for _, f := range files {
		id, ok := entryIDFromName(f.Name())
		if !ok || f.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := s.Get(ctx, property, id)
		if errors.Is(err, ErrNotFound) {
			// removed concurrently
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries, nil
}

func entryIDFromName(name string) (string, bool) {
	id, ok := strings.CutSuffix(name, entryExt)
	if !ok || validateID(id) != nil {
		return "", false
	}
	return id, true
}

func (s *DirStore) Get(_ context.Context, property, id string) (Entry, error) {
	if err := validateProperty(property); err != nil {
		return Entry{}, err
	}
	if err := validateID(id); err != nil {
		return Entry{}, err
	}
	path := s.entryPath(property, id)
	body, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Entry{}, errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	if err != nil {
		return Entry{}, errors.Wrapf(err, "reading %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "stat %s", path)
	}
	choices, err := decodeChoices(body)
	if err != nil {
		return Entry{}, errors.Wrap(err, path)
	}
	return Entry{
		Property:  property,
		ID:        id,
		Choices:   choices,
		CreatedAt: info.ModTime().UTC(),
	}, nil
}

func (s *DirStore) Delete(_ context.Context, property, id string) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	err := os.Remove(s.entryPath(property, id))
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrNotFound, "%s/%s", property, id)
	}
	if err != nil {
		return errors.Wrap(err, "removing entry")
	}
	// drop the property directory once empty; fails harmlessly otherwise
	_ = os.Remove(s.propertyDir(property))
	return nil
}

func (s *DirStore) Properties(_ context.Context) ([]string, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", s.root)
	}
	var props []string
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		name, err := url.PathUnescape(d.Name())
		if err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.root, d.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", name)
		}
		for _, f := range files {
			if _, ok := entryIDFromName(f.Name()); ok {
				props = append(props, name)
				break
			}
		}
	}
	sort.Strings(props)
	return props, nil
}

func (s *DirStore) Close() error { return nil }

// propertyOf maps an entry file path under root back to its property and ID.
func (s *DirStore) propertyOf(path string) (property, id string, ok bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", "", false
	}
	dir, file := filepath.Split(rel)
	dir = filepath.Clean(dir)
	if dir == "." || strings.ContainsRune(dir, filepath.Separator) {
		return "", "", false
	}
	id, ok = entryIDFromName(file)
	if !ok {
		return "", "", false
	}
	property, err = url.PathUnescape(dir)
	if err != nil {
		return "", "", false
	}
	return property, id, true
}
