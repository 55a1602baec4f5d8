// Package inifile reads and writes the small INI dialect used by
// proptest.ini: [section] headers, key = value pairs, # and ; comments.
package inifile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("ini syntax error")

// File is a parsed INI document. Keys that appear before any header belong
// to the section named "".
type File struct {
	Sections []Section
}

// Section keeps its values in file order.
type Section struct {
	Name   string
	Values []KeyValue
}

type KeyValue struct {
	Key   string
	Value string
}

// Parse reads an INI document. Section and key names are case-insensitive
// and stored lower-cased. A value may be double-quoted to keep leading or
// trailing spaces or a comment character; unquoted values lose any trailing
// " #" or " ;" comment.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	current := -1

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, errors.Wrapf(ErrSyntax, "line %d: unterminated section header", lineNo)
			}
			name := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if name == "" {
				return nil, errors.Wrapf(ErrSyntax, "line %d: empty section name", lineNo)
			}
			current = f.sectionIndex(name, true)
			continue
		}

		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Wrapf(ErrSyntax, "line %d: expected key = value", lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, errors.Wrapf(ErrSyntax, "line %d: empty key", lineNo)
		}
		value, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineNo, err)
		}

		if current < 0 {
			current = f.sectionIndex("", true)
		}
		s := &f.Sections[current]
		s.Values = append(s.Values, KeyValue{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading ini")
	}
	return f, nil
}

func parseValue(raw string) (string, error) {
	if strings.HasPrefix(raw, `"`) {
		end := strings.LastIndex(raw, `"`)
		if end == 0 {
			return "", errors.New("unterminated quoted value")
		}
		if rest := strings.TrimSpace(raw[end+1:]); rest != "" && rest[0] != '#' && rest[0] != ';' {
			return "", errors.Errorf("unexpected %q after quoted value", rest)
		}
		return strconv.Unquote(raw[:end+1])
	}
	for _, marker := range []string{" #", " ;", "\t#", "\t;"} {
		if i := strings.Index(raw, marker); i >= 0 {
			raw = raw[:i]
		}
	}
	return strings.TrimSpace(raw), nil
}

// ParseFile reads and parses an INI file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return file, nil
}

func (f *File) sectionIndex(name string, create bool) int {
	for i := range f.Sections {
		if f.Sections[i].Name == name {
			return i
		}
	}
	if !create {
		return -1
	}
	f.Sections = append(f.Sections, Section{Name: name})
	return len(f.Sections) - 1
}

// Section returns the named section or nil.
func (f *File) Section(name string) *Section {
	i := f.sectionIndex(strings.ToLower(name), false)
	if i < 0 {
		return nil
	}
	return &f.Sections[i]
}

// Lookup returns the last value of key in section.
func (f *File) Lookup(section, key string) (string, bool) {
	s := f.Section(section)
	if s == nil {
		return "", false
	}
	return s.Lookup(key)
}

// Get returns the last value of key in section, or "".
func (f *File) Get(section, key string) string {
	v, _ := f.Lookup(section, key)
	return v
}

// String returns the value of key, or def when the key is missing or empty.
func (f *File) String(section, key, def string) string {
	if v, ok := f.Lookup(section, key); ok && v != "" {
		return v
	}
	return def
}

// Int returns the value of key as an int, or def when the key is missing or
// empty.
func (f *File) Int(section, key string, def int) (int, error) {
	v, ok := f.Lookup(section, key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.Wrapf(err, "[%s] %s", section, key)
	}
	return n, nil
}

// Int64 is Int for 64-bit values.
func (f *File) Int64(section, key string, def int64) (int64, error) {
	v, ok := f.Lookup(section, key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, errors.Wrapf(err, "[%s] %s", section, key)
	}
	return n, nil
}

// Float returns the value of key as a float64.
func (f *File) Float(section, key string, def float64) (float64, error) {
	v, ok := f.Lookup(section, key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errors.Wrapf(err, "[%s] %s", section, key)
	}
	return n, nil
}

// Bool accepts true/false, yes/no, on/off and 1/0.
func (f *File) Bool(section, key string, def bool) (bool, error) {
	v, ok := f.Lookup(section, key)
	if !ok || v == "" {
		return def, nil
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return def, errors.Errorf("[%s] %s: invalid boolean %q", section, key, v)
}

// Duration parses a time.Duration such as "1m30s".
func (f *File) Duration(section, key string, def time.Duration) (time.Duration, error) {
	v, ok := f.Lookup(section, key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, errors.Wrapf(err, "[%s] %s", section, key)
	}
	return d, nil
}

// Lookup returns the last value of key.
func (s *Section) Lookup(key string) (string, bool) {
	key = strings.ToLower(key)
	var result string
	found := false
	for _, kv := range s.Values {
		if kv.Key == key {
			result, found = kv.Value, true
		}
	}
	return result, found
}

// Get returns the last value of key, or "".
func (s *Section) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// HasKey reports whether the section contains key.
func (s *Section) HasKey(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Keys lists the distinct keys in first-seen order.
func (s *Section) Keys() []string {
	seen := make(map[string]bool, len(s.Values))
	var keys []string
	for _, kv := range s.Values {
		if !seen[kv.Key] {
			seen[kv.Key] = true
			keys = append(keys, kv.Key)
		}
	}
	return keys
}

// Set replaces every value of key in section with a single one, creating
// the section if needed.
func (f *File) Set(section, key, value string) {
	s := &f.Sections[f.sectionIndex(strings.ToLower(section), true)]
	key = strings.ToLower(key)

	kept := s.Values[:0]
	replaced := false
	for _, kv := range s.Values {
		if kv.Key != key {
			kept = append(kept, kv)
			continue
		}
		if !replaced {
			kept = append(kept, KeyValue{Key: key, Value: value})
			replaced = true
		}
	}
	if !replaced {
		kept = append(kept, KeyValue{Key: key, Value: value})
	}
	s.Values = kept
}

// Write serializes the file. Values that would not survive Parse unchanged
// are quoted.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	// headerless keys must come first to parse back into the "" section
	ordered := make([]Section, 0, len(f.Sections))
	if s := f.Section(""); s != nil {
		ordered = append(ordered, *s)
	}
	for _, s := range f.Sections {
		if s.Name != "" {
			ordered = append(ordered, s)
		}
	}
	for i, section := range ordered {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		if section.Name != "" {
			fmt.Fprintf(bw, "[%s]\n", section.Name)
		}
		for _, kv := range section.Values {
			fmt.Fprintf(bw, "%s = %s\n", kv.Key, formatValue(kv.Value))
		}
	}
	return bw.Flush()
}

func formatValue(v string) string {
	if v != strings.TrimSpace(v) || strings.ContainsAny(v, "#;\"") {
		return strconv.Quote(v)
	}
	return v
}

// WriteFile writes the file atomically through a temporary sibling.
func (f *File) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ini-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary ini file")
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing ini")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing ini")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing ini")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "replacing ini")
}
