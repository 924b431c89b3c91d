package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/timelog/internal/model"
)

// DefaultFile is the store file name used when nothing else is configured.
const DefaultFile = ".timelog.yaml"

var (
	// ErrIO is wrapped by every read or write failure of the backing file.
	ErrIO = errors.New("storage error")
	// ErrDecode is wrapped when the backing file is not a valid document.
	ErrDecode = errors.New("corrupt timelog file")
	// ErrInvariant is wrapped when a mutation would leave the document inconsistent.
	ErrInvariant = errors.New("inconsistent timelog")
)

// Store reads and writes a whole Document as one YAML file. It does no
// locking: concurrent writers race and the last one wins.
type Store struct {
	path string
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document, creating an empty one on disk if the file does not exist.
func (s *Store) Load() (model.Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := model.Document{Projects: []model.ProjectDef{}, Entries: []model.TimeEntry{}}
		if err := s.Save(doc); err != nil {
			return model.Document{}, err
		}
		return doc, nil
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: reading %s: %v", ErrIO, s.path, err)
	}

	doc, err := decode(data)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w %s: %v", ErrDecode, s.path, err)
	}
	return doc, nil
}

// Save atomically replaces the backing file with doc.
func (s *Store) Save(doc model.Document) error {
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("%w: marshalling YAML: %v", ErrIO, err)
	}
	return writeAtomic(s.path, data)
}

// Update loads the document, applies fn to it and saves the result. Nothing
// is written if fn returns an error or the result breaks a document invariant.
func (s *Store) Update(fn func(doc *model.Document) error) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	if err := doc.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	return s.Save(doc)
}

func decode(data []byte) (model.Document, error) {
	var doc model.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	switch err := dec.Decode(&doc); {
	case errors.Is(err, io.EOF):
		// Empty file.
	case err != nil:
		return model.Document{}, err
	default:
		if err := ensureEOF(dec); err != nil {
			return model.Document{}, err
		}
	}
	if err := doc.Validate(); err != nil {
		return model.Document{}, err
	}
	if doc.Projects == nil {
		doc.Projects = []model.ProjectDef{}
	}
	if doc.Entries == nil {
		doc.Entries = []model.TimeEntry{}
	}
	doc.Normalize()
	return doc, nil
}

func ensureEOF(dec *yaml.Decoder) error {
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return errors.New("multiple YAML documents are not supported")
	} else if !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func encode(doc model.Document) ([]byte, error) {
	if doc.Projects == nil {
		doc.Projects = []model.ProjectDef{}
	}
	if doc.Entries == nil {
		doc.Entries = []model.TimeEntry{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: creating directories: %v", ErrIO, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: writing temp file: %v", ErrIO, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming temp file: %v", ErrIO, err)
	}
	return nil
}
