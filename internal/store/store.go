// Package store keeps notebooks in a local directory, one subdirectory per
// notebook holding its metadata, page histories and source bytes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"MyLocalNotes/internal/state"
)

const (
	notebookFile = "notebook.json"
	sourceFile   = "source"
)

// ErrNotFound is returned for an unknown notebook id.
var ErrNotFound = errors.New("notebook not found")

type Kind string

const (
	KindBlank  Kind = "blank"
	KindImage  Kind = "image"
	KindBundle Kind = "bundle"
	KindPDF    Kind = "pdf"
)

// Notebook is the unit of save and load.
type Notebook struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Kind    Kind               `json:"kind"`
	Pages   int                `json:"pages"`
	Created time.Time          `json:"created"`
	Updated time.Time          `json:"updated"`
	History []state.PageRecord `json:"history"`

	// Source holds the original document bytes; it is stored beside the
	// metadata rather than inside it.
	Source []byte `json:"-"`
}

// New returns a notebook with a fresh id.
func New(name string, kind Kind, pages int) *Notebook {
	now := time.Now().UTC()
	return &Notebook{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    kind,
		Pages:   pages,
		Created: now,
		Updated: now,
	}
}

// Dir is a directory-backed notebook store.
type Dir struct {
	root string
}

// Open prepares root for use, creating it if needed.
func Open(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return &Dir{root: root}, nil
}

// Save writes nb, replacing any earlier version.
func (d *Dir) Save(nb *Notebook) error {
	if _, err := uuid.Parse(nb.ID); err != nil {
		return fmt.Errorf("save notebook: bad id %q: %w", nb.ID, err)
	}
	for i, rec := range nb.History {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("save notebook %s page %d: %w", nb.ID, i+1, err)
		}
	}
	dir := filepath.Join(d.root, nb.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	nb.Updated = time.Now().UTC()

	data, err := json.MarshalIndent(nb, "", "  ")
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	if err := writeFile(filepath.Join(dir, notebookFile), data); err != nil {
		return err
	}
	if nb.Source != nil {
		if err := writeFile(filepath.Join(dir, sourceFile), nb.Source); err != nil {
			return err
		}
	}
	slog.Info("notebook saved", "component", "store", "id", nb.ID, "pages", len(nb.History))
	return nil
}

// Load reads notebook id including its source bytes.
func (d *Dir) Load(id string) (*Notebook, error) {
	nb, err := d.readMeta(id)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filepath.Join(d.root, id, sourceFile))
	switch {
	case err == nil:
		nb.Source = src
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read notebook source: %w", err)
	}
	return nb, nil
}

// List returns every notebook's metadata, newest first, without sources.
func (d *Dir) List() ([]*Notebook, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	var out []*Notebook
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		nb, err := d.readMeta(e.Name())
		if err != nil {
			slog.Warn("skipping unreadable notebook", "component", "store", "id", e.Name(), "err", err)
			continue
		}
		out = append(out, nb)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Updated.After(out[j].Updated)
	})
	return out, nil
}

// Delete removes notebook id.
func (d *Dir) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	dir := filepath.Join(d.root, id)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return os.RemoveAll(dir)
}

func (d *Dir) readMeta(id string) (*Notebook, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(d.root, id, notebookFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("decode notebook %s: %w", id, err)
	}
	for i, rec := range nb.History {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("notebook %s page %d: %w", id, i+1, err)
		}
	}
	return &nb, nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
