// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/storageindex/indexd/pkg/log"
)

// SizeMode selects how directory sizes are reported. A single listing call
// uses one mode for every child; the modes are never mixed.
type SizeMode int

const (
	// SizeNominal reports NominalDirSize for every child directory.
	SizeNominal SizeMode = iota
	// SizeRecursive sums every descendant byte.
	SizeRecursive
)

// NominalDirSize stands in for a directory's byte count in nominal mode.
const NominalDirSize int64 = 4096

// Descriptor is the one metadata shape for files and folders. It is derived
// from a fresh stat on every call and never cached.
type Descriptor struct {
	Path         string
	Name         string
	Size         int64
	MimeType     string
	LastModified time.Time
	IsDir        bool
	ChildCount   int
}

// Listing is a folder plus its direct children in walk order.
type Listing struct {
	Path     string
	Name     string
	Children []Descriptor
}

// ByteRange is an inclusive, 0-indexed byte window.
type ByteRange struct {
	Start int64
	End   int64
}

// RangeReader streams a file or a window of it. Close releases the
// underlying file handle; callers must always close it, including when the
// transport goes away mid-stream.
type RangeReader struct {
	Reader   io.Reader
	Size     int64
	Total    int64
	MimeType string
	Partial  bool
	Start    int64
	End      int64

	file *os.File
}

func (r *RangeReader) Close() error {
	return r.file.Close()
}

// Item identifies an entry found through its opaque id.
type Item struct {
	ID       string
	Path     string
	Name     string
	Parent   string
	ParentID string
}

// Store performs every filesystem operation inside the sandboxed root and
// translates raw I/O failures into the typed error kinds above.
type Store struct {
	root string
}

// New returns a store rooted at the absolute directory root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureRoot creates the storage root if it does not exist yet.
func (s *Store) EnsureRoot() error {
	return os.MkdirAll(s.root, 0o755)
}

func (s *Store) abs(itemPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(itemPath))
}

func (s *Store) describe(itemPath string, info os.FileInfo) Descriptor {
	name := path.Base(SitePath(itemPath))
	if itemPath == "" {
		name = "Root"
	}
	d := Descriptor{
		Path:         itemPath,
		Name:         name,
		Size:         info.Size(),
		LastModified: info.ModTime(),
		IsDir:        info.IsDir(),
	}
	if !d.IsDir {
		d.MimeType = MimeByName(name)
	}
	return d
}

// Stat returns the descriptor for the entry at itemPath.
func (s *Store) Stat(itemPath string) (Descriptor, error) {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return Descriptor{}, fmt.Errorf("%w: %s", ErrFileNotFound, itemPath)
		}
		return Descriptor{}, fmt.Errorf("stat %s: %w", itemPath, err)
	}
	return s.describe(itemPath, info), nil
}

// ReadAll loads the whole file into memory. Only the whole-buffer response
// path uses it; large seekable media goes through OpenRange.
func (s *Store) ReadAll(itemPath string) ([]byte, error) {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, itemPath)
		}
		return nil, fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, itemPath)
	}
	data, err := os.ReadFile(s.abs(itemPath))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", itemPath, err)
	}
	return data, nil
}

// OpenRange opens the file for streaming. With rng == nil the stream covers
// the whole file; otherwise it covers the inclusive window and Size is the
// window length. The caller owns the returned reader.
func (s *Store) OpenRange(itemPath string, rng *ByteRange) (*RangeReader, error) {
	file, err := os.Open(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, itemPath)
		}
		return nil, fmt.Errorf("open %s: %w", itemPath, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, itemPath)
	}

	total := info.Size()
	mime := MimeByName(path.Base(SitePath(itemPath)))

	if rng == nil {
		return &RangeReader{
			Reader:   file,
			Size:     total,
			Total:    total,
			MimeType: mime,
			Partial:  false,
			Start:    0,
			End:      total - 1,
			file:     file,
		}, nil
	}

	if _, err := file.Seek(rng.Start, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek %s: %w", itemPath, err)
	}
	length := rng.End - rng.Start + 1
	return &RangeReader{
		Reader:   io.LimitReader(file, length),
		Size:     length,
		Total:    total,
		MimeType: mime,
		Partial:  true,
		Start:    rng.Start,
		End:      rng.End,
		file:     file,
	}, nil
}

// ListFolder lists the direct children of a folder. Child directory sizes
// follow mode for every child of this call.
func (s *Store) ListFolder(itemPath string, mode SizeMode) (Listing, error) {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return Listing{}, fmt.Errorf("%w: %s", ErrFolderNotFound, itemPath)
		}
		return Listing{}, fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if !info.IsDir() {
		return Listing{}, fmt.Errorf("%w: %s", ErrNotADirectory, itemPath)
	}

	entries, err := os.ReadDir(s.abs(itemPath))
	if err != nil {
		return Listing{}, fmt.Errorf("read dir %s: %w", itemPath, err)
	}

	listing := Listing{
		Path:     itemPath,
		Name:     path.Base(SitePath(itemPath)),
		Children: make([]Descriptor, 0, len(entries)),
	}
	if itemPath == "" {
		listing.Name = "Root"
	}

	for _, entry := range entries {
		childPath := path.Join(itemPath, entry.Name())
		childInfo, err := entry.Info()
		if err != nil {
			// broken symlinks and entries racing a delete are skipped
			log.Warn("skipping unreadable entry %s: %v", childPath, err)
			continue
		}

		child := s.describe(childPath, childInfo)
		if child.IsDir {
			child.Size = NominalDirSize
			if mode == SizeRecursive {
				size, err := s.FolderSize(childPath, SizeRecursive)
				if err != nil {
					log.Warn("failed to size folder %s: %v", childPath, err)
				} else {
					child.Size = size
				}
			}
			if grandchildren, err := os.ReadDir(s.abs(childPath)); err == nil {
				child.ChildCount = len(grandchildren)
			}
		}
		listing.Children = append(listing.Children, child)
	}

	return listing, nil
}

// FolderSize computes the byte count of an entry. Files report their own
// size. In nominal mode child directories count as NominalDirSize; in
// recursive mode the walk descends the whole subtree sequentially.
func (s *Store) FolderSize(itemPath string, mode SizeMode) (int64, error) {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrFolderNotFound, itemPath)
		}
		return 0, fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	entries, err := os.ReadDir(s.abs(itemPath))
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", itemPath, err)
	}

	var size int64
	for _, entry := range entries {
		childPath := path.Join(itemPath, entry.Name())
		if entry.IsDir() {
			if mode == SizeRecursive {
				childSize, err := s.FolderSize(childPath, SizeRecursive)
				if err != nil {
					return 0, err
				}
				size += childSize
			} else {
				size += NominalDirSize
			}
			continue
		}
		childInfo, err := entry.Info()
		if err != nil {
			continue
		}
		size += childInfo.Size()
	}
	return size, nil
}

// CreateFolder creates the folder and any missing parents.
func (s *Store) CreateFolder(itemPath string) error {
	if err := os.MkdirAll(s.abs(itemPath), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", itemPath, err)
	}
	return nil
}

// WriteFile writes the stream to itemPath, creating parent folders as
// needed.
func (s *Store) WriteFile(itemPath string, content io.Reader) error {
	target := s.abs(itemPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", itemPath, err)
	}

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", itemPath, err)
	}
	if _, err := io.Copy(dst, content); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", itemPath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", itemPath, err)
	}
	return nil
}

// DeleteFile removes a single file.
func (s *Store) DeleteFile(itemPath string) error {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, itemPath)
		}
		return fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, itemPath)
	}
	if err := os.Remove(s.abs(itemPath)); err != nil {
		return fmt.Errorf("remove %s: %w", itemPath, err)
	}
	return nil
}

// DeleteFolder removes a folder. With recursive set, every descendant is
// removed depth-first before the folder entry itself, so a concurrent
// listing never observes the folder gone while children remain. A failure
// partway leaves a partially-deleted subtree; callers may retry.
func (s *Store) DeleteFolder(itemPath string, recursive bool) error {
	info, err := os.Stat(s.abs(itemPath))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, itemPath)
		}
		return fmt.Errorf("stat %s: %w", itemPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, itemPath)
	}

	if recursive {
		entries, err := os.ReadDir(s.abs(itemPath))
		if err != nil {
			return fmt.Errorf("read dir %s: %w", itemPath, err)
		}
		for _, entry := range entries {
			childPath := path.Join(itemPath, entry.Name())
			if entry.IsDir() {
				if err := s.DeleteFolder(childPath, true); err != nil {
					return err
				}
				continue
			}
			if err := os.Remove(s.abs(childPath)); err != nil {
				return fmt.Errorf("remove %s: %w", childPath, err)
			}
		}
	}

	if err := os.Remove(s.abs(itemPath)); err != nil {
		return fmt.Errorf("remove folder %s: %w", itemPath, err)
	}
	return nil
}

// ResolveItem decodes an opaque id and stats the entry it addresses. The
// root's parent is the root itself.
func (s *Store) ResolveItem(id string) (Item, error) {
	itemPath, err := DecodeID(id)
	if err != nil {
		return Item{}, err
	}
	// Ids only ever encode canonical item paths; anything else is forged.
	if clean, err := Resolve("/", itemPath); err != nil || clean != itemPath {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	if _, err := os.Stat(s.abs(itemPath)); err != nil {
		if os.IsNotExist(err) {
			return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemPath)
		}
		return Item{}, fmt.Errorf("stat %s: %w", itemPath, err)
	}

	name := path.Base(SitePath(itemPath))
	if itemPath == "" {
		name = "Root"
	}
	parent := Parent(itemPath)
	return Item{
		ID:       id,
		Path:     itemPath,
		Name:     name,
		Parent:   parent,
		ParentID: EncodeID(parent),
	}, nil
}

// SortChildren orders a listing in place by the given key: "name", "size"
// or "lastModifiedDateTime". The sort is stable, so equal keys keep walk
// order.
func SortChildren(children []Descriptor, key string) {
	switch key {
	case "size":
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Size < children[j].Size
		})
	case "lastModifiedDateTime":
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].LastModified.Before(children[j].LastModified)
		})
	case "name":
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Name < children[j].Name
		})
	}
}
