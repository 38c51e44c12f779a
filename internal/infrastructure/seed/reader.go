// Package seed reads the line-oriented files the synthetic dataset is built
// from: first names, last names and "Name-Description" course lines.
package seed

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Seed file names.
const (
	FirstNamesFile = "first_names.txt"
	LastNamesFile  = "last_names.txt"
	CoursesFile    = "courses.txt"
)

var (
	// ErrSeedNotFound is returned when a seed file does not exist.
	ErrSeedNotFound = errors.New("seed: file not found")

	// ErrSeedName is returned for an empty file name.
	ErrSeedName = errors.New("seed: file name cannot be empty")
)

//go:embed defaults/*.txt
var defaults embed.FS

// Reader reads seed files from a file system.
type Reader struct {
	fsys fs.FS
}

// NewReader reads from dir, or from the embedded defaults when dir is empty.
func NewReader(dir string) *Reader {
	if dir == "" {
		return Defaults()
	}
	return NewReaderFS(os.DirFS(dir))
}

// NewReaderFS reads from an arbitrary file system.
func NewReaderFS(fsys fs.FS) *Reader {
	return &Reader{fsys: fsys}
}

// Defaults returns a reader over the seed files compiled into the binary.
func Defaults() *Reader {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		panic(fmt.Sprintf("seed: embedded defaults: %v", err))
	}
	return NewReaderFS(sub)
}

// Read returns the trimmed, non-blank lines of the named file in file order.
// An empty file yields an empty slice.
func (r *Reader) Read(name string) ([]string, error) {
	if name == "" {
		return nil, ErrSeedName
	}

	f, err := r.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, name)
		}
		return nil, fmt.Errorf("seed: failed to open %s: %w", name, err)
	}
	defer f.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("seed: failed to read %s: %w", name, err)
	}

	return lines, nil
}
