// Package export copies matched files out of a search and writes result
// listings for other tools.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"foldersearch/internal/domain"
	"foldersearch/internal/fsinfo"
)

var (
	// ErrDestinationExists is reported for a file that is already present in
	// the destination folder. The existing file is left alone.
	ErrDestinationExists = errors.New("destination file already exists")
	// ErrNotDirectory rejects a destination that is not an existing folder
	ErrNotDirectory = errors.New("destination is not a directory")
)

// CopyToFolder copies every file result into dir under its leaf name.
// Folder results are skipped. A failed file does not stop the others; all
// failures are returned joined. ctx is checked before each file.
func CopyToFolder(ctx context.Context, results []domain.MatchResult, dir string) (int, error) {
	if !fsinfo.IsDirectory(dir) {
		return 0, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	copied := 0
	var errs []error
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if r.Kind == domain.KindFolder {
			continue
		}

		dst := filepath.Join(dir, filepath.Base(r.Path))
		if err := copyFile(r.Path, dst); err != nil {
			errs = append(errs, err)
			continue
		}
		copied++
	}
	return copied, errors.Join(errs...)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Record is one result in a listing. Size is omitted for folders.
type Record struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Name  string `json:"name" yaml:"name"`
	Size  *int64 `json:"size,omitempty" yaml:"size,omitempty"`
	Query string `json:"query" yaml:"query"`
}

// Records converts results to listing records, keeping their order
func Records(results []domain.MatchResult) []Record {
	out := make([]Record, 0, len(results))
	for _, r := range results {
		rec := Record{
			Path:  r.Path,
			Kind:  r.Kind.String(),
			Name:  r.DisplayName,
			Query: r.MatchedQuery,
		}
		if r.HasSize() {
			size := r.SizeBytes
			rec.Size = &size
		}
		out = append(out, rec)
	}
	return out
}

// WriteJSON writes results as an indented JSON array
func WriteJSON(w io.Writer, results []domain.MatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(results)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes results as a YAML sequence
func WriteYAML(w io.Writer, results []domain.MatchResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Records(results)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
