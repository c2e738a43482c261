package match

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// ChunkSize is the fixed read size of a content scan
const ChunkSize = 1024

// ContentScanner tests file contents for a literal substring, one chunk at a
// time. A scanner owns a single ChunkSize buffer that is reused for every
// read, so memory use does not depend on file size. It is not safe for
// concurrent use; give each goroutine its own scanner.
//
// Chunks are decoded as single-byte text: bytes above 0x7F become '?' and,
// for case-insensitive scans, only ASCII letters are folded. Each chunk is
// tested on its own, so a match that straddles a chunk boundary (or a query
// longer than ChunkSize) is not found. Multi-byte encodings are not
// supported.
type ContentScanner struct {
	buf  []byte
	open OpenFunc
}

// OpenFunc opens a file for sequential reading
type OpenFunc func(path string) (io.ReadCloser, error)

// Option configures a ContentScanner
type Option func(*ContentScanner)

// WithOpener replaces os.Open as the way files are opened
func WithOpener(open OpenFunc) Option {
	return func(s *ContentScanner) {
		if open != nil {
			s.open = open
		}
	}
}

// NewContentScanner allocates a scanner and its chunk buffer
func NewContentScanner(opts ...Option) *ContentScanner {
	s := &ContentScanner{
		buf: make([]byte, ChunkSize),
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContainsText opens path read-only and reports whether any chunk contains
// query. Reading stops at the first hit. A cancelled ctx stops the scan
// before the next chunk and reports (false, nil). Open and read failures are
// returned to the caller.
func (s *ContentScanner) ContainsText(ctx context.Context, path, query string, caseSensitive bool) (bool, error) {
	f, err := s.open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	return s.ContainsReader(ctx, f, query, caseSensitive)
}

// ContainsReader runs the chunked scan over r
func (s *ContentScanner) ContainsReader(ctx context.Context, r io.Reader, query string, caseSensitive bool) (bool, error) {
	if !caseSensitive {
		query = strings.ToLower(query)
	}
	needle := []byte(query)

	for {
		if ctx.Err() != nil {
			return false, nil
		}

		n, err := r.Read(s.buf)
		if n > 0 {
			chunk := s.buf[:n]
			decodeChunk(chunk, caseSensitive)
			if bytes.Contains(chunk, needle) {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// decodeChunk rewrites chunk in place as single-byte text
func decodeChunk(chunk []byte, caseSensitive bool) {
	for i, c := range chunk {
		switch {
		case c > 0x7f:
			chunk[i] = '?'
		case !caseSensitive && c >= 'A' && c <= 'Z':
			chunk[i] = c + ('a' - 'A')
		}
	}
}
