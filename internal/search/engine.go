package search

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"foldersearch/internal/domain"
	"foldersearch/internal/fsinfo"
	"foldersearch/internal/match"
)

// PublishFunc receives every confirmed match of a run, in discovery order
type PublishFunc func(domain.MatchResult)

// Engine walks a directory tree and applies the name and content matchers
// selected by a request's mode. One Engine runs one search at a time.
type Engine struct {
	scanner *match.ContentScanner
	readDir func(string) ([]fs.DirEntry, error)
	logger  hclog.Logger
}

// EngineOption configures an Engine
type EngineOption func(*engineConfig)

type engineConfig struct {
	readDir func(string) ([]fs.DirEntry, error)
	open    match.OpenFunc
}

// WithReadDir replaces os.ReadDir for directory enumeration
func WithReadDir(fn func(string) ([]fs.DirEntry, error)) EngineOption {
	return func(c *engineConfig) { c.readDir = fn }
}

// WithOpener replaces os.Open for content scans
func WithOpener(fn func(string) (io.ReadCloser, error)) EngineOption {
	return func(c *engineConfig) { c.open = fn }
}

// NewEngine creates an engine
func NewEngine(logger hclog.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	cfg := engineConfig{readDir: os.ReadDir}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		scanner: match.NewContentScanner(match.WithOpener(cfg.open)),
		readDir: cfg.readDir,
		logger:  logger,
	}
}

// walk is the per-run state of a traversal
type walk struct {
	e        *Engine
	ctx      context.Context
	req      domain.SearchRequest
	progress *Progress
	publish  PublishFunc
}

// Run executes req to completion, cancellation or the first error.
//
// The walk is depth-first and pre-order over an explicit stack of pending
// folders: a folder's name is tested, then its files, then its subfolders in
// enumeration order. The start folder's own name is never tested. ctx is
// checked before every folder, every file and every content chunk; once it is
// done nothing more is counted or published and Run returns RunCancelled.
//
// Any enumeration or read failure aborts the whole run with RunFailed and a
// *RunError. Items are not skipped: an incomplete result set is reported as a
// failure rather than passed off as complete.
func (e *Engine) Run(ctx context.Context, req domain.SearchRequest, progress *Progress, publish PublishFunc) (domain.RunState, error) {
	w := &walk{e: e, ctx: ctx, req: req, progress: progress, publish: publish}

	var err error
	if req.Recursive {
		err = w.recursive()
	} else {
		err = w.singleLevel()
	}

	switch {
	case err != nil:
		return domain.RunFailed, err
	case ctx.Err() != nil:
		return domain.RunCancelled, nil
	}
	return domain.RunCompleted, nil
}

// stopped reports whether the run has been cancelled
func (w *walk) stopped() bool {
	return w.ctx.Err() != nil
}

func (w *walk) recursive() error {
	// entries pushed in reverse so they pop in enumeration order
	stack := []string{w.req.StartPath}

	for len(stack) > 0 {
		if w.stopped() {
			return nil
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if dir != w.req.StartPath {
			if err := w.visitFolder(dir); err != nil || w.stopped() {
				return err
			}
		}

		folders, files, err := w.list(dir)
		if err != nil {
			return err
		}

		if w.req.Mode.VisitsFiles() {
			for _, file := range files {
				if err := w.visitFile(file); err != nil || w.stopped() {
					return err
				}
			}
		}

		for i := len(folders) - 1; i >= 0; i-- {
			stack = append(stack, folders[i])
		}
	}
	return nil
}

func (w *walk) singleLevel() error {
	folders, files, err := w.list(w.req.StartPath)
	if err != nil {
		return err
	}

	if w.req.Mode.TestsFolders() {
		for _, folder := range folders {
			if err := w.visitFolder(folder); err != nil || w.stopped() {
				return err
			}
		}
	}

	if w.req.Mode.VisitsFiles() {
		for _, file := range files {
			if err := w.visitFile(file); err != nil || w.stopped() {
				return err
			}
		}
	}
	return nil
}

// list enumerates dir once and splits it into subfolders and regular files.
// A symlink to a regular file is listed as a file. Folder symlinks, dangling
// links, devices, pipes and sockets are skipped.
func (w *walk) list(dir string) (folders, files []string, err error) {
	entries, err := w.e.readDir(dir)
	if err != nil {
		return nil, nil, &RunError{Kind: ErrNotFound, Path: dir, Err: err}
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			folders = append(folders, path)
		case entry.Type().IsRegular():
			files = append(files, path)
		case entry.Type()&fs.ModeSymlink != 0:
			if w.linksToFile(path) {
				files = append(files, path)
			}
		default:
			w.e.logger.Trace("skipping non-regular entry", "path", path, "type", entry.Type().String())
		}
	}
	return folders, files, nil
}

func (w *walk) visitFolder(path string) error {
	if w.stopped() {
		return nil
	}
	w.progress.setCurrent(path)

	if w.req.Mode.TestsFolders() && match.MatchFolderName(path, w.req.Query, w.req.CaseSensitive) {
		if err := w.found(path); err != nil || w.stopped() {
			return err
		}
	}

	w.progress.folderVisited()
	return nil
}

func (w *walk) visitFile(path string) error {
	if w.stopped() {
		return nil
	}
	w.progress.setCurrent(path)

	nameMatched := false
	if w.req.Mode.TestsFileNames() {
		nameMatched = match.MatchFileName(path, w.req.Query, w.req.CaseSensitive, w.req.IgnoreExtension)
		if nameMatched {
			if err := w.found(path); err != nil || w.stopped() {
				return err
			}
		}
	}

	// a file found by name is never content-scanned
	if !nameMatched && w.req.Mode.TestsContents() {
		hit, err := w.e.scanner.ContainsText(w.ctx, path, w.req.Query, w.req.CaseSensitive)
		if err != nil {
			return &RunError{Kind: ErrScanIO, Path: path, Err: err}
		}
		if w.stopped() {
			return nil
		}
		if hit {
			if err := w.found(path); err != nil || w.stopped() {
				return err
			}
		}
	}

	w.progress.fileVisited()
	return nil
}

// found builds the result for path and hands it to the publisher
func (w *walk) found(path string) error {
	if w.stopped() {
		return nil
	}
	info, err := fsinfo.Lookup(path)
	if err != nil {
		return &RunError{Kind: ErrNotFound, Path: path, Err: err}
	}

	result := domain.MatchResult{
		Path:         info.Path,
		Kind:         domain.KindFile,
		DisplayName:  info.Name,
		SizeBytes:    info.Size,
		MatchedQuery: w.req.Query,
	}
	if info.IsDir {
		result.Kind = domain.KindFolder
		result.SizeBytes = domain.NoSize
	}

	w.e.logger.Trace("match", "path", result.Path, "kind", result.Kind.String())
	w.publish(result)
	return nil
}

// linksToFile reports whether the symlink at path resolves to a regular file.
// Folder links are never followed so a link cannot lead the walk in a cycle.
func (w *walk) linksToFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		w.e.logger.Trace("skipping dangling link", "path", path, "error", err)
		return false
	}
	if !info.Mode().IsRegular() {
		w.e.logger.Trace("skipping link", "path", path, "target_mode", info.Mode().String())
		return false
	}
	return true
}
