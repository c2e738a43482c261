package search

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foldersearch/internal/domain"
)

func runEngine(t *testing.T, e *Engine, ctx context.Context, req domain.SearchRequest) (domain.RunState, error, *collector, domain.ProgressCounters) {
	t.Helper()
	var p Progress
	p.Reset()
	c := &collector{}
	state, err := e.Run(ctx, req, &p, c.publish)
	return state, err, c, p.Snapshot()
}

func TestEngine_ContentsRecursive(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})

	state, err, c, progress := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "hello",
		Mode:      domain.ModeFileContents,
		Recursive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, state)
	assert.Equal(t, []string{"a.txt"}, rel(t, root, c.paths()))
	assert.Equal(t, 1, progress.FoldersVisited)
	assert.Equal(t, 2, progress.FilesVisited)

	r := c.results[0]
	assert.Equal(t, domain.KindFile, r.Kind)
	assert.Equal(t, "a.txt", r.DisplayName)
	assert.Equal(t, int64(5), r.SizeBytes)
	assert.Equal(t, "hello", r.MatchedQuery)
	assert.True(t, filepath.IsAbs(r.Path))
}

func TestEngine_FoldersModeNeverInspectsFiles(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"HelloDir/x.txt": "hello",
	})

	var opens atomic.Int32
	e := NewEngine(nil, WithOpener(func(path string) (io.ReadCloser, error) {
		opens.Add(1)
		return os.Open(path)
	}))

	state, err, c, progress := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "hello",
		Mode:      domain.ModeFolders,
		Recursive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, state)
	assert.Equal(t, []string{"HelloDir"}, rel(t, root, c.paths()))
	assert.Equal(t, domain.KindFolder, c.results[0].Kind)
	assert.Equal(t, domain.NoSize, c.results[0].SizeBytes)
	assert.False(t, c.results[0].HasSize())
	assert.Equal(t, 0, progress.FilesVisited)
	assert.Equal(t, 1, progress.FoldersVisited)
	assert.Zero(t, opens.Load())
}

func TestEngine_FileNames(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		caseSensitive   bool
		ignoreExtension bool
		want            []string
	}{
		{name: "case-insensitive substring", query: "port", want: []string{"Report.PDF"}},
		{name: "extension part of the name", query: "pdf", want: []string{"Report.PDF"}},
		{name: "extension ignored", query: "pdf", ignoreExtension: true, want: nil},
		{name: "case-sensitive miss", query: "report", caseSensitive: true, want: nil},
		{name: "case-sensitive hit", query: "Rep", caseSensitive: true, want: []string{"Report.PDF"}},
	}

	root := t.TempDir()
	makeTree(t, root, map[string]string{"Report.PDF": "%PDF"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err, c, progress := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
				StartPath:       root,
				Query:           tt.query,
				Mode:            domain.ModeFiles,
				CaseSensitive:   tt.caseSensitive,
				IgnoreExtension: tt.ignoreExtension,
			})
			require.NoError(t, err)
			assert.Equal(t, domain.RunCompleted, state)
			if tt.want == nil {
				assert.Empty(t, c.paths())
			} else {
				assert.Equal(t, tt.want, rel(t, root, c.paths()))
			}
			assert.Equal(t, 1, progress.FilesVisited)
		})
	}
}

func TestEngine_ModeMatrix(t *testing.T) {
	files := map[string]string{
		"notes.txt":         "nothing",
		"body.txt":          "the needle is here",
		"needle.md":         "plain",
		"needle-dir/x.txt":  "x",
		"other/needle.txt":  "x",
		"other/deep.txt":    "needle",
		"other/needle-sub/": "",
	}
	root := t.TempDir()
	makeTree(t, root, files)

	tests := []struct {
		mode      domain.SearchMode
		recursive bool
		want      []string
		folders   int
		files     int
	}{
		{domain.ModeFiles, false, []string{"needle.md"}, 0, 3},
		{domain.ModeFolders, false, []string{"needle-dir"}, 2, 0},
		{domain.ModeFileContents, false, []string{"body.txt"}, 0, 3},
		{domain.ModeAll, false, []string{"needle-dir", "body.txt", "needle.md"}, 2, 3},
		{domain.ModeFiles, true, []string{"needle.md", "other/needle.txt"}, 3, 6},
		{domain.ModeFolders, true, []string{"needle-dir", "other/needle-sub"}, 3, 0},
		{domain.ModeFileContents, true, []string{"body.txt", "other/deep.txt"}, 3, 6},
		{domain.ModeAll, true, []string{"body.txt", "needle.md", "needle-dir", "other/needle.txt", "other/deep.txt", "other/needle-sub"}, 3, 6},
	}

	for _, tt := range tests {
		name := tt.mode.String()
		if tt.recursive {
			name += "/recursive"
		}
		t.Run(name, func(t *testing.T) {
			state, err, c, progress := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
				StartPath: root,
				Query:     "needle",
				Mode:      tt.mode,
				Recursive: tt.recursive,
			})
			require.NoError(t, err)
			assert.Equal(t, domain.RunCompleted, state)
			assert.ElementsMatch(t, tt.want, rel(t, root, c.paths()))
			assert.Equal(t, tt.folders, progress.FoldersVisited, "folders visited")
			assert.Equal(t, tt.files, progress.FilesVisited, "files visited")
		})
	}
}

func TestEngine_AllModeReportsFileOnce(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{"hello.txt": "hello"})

	var opens atomic.Int32
	e := NewEngine(nil, WithOpener(func(path string) (io.ReadCloser, error) {
		opens.Add(1)
		return os.Open(path)
	}))

	_, err, c, progress := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "hello",
		Mode:      domain.ModeAll,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hello.txt"}, rel(t, root, c.paths()))
	assert.Equal(t, 1, progress.FilesVisited)
	assert.Zero(t, opens.Load(), "a name match is not content-scanned")
}

func TestEngine_PreOrder(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"x0.txt":     "",
		"a/x1.txt":   "",
		"a/c/x2.txt": "",
		"b/x3.txt":   "",
	})

	_, err, c, _ := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "x",
		Mode:      domain.ModeFiles,
		Recursive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"x0.txt", "a/x1.txt", "a/c/x2.txt", "b/x3.txt"}, rel(t, root, c.paths()))
}

func TestEngine_Idempotent(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"one/needle.txt":  "",
		"two/three/n.txt": "a needle",
		"needle/":         "",
	})
	req := domain.SearchRequest{StartPath: root, Query: "needle", Mode: domain.ModeAll, Recursive: true}
	e := NewEngine(nil)

	_, err1, first, p1 := runEngine(t, e, context.Background(), req)
	_, err2, second, p2 := runEngine(t, e, context.Background(), req)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, sorted(first.paths()), sorted(second.paths()))
	assert.Equal(t, p1.FoldersVisited, p2.FoldersVisited)
	assert.Equal(t, p1.FilesVisited, p2.FilesVisited)
}

func TestEngine_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	makeTree(t, root, map[string]string{"target.txt": "needle"})
	makeTree(t, outside, map[string]string{
		"report.txt":       "needle",
		"needle-dir/x.txt": "",
		"loop/needle.txt":  "",
	})

	links := map[string]string{
		filepath.Join(outside, "report.txt"): filepath.Join(root, "needle-link"),
		filepath.Join(outside, "needle-dir"): filepath.Join(root, "needle-dir-link"),
		filepath.Join(outside, "gone.txt"):   filepath.Join(root, "needle-dangling"),
		root:                                 filepath.Join(root, "needle-loop"),
	}
	for target, link := range links {
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	state, err, c, progress := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeAll,
		Recursive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, state)
	assert.Equal(t, []string{"needle-link", "target.txt"}, sorted(rel(t, root, c.paths())))
	assert.Equal(t, 2, progress.FilesVisited)
	assert.Zero(t, progress.FoldersVisited, "folder links are not descended into")

	for _, r := range c.results {
		if filepath.Base(r.Path) == "needle-link" {
			assert.Equal(t, domain.KindFile, r.Kind)
			assert.Equal(t, "needle-link", r.DisplayName)
			assert.Equal(t, int64(len("needle")), r.SizeBytes)
		}
	}
}

func TestEngine_FileLinkContentScanned(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	makeTree(t, outside, map[string]string{"data.bin": "has the needle inside"})
	if err := os.Symlink(filepath.Join(outside, "data.bin"), filepath.Join(root, "alias.bin")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err, c, _ := runEngine(t, NewEngine(nil), context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFileContents,
		Recursive: false,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"alias.bin"}, rel(t, root, c.paths()))
}

func TestEngine_AlreadyCancelled(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{"needle.txt": "", "sub/needle.txt": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err, c, progress := runEngine(t, NewEngine(nil), ctx, domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFiles,
		Recursive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCancelled, state)
	assert.Empty(t, c.results)
	assert.Zero(t, progress.FoldersVisited)
	assert.Zero(t, progress.FilesVisited)
}

func TestEngine_NothingPublishedAfterCancel(t *testing.T) {
	root := t.TempDir()
	tree := map[string]string{}
	for _, d := range []string{"a", "b", "c", "d"} {
		for _, f := range []string{"needle1.txt", "needle2.txt"} {
			tree[d+"/"+f] = ""
		}
	}
	makeTree(t, root, tree)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var p Progress
	p.Reset()
	var published []domain.MatchResult
	state, err := NewEngine(nil).Run(ctx, domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFiles,
		Recursive: true,
	}, &p, func(r domain.MatchResult) {
		published = append(published, r)
		cancel()
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCancelled, state)
	assert.Len(t, published, 1)
	assert.Equal(t, 0, p.Snapshot().FilesVisited, "the file whose publication observed the cancel is not counted")
}

// endlessReader cancels the run after a few reads and never reaches EOF
type endlessReader struct {
	reads  int
	after  int
	cancel context.CancelFunc
}

func (r *endlessReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads == r.after {
		r.cancel()
	}
	for i := range p {
		p[i] = 'z'
	}
	return len(p), nil
}

func (r *endlessReader) Close() error { return nil }

func TestEngine_CancelDuringContentScan(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{"big.bin": "", "later.txt": "needle"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &endlessReader{after: 3, cancel: cancel}
	e := NewEngine(nil, WithOpener(func(path string) (io.ReadCloser, error) {
		if strings.HasSuffix(path, "big.bin") {
			return reader, nil
		}
		return os.Open(path)
	}))

	state, err, c, progress := runEngine(t, e, ctx, domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFileContents,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RunCancelled, state)
	assert.Equal(t, 3, reader.reads)
	assert.Empty(t, c.results)
	assert.Zero(t, progress.FilesVisited)
}

func TestEngine_ReadDirFailureAborts(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{
		"a/needle.txt": "",
		"b/needle.txt": "",
	})
	boom := errors.New("permission denied")
	broken := filepath.Join(root, "b")

	e := NewEngine(nil, WithReadDir(func(dir string) ([]fs.DirEntry, error) {
		if dir == broken {
			return nil, boom
		}
		return os.ReadDir(dir)
	}))

	state, err, c, _ := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFiles,
		Recursive: true,
	})

	assert.Equal(t, domain.RunFailed, state)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrNotFound, runErr.Kind)
	assert.Equal(t, broken, runErr.Path)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a/needle.txt"}, rel(t, root, c.paths()), "results before the failure are kept")
}

func TestEngine_StartFolderUnreadable(t *testing.T) {
	e := NewEngine(nil, WithReadDir(func(string) ([]fs.DirEntry, error) {
		return nil, fs.ErrPermission
	}))

	state, err, _, _ := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: t.TempDir(),
		Query:     "x",
		Mode:      domain.ModeFiles,
	})

	assert.Equal(t, domain.RunFailed, state)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestEngine_OpenFailureAborts(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, map[string]string{"locked.txt": "needle"})

	e := NewEngine(nil, WithOpener(func(string) (io.ReadCloser, error) {
		return nil, fs.ErrPermission
	}))

	state, err, c, progress := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFileContents,
	})

	assert.Equal(t, domain.RunFailed, state)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrScanIO, runErr.Kind)
	assert.Equal(t, filepath.Join(root, "locked.txt"), runErr.Path)
	assert.Contains(t, runErr.Message(), "search stopped")
	assert.Empty(t, c.results)
	assert.Zero(t, progress.FilesVisited)
}

func TestEngine_VanishedFileFails(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(nil, WithReadDir(func(string) ([]fs.DirEntry, error) {
		return []fs.DirEntry{fakeEntry{name: "needle.txt"}}, nil
	}))

	state, err, c, _ := runEngine(t, e, context.Background(), domain.SearchRequest{
		StartPath: root,
		Query:     "needle",
		Mode:      domain.ModeFiles,
	})

	assert.Equal(t, domain.RunFailed, state)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, ErrNotFound, runErr.Kind)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, c.results)
}
