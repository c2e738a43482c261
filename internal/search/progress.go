package search

import (
	"sync/atomic"

	"foldersearch/internal/domain"
)

// Progress holds the live counters of a run. The worker writes, any goroutine
// may take a Snapshot.
type Progress struct {
	folders atomic.Int64
	files   atomic.Int64
	current atomic.Pointer[string]
}

// Reset zeroes the counters for a new run
func (p *Progress) Reset() {
	p.folders.Store(0)
	p.files.Store(0)
	empty := ""
	p.current.Store(&empty)
}

func (p *Progress) folderVisited() { p.folders.Add(1) }

func (p *Progress) fileVisited() { p.files.Add(1) }

func (p *Progress) setCurrent(path string) { p.current.Store(&path) }

// Snapshot returns a consistent-enough copy for display
func (p *Progress) Snapshot() domain.ProgressCounters {
	out := domain.ProgressCounters{
		FoldersVisited: int(p.folders.Load()),
		FilesVisited:   int(p.files.Load()),
	}
	if cur := p.current.Load(); cur != nil {
		out.CurrentPath = *cur
	}
	return out
}
