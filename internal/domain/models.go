package domain

import (
	"fmt"
	"strings"
)

// SearchMode selects which matchers run during a search
type SearchMode int

const (
	ModeFiles SearchMode = iota
	ModeFolders
	ModeFileContents
	ModeAll
)

var modeNames = map[SearchMode]string{
	ModeFiles:        "files",
	ModeFolders:      "folders",
	ModeFileContents: "contents",
	ModeAll:          "all",
}

func (m SearchMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Next cycles Files -> Folders -> Contents -> All -> Files
func (m SearchMode) Next() SearchMode {
	return (m + 1) % (ModeAll + 1)
}

// TestsFolders reports whether folder names are matched in this mode
func (m SearchMode) TestsFolders() bool {
	return m == ModeFolders || m == ModeAll
}

// TestsFileNames reports whether file names are matched in this mode
func (m SearchMode) TestsFileNames() bool {
	return m == ModeFiles || m == ModeAll
}

// TestsContents reports whether file contents are scanned in this mode
func (m SearchMode) TestsContents() bool {
	return m == ModeFileContents || m == ModeAll
}

// VisitsFiles reports whether files are enumerated at all in this mode
func (m SearchMode) VisitsFiles() bool {
	return m.TestsFileNames() || m.TestsContents()
}

// ParseSearchMode parses the config/flag spelling of a mode
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "files", "file", "":
		return ModeFiles, nil
	case "folders", "folder", "dirs":
		return ModeFolders, nil
	case "contents", "content", "filecontents":
		return ModeFileContents, nil
	case "all":
		return ModeAll, nil
	}
	return ModeFiles, fmt.Errorf("unknown search mode %q", s)
}

// MarshalText writes the mode as its name
func (m SearchMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts any spelling ParseSearchMode does
func (m *SearchMode) UnmarshalText(text []byte) error {
	mode, err := ParseSearchMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// SearchRequest is the immutable snapshot a run works from
type SearchRequest struct {
	ID              string // run id, assigned when the run starts
	StartPath       string
	Query           string
	Mode            SearchMode
	CaseSensitive   bool
	Recursive       bool
	IgnoreExtension bool
}

// FileKind tells files and folders apart in results
type FileKind int

const (
	KindFile FileKind = iota
	KindFolder
)

func (k FileKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// NoSize marks results that have no size (folders). It is distinct from zero.
const NoSize int64 = -1

// MatchResult is a confirmed match. Treat it as read-only once created.
type MatchResult struct {
	Path         string
	Kind         FileKind
	DisplayName  string
	SizeBytes    int64 // NoSize for folders
	MatchedQuery string
}

// HasSize reports whether SizeBytes carries a real size
func (r MatchResult) HasSize() bool {
	return r.SizeBytes != NoSize
}

// ProgressCounters is a snapshot of a run's progress
type ProgressCounters struct {
	FoldersVisited int
	FilesVisited   int
	CurrentPath    string
}

// RunState is the lifecycle state of a search run
type RunState int

const (
	RunIdle RunState = iota
	RunRunning
	RunCompleted
	RunCancelled
	RunFailed
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunCancelled:
		return "cancelled"
	case RunFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseRunState is the inverse of RunState.String
func ParseRunState(s string) (RunState, error) {
	for state := RunIdle; state <= RunFailed; state++ {
		if state.String() == s {
			return state, nil
		}
	}
	return RunIdle, fmt.Errorf("unknown run state %q", s)
}

// Terminal reports whether the state ends a run
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunCancelled || s == RunFailed
}
