package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"

	"foldersearch/internal/domain"
	"foldersearch/internal/eventbus"
)

// FileName is the name of the config file in the user's home directory
const FileName = ".foldersearch.toml"

// CurrentVersion is the schema version written by Save
const CurrentVersion = 1

// Config represents the application configuration
type Config struct {
	Version  int             `toml:"version"`
	StartDir string          `toml:"start_dir"`
	Search   SearchDefaults  `toml:"search"`
	UI       UISettings      `toml:"ui"`
	History  HistorySettings `toml:"history"`
	Log      LogSettings     `toml:"log"`
}

// SearchDefaults seed the toggles of every new search
type SearchDefaults struct {
	Mode            domain.SearchMode `toml:"mode"`
	CaseSensitive   bool              `toml:"case_sensitive"`
	Recursive       bool              `toml:"recursive"`
	IgnoreExtension bool              `toml:"ignore_extension"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowSizes        bool `toml:"show_sizes"`
	HighlightMatches bool `toml:"highlight_matches"`
}

// HistorySettings controls the run history database
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Limit   int    `toml:"limit"`
}

// LogSettings controls the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Request builds a search request from the defaults
func (s SearchDefaults) Request(startPath, query string) domain.SearchRequest {
	return domain.SearchRequest{
		StartPath:       startPath,
		Query:           query,
		Mode:            s.Mode,
		CaseSensitive:   s.CaseSensitive,
		Recursive:       s.Recursive,
		IgnoreExtension: s.IgnoreExtension,
	}
}

// DBPath returns the configured history database or the default location
func (h HistorySettings) DBPath() string {
	if h.Path != "" {
		return h.Path
	}
	return filepath.Join(userDir(os.UserConfigDir), "foldersearch", "history.db")
}

// FilePath returns the configured log file or the default location
func (l LogSettings) FilePath() string {
	if l.File != "" {
		return l.File
	}
	return filepath.Join(userDir(os.UserCacheDir), "foldersearch", "foldersearch.log")
}

func userDir(lookup func() (string, error)) string {
	dir, err := lookup()
	if err != nil {
		// Fallback to home directory
		dir, err = os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(dir, ".config")
	}
	return dir
}

// Validate checks values that cannot be fixed up silently
func (c *Config) Validate() error {
	if c.Version > CurrentVersion {
		return fmt.Errorf("config version %d is newer than supported version %d", c.Version, CurrentVersion)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.Log.Level != "" && hclog.LevelFromString(c.Log.Level) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath is ~/.foldersearch.toml, or ./.foldersearch.toml without a home
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, FileName)
}

// NewConfigService creates a config service for path. An empty path selects
// DefaultPath. bus may be nil.
func NewConfigService(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{
		bus:      bus,
		filePath: path,
	}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, or the defaults when there is none
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath writes configuration to path atomically while holding
// path + ".lock"
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", path, err)
	}
	defer lock.Unlock()

	return atomicWrite(path, buf.Bytes())
}

// atomicWrite replaces path through a temp file in the same directory so
// readers never see a partial config
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Version:  CurrentVersion,
		StartDir: homeDir,
		Search: SearchDefaults{
			Mode:            domain.ModeFiles,
			Recursive:       true,
			IgnoreExtension: true,
		},
		UI: UISettings{
			ShowSizes:        true,
			HighlightMatches: true,
		},
		History: HistorySettings{
			Enabled: true,
			Limit:   50,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}
