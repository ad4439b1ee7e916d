package immutablecheck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	FormatPretty = "pretty"
	FormatPlain  = "plain"

	// SettingsFileName is looked up from the working directory upwards by immutablelint.
	SettingsFileName = ".immutablelint.toml"
)

// Settings configures the analyzer. The same struct is filled from analyzer
// flags, from a TOML settings file and from golangci-lint plugin settings.
type Settings struct {
	// Format is "pretty" for multi-line reports or "plain" for the bare message.
	Format string `toml:"format" json:"format"`
	// MaxDepth bounds how many nested field types are followed from one class.
	MaxDepth int `toml:"max-depth" json:"max-depth"`
	// Jobs is the number of classes validated concurrently per package.
	Jobs int `toml:"jobs" json:"jobs"`
	// Log is a log destination, see SetLogDestination.
	Log string `toml:"log" json:"log"`
}

func DefaultSettings() Settings {
	return Settings{
		Format:   FormatPretty,
		MaxDepth: DefaultMaxDepth,
		Jobs:     1,
	}
}

// withDefaults fills zero values from DefaultSettings. Negative values are
// left for Validate to reject.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Format == "" {
		s.Format = def.Format
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = def.MaxDepth
	}
	if s.Jobs == 0 {
		s.Jobs = def.Jobs
	}
	return s
}

func (s Settings) Validate() error {
	switch s.Format {
	case FormatPretty, FormatPlain:
	default:
		return fmt.Errorf("unknown format %q, want %q or %q", s.Format, FormatPretty, FormatPlain)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative, got %d", s.MaxDepth)
	}
	if s.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", s.Jobs)
	}
	return nil
}

// LoadSettings reads a TOML settings file. Keys missing from the file keep
// their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FindSettingsFile walks from startDir up to the filesystem root looking
// for SettingsFileName.
func FindSettingsFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
