package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alnah/go-titlegen/internal/config"
)

// OverrideFilename is the well-known file name holding the system prompt
// override, looked up in the user config directory.
const OverrideFilename = "prompt.txt"

// OverrideLoader loads the external system prompt override.
// An empty string with a nil error means no override is configured,
// which is a normal state.
type OverrideLoader interface {
	Load() (string, error)
}

// Compile-time interface compliance check.
var _ OverrideLoader = (*FileOverride)(nil)

// FileOverride reads the override from a plain-text file, once per
// process. The loaded value is immutable afterwards and safe to read
// concurrently.
type FileOverride struct {
	path string
	once sync.Once
	text string
	err  error
}

// NewFileOverride creates a loader for the given file path.
func NewFileOverride(path string) *FileOverride {
	return &FileOverride{path: path}
}

// DefaultOverridePath returns the standard override location:
// <config dir>/prompt.txt.
func DefaultOverridePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, OverrideFilename), nil
}

// Load implements OverrideLoader. A missing file or a file that is empty
// after trimming yields ("", nil). Only genuine read failures surface an
// error. The first result is cached for the process lifetime.
func (f *FileOverride) Load() (string, error) {
	f.once.Do(func() {
		data, err := os.ReadFile(f.path) // #nosec G304 -- path is constructed from config dir
		if err != nil {
			if !os.IsNotExist(err) {
				f.err = err
			}
			return
		}
		f.text = strings.TrimSpace(string(data))
	})
	return f.text, f.err
}

// NoOverride is an OverrideLoader that always reports no override.
// Used by tests and by callers that want the built-in instructions only.
type NoOverride struct{}

// Load implements OverrideLoader.
func (NoOverride) Load() (string, error) { return "", nil }

// StaticOverride is an OverrideLoader with a fixed value, for tests.
type StaticOverride string

// Load implements OverrideLoader.
func (s StaticOverride) Load() (string, error) { return string(s), nil }
