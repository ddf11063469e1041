package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/vitrine/internal/models"
)

// File names read by the file source.
const (
	ConfigFile    = "config.json"
	ExpertiseFile = "expertise.json"
)

// File implements Source backed by a local directory holding config.json and
// expertise.json, each a JSON array shaped like the API response.
type File struct {
	root string // absolute path to the content directory
}

// NewFile creates a file source rooted at dir. The directory must exist.
func NewFile(dir string) (*File, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("source: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: root is not a directory: %s", abs)
	}
	return &File{root: abs}, nil
}

// Root returns the absolute content directory.
func (f *File) Root() string { return f.root }

// FetchConfigs implements Source.
func (f *File) FetchConfigs(_ context.Context) ([]models.ConfigRecord, error) {
	data, err := f.read(ConfigFile)
	if err != nil {
		return nil, err
	}
	out, err := decodeList[models.ConfigRecord](ConfigFile, data)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", ConfigFile, err)
	}
	return out, nil
}

// FetchExpertise implements Source.
func (f *File) FetchExpertise(_ context.Context) ([]models.ExpertiseCard, error) {
	data, err := f.read(ExpertiseFile)
	if err != nil {
		return nil, err
	}
	out, err := decodeList[models.ExpertiseCard](ExpertiseFile, data)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", ExpertiseFile, err)
	}
	return out, nil
}

// safePath resolves name against the root and rejects any result that escapes it.
func (f *File) safePath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("source: absolute paths not allowed: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("source: path escapes root: %s", name)
	}
	return abs, nil
}

func (f *File) read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	return data, nil
}
