package source

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"meridian-hq/lexgate/pkg/statute"
)

// LoaderConfig contains configuration for the catalog loader.
type LoaderConfig struct {
	// MaxFileSize bounds a single catalog file (default: 10 MiB).
	MaxFileSize int64

	// AllowedExtensions lists the catalog file extensions (default: .yaml,
	// .yml).
	AllowedExtensions []string

	// SkipHidden skips dotfiles when walking directories.
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       10 * 1024 * 1024,
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// Loader reads statute catalogs from the filesystem.
type Loader struct {
	config *LoaderConfig
	logger *slog.Logger
}

// NewLoader creates a catalog loader.
func NewLoader(config *LoaderConfig, logger *slog.Logger) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{config: config, logger: logger.With("component", "statute.loader")}
}

// Load reads the catalog at path, which may be a single file or a directory
// of catalog files, and returns the validated statute set. Includes are
// resolved relative to the including file; the relation graph must be
// acyclic and every required statute must be present.
func (l *Loader) Load(path string) (*statute.Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: path, Message: "catalog not found", Cause: err}
		}
		return nil, &LoadError{Path: path, Message: "failed to access catalog", Cause: err}
	}

	var files []string
	if info.IsDir() {
		files, err = l.collectFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, &LoadError{Path: path, Message: "no catalog files found in directory"}
		}
	} else {
		files = []string{path}
	}

	var statutes []*statute.Statute
	loaded := make(map[string]bool)
	for _, file := range files {
		sts, err := l.loadFile(file, loaded)
		if err != nil {
			return nil, err
		}
		statutes = append(statutes, sts...)
	}

	set, err := statute.NewSet(statutes)
	if err != nil {
		return nil, &SchemaError{Path: path, Message: err.Error()}
	}
	if err := validateSet(set, path); err != nil {
		return nil, err
	}

	l.logger.Info("catalog loaded", "path", path, "statutes", set.Len(), "files", len(files))
	return set, nil
}

// loadFile reads one catalog file and its includes. The loaded map breaks
// include cycles; a file is decoded at most once per Load.
func (l *Loader) loadFile(path string, loaded map[string]bool) ([]*statute.Statute, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to resolve path", Cause: err}
	}
	if loaded[abs] {
		return nil, nil
	}
	loaded[abs] = true

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "catalog file not found", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{Path: path, Message: "not a regular file"}
	}
	if info.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			Path:    path,
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{Path: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Path: path, Message: "YAML parsing failed", Cause: err}
	}

	statutes := make([]*statute.Statute, 0, len(doc.Statutes))
	for _, sd := range doc.Statutes {
		st, err := sd.toStatute(path)
		if err != nil {
			return nil, err
		}
		statutes = append(statutes, st)
	}

	for _, inc := range doc.Includes {
		if inc.Path == "" {
			return nil, &SchemaError{Path: path, Message: "include missing path"}
		}
		incPath := inc.Path
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(filepath.Dir(path), incPath)
		}
		included, err := l.loadFile(incPath, loaded)
		if err != nil {
			return nil, err
		}
		statutes = append(statutes, included...)
	}

	return statutes, nil
}

// collectFiles walks a catalog directory and returns the catalog files in
// lexical order.
func (l *Loader) collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if l.hasValidExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to walk directory", Cause: err}
	}
	return files, nil
}

func (l *Loader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range l.config.AllowedExtensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// validateSet checks the cross-statute constraints: an acyclic relation
// graph and satisfied requires lists. Delegation targets may reference ids
// outside the catalog, requires may not.
func validateSet(set *statute.Set, path string) error {
	if err := set.CheckAcyclic(); err != nil {
		return &SchemaError{Path: path, Message: err.Error()}
	}
	for _, st := range set.All() {
		for _, req := range st.Requires {
			if _, ok := set.Statute(req); !ok {
				return &SchemaError{
					Path: path, StatuteID: st.ID,
					Message: fmt.Sprintf("required statute %q not in catalog", req),
				}
			}
		}
	}
	return nil
}
