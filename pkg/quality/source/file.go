package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"meridian-data/ceres/pkg/quality/engine"
)

// FileSourceConfig tunes file loading.
type FileSourceConfig struct {
	// Path is the rule file or directory of rule files.
	Path string

	// MaxFileSize caps how large a single rule file may be, in bytes.
	MaxFileSize int64

	// AllowedExtensions lists the file extensions loaded when Path is a
	// directory.
	AllowedExtensions []string

	// SkipHidden skips dot-files and dot-directories during directory
	// walks.
	SkipHidden bool
}

// DefaultFileSourceConfig returns the loading defaults.
func DefaultFileSourceConfig() *FileSourceConfig {
	return &FileSourceConfig{
		MaxFileSize:       1 << 20, // 1 MiB, rule files are small
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// FileSource loads rule definitions from a YAML file or a directory of
// YAML files. Each file carries a quality_rules list; a directory's files
// are concatenated in lexical path order so the rule order is stable
// across loads.
type FileSource struct {
	config *FileSourceConfig
	logger *slog.Logger
}

// NewFileSource builds a file-backed source for the given path.
func NewFileSource(config *FileSourceConfig, logger *slog.Logger) *FileSource {
	if config == nil {
		config = DefaultFileSourceConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{config: config, logger: logger}
}

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	QualityRules []map[string]any `yaml:"quality_rules"`
}

// Load reads the configured path and returns its definitions. Malformed
// rule entries are skipped with a warning; unreadable files are errors.
func (s *FileSource) Load(ctx context.Context) ([]*engine.RuleDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.config.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: s.config.Path, Message: "path not found", Cause: err}
		}
		return nil, &LoadError{Path: s.config.Path, Message: "failed to access path", Cause: err}
	}

	var raw []map[string]any
	if info.IsDir() {
		raw, err = s.loadDirectory(s.config.Path)
	} else {
		raw, err = s.loadFile(s.config.Path)
	}
	if err != nil {
		return nil, err
	}

	defs, skipped := engine.ParseDefinitions(raw, s.logger)
	s.logger.Info("rule definitions loaded",
		"path", s.config.Path,
		"loaded", len(defs),
		"skipped", skipped,
	)
	return defs, nil
}

// loadFile reads and decodes one rule file.
func (s *FileSource) loadFile(path string) ([]map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{Path: path, Message: "not a regular file"}
	}
	if info.Size() > s.config.MaxFileSize {
		return nil, &LoadError{
			Path:    path,
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), s.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{Path: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, &LoadError{Path: path, Message: "YAML parsing failed", Cause: err}
	}
	return rf.QualityRules, nil
}

// loadDirectory concatenates the rule lists of every rule file under dir.
func (s *FileSource) loadDirectory(dir string) ([]map[string]any, error) {
	files, err := s.collectRuleFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: dir, Message: "no rule files found in directory"}
	}

	var raw []map[string]any
	for _, path := range files {
		entries, err := s.loadFile(path)
		if err != nil {
			return nil, err
		}
		raw = append(raw, entries...)
	}
	return raw, nil
}

// collectRuleFiles walks dir and returns matching file paths in lexical
// order, which WalkDir guarantees.
func (s *FileSource) collectRuleFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if s.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !s.hasValidExtension(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

func (s *FileSource) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range s.config.AllowedExtensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
