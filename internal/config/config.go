// Package config loads the optional .codereview.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"codereview/internal/diag"
	"codereview/internal/discover"
	"codereview/internal/format"
	"codereview/internal/review"
)

// FileName is looked up in the scanned directory and its parents.
const FileName = ".codereview.toml"

type Config struct {
	Scan       ScanConfig       `toml:"scan"`
	Format     FormatConfig     `toml:"format"`
	Classifier ClassifierConfig `toml:"classifier"`
	Naming     NamingConfig     `toml:"naming"`
}

type ScanConfig struct {
	Extensions []string `toml:"extensions"`
	IgnoreFile string   `toml:"ignore_file"`
	Jobs       int      `toml:"jobs"`
}

type FormatConfig struct {
	MaxLineLength int    `toml:"max_line_length"`
	Measure       string `toml:"measure"`
	Indent        bool   `toml:"indent"`
	MixedIndent   bool   `toml:"mixed_indent"`
	IndentWidth   int    `toml:"indent_width"`
	TabWidth      int    `toml:"tab_width"`
	Severity      string `toml:"severity"`
}

type ClassifierConfig struct {
	SkipComments        bool `toml:"skip_comments"`
	SkipUsingDirectives bool `toml:"skip_using_directives"`
	Enumerators         bool `toml:"enumerators"`
}

type NamingConfig struct {
	Severity string `toml:"severity"`
}

// Settings is everything a scan needs, after defaults, file and flags.
type Settings struct {
	Review   review.Options
	Discover discover.Options
	Jobs     int
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		Review: review.DefaultOptions(),
		Discover: discover.Options{
			Extensions: discover.DefaultExtensions(),
			IgnoreFile: discover.DefaultIgnoreFile,
		},
	}
}

// File is a parsed project file.
type File struct {
	Path   string
	Root   string
	Config Config
	meta   toml.MetaData
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
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

// Discover finds and loads the project file for startDir. It returns nil
// without error when there is none.
func Discover(startDir string) (*File, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return Load(path)
}

// Load parses and validates one project file. Unknown keys are errors.
func Load(path string) (*File, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	f := &File{Path: path, Root: filepath.Dir(path), Config: cfg, meta: meta}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f *File) defined(key ...string) bool {
	return f.meta.IsDefined(key...)
}

func (f *File) validate() error {
	c := f.Config
	if f.defined("scan", "extensions") {
		if len(c.Scan.Extensions) == 0 {
			return errors.New("[scan].extensions must not be empty")
		}
		for _, e := range c.Scan.Extensions {
			if strings.TrimSpace(strings.TrimLeft(e, "*.")) == "" {
				return fmt.Errorf("[scan].extensions: invalid entry %q", e)
			}
		}
	}
	if c.Scan.Jobs < 0 {
		return errors.New("[scan].jobs must not be negative")
	}
	if f.defined("format", "max_line_length") && c.Format.MaxLineLength <= 0 {
		return errors.New("[format].max_line_length must be positive")
	}
	if f.defined("format", "indent_width") && c.Format.IndentWidth <= 0 {
		return errors.New("[format].indent_width must be positive")
	}
	if f.defined("format", "tab_width") && c.Format.TabWidth <= 0 {
		return errors.New("[format].tab_width must be positive")
	}
	if _, err := format.ParseMeasure(c.Format.Measure); err != nil {
		return fmt.Errorf("[format].measure: %w", err)
	}
	if f.defined("format", "severity") {
		if _, err := diag.ParseSeverity(c.Format.Severity); err != nil {
			return fmt.Errorf("[format].severity: %w", err)
		}
	}
	if f.defined("naming", "severity") {
		if _, err := diag.ParseSeverity(c.Naming.Severity); err != nil {
			return fmt.Errorf("[naming].severity: %w", err)
		}
	}
	return nil
}

// Apply overrides s with every key the file defines. Keys left out keep
// the value already in s.
func (f *File) Apply(s *Settings) {
	if f == nil || s == nil {
		return
	}
	c := f.Config

	if f.defined("scan", "extensions") {
		s.Discover.Extensions = append([]string(nil), c.Scan.Extensions...)
	}
	if f.defined("scan", "ignore_file") {
		s.Discover.IgnoreFile = c.Scan.IgnoreFile
	}
	if f.defined("scan", "jobs") {
		s.Jobs = c.Scan.Jobs
	}

	fo := &s.Review.Format
	if f.defined("format", "max_line_length") {
		fo.MaxLineLength = c.Format.MaxLineLength
	}
	if f.defined("format", "measure") {
		fo.Measure, _ = format.ParseMeasure(c.Format.Measure)
	}
	if f.defined("format", "indent") {
		fo.Indent = c.Format.Indent
	}
	if f.defined("format", "mixed_indent") {
		fo.MixedIndent = c.Format.MixedIndent
	}
	if f.defined("format", "indent_width") {
		fo.IndentWidth = c.Format.IndentWidth
	}
	if f.defined("format", "tab_width") {
		fo.TabWidth = c.Format.TabWidth
	}
	if f.defined("format", "severity") {
		fo.Severity, _ = diag.ParseSeverity(c.Format.Severity)
	}

	if f.defined("classifier", "skip_comments") {
		s.Review.Classifier.SkipComments = c.Classifier.SkipComments
	}
	if f.defined("classifier", "skip_using_directives") {
		s.Review.Classifier.SkipUsingDirectives = c.Classifier.SkipUsingDirectives
	}
	if f.defined("classifier", "enumerators") {
		s.Review.Classifier.Enumerators = c.Classifier.Enumerators
	}
	if f.defined("naming", "severity") {
		s.Review.NamingSeverity, _ = diag.ParseSeverity(c.Naming.Severity)
	}
}
