// Package discover walks a source tree and yields the files a review should
// look at.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/pathrules"
)

// DefaultIgnoreFile is the per-directory exclusion file name.
const DefaultIgnoreFile = ".codereviewignore"

// DefaultExtensions lists the C++ source and header extensions.
func DefaultExtensions() []string {
	return []string{".cpp", ".h", ".hpp", ".inl"}
}

type Options struct {
	// Extensions accepted case-insensitively; "cpp", ".cpp" and "*.cpp" are
	// all understood. Empty means DefaultExtensions.
	Extensions []string
	// IgnoreFile is read in every directory on the path, gitignore style.
	// Empty disables ignore files.
	IgnoreFile string
}

// Walker enumerates candidate files under one root in lexical order.
type Walker struct {
	root   string
	ext    *pathrules.Matcher
	ignore *pathrules.Provider

	mu   sync.Mutex
	errs []error
}

func New(root string, opts Options) (*Walker, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	rules := pathrules.ParseExtensions(exts)
	if len(rules) == 0 {
		return nil, fmt.Errorf("no usable extensions in %q", exts)
	}
	ext, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile extension rules: %w", err)
	}

	w := &Walker{root: root, ext: ext}
	if opts.IgnoreFile != "" {
		w.ignore, err = pathrules.NewProvider(root, pathrules.ProviderOptions{
			RulesFileName: opts.IgnoreFile,
			MatcherOptions: pathrules.MatcherOptions{
				DefaultAction: pathrules.ActionInclude,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("ignore rules: %w", err)
		}
	}
	return w, nil
}

// Root returns the walked directory.
func (w *Walker) Root() string {
	return w.root
}

// Match reports whether path, which must lie under the root, would be
// yielded by Paths. Ignore files are consulted for every directory
// on the way.
func (w *Walker) Match(path string) bool {
	rel, err := w.rel(path)
	if err != nil {
		return false
	}
	return w.matchRel(rel)
}

func (w *Walker) matchRel(rel string) bool {
	if !w.ext.Included(rel, false) {
		return false
	}
	if w.ignore == nil {
		return true
	}
	ok, err := w.ignore.Included(rel, false)
	return err == nil && ok
}

// Paths lazily yields matching files. Directories that cannot be read are
// skipped and recorded; see Err. Iteration stops when ctx is done.
func (w *Walker) Paths(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		w.mu.Lock()
		w.errs = nil
		w.mu.Unlock()
		err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == w.root {
					return err
				}
				w.record(err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if path == w.root {
				return nil
			}
			rel, err := w.rel(path)
			if err != nil {
				w.record(err)
				return nil
			}
			if d.IsDir() {
				if w.ignore != nil {
					ok, err := w.ignore.Included(rel, true)
					if err != nil {
						w.record(err)
					}
					if err == nil && !ok {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if !w.matchRel(rel) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			w.record(err)
		}
	}
}

// Err returns the errors met by the last walk, joined.
func (w *Walker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Join(w.errs...)
}

// Collect walks the whole tree and returns the matching files.
func (w *Walker) Collect(ctx context.Context) ([]string, error) {
	var files []string
	for p := range w.Paths(ctx) {
		files = append(files, p)
	}
	return files, w.Err()
}

func (w *Walker) rel(path string) (string, error) {
	absRoot, err := filepath.Abs(w.root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, w.root)
	}
	return filepath.ToSlash(rel), nil
}

func (w *Walker) record(err error) {
	w.mu.Lock()
	w.errs = append(w.errs, err)
	w.mu.Unlock()
}
