package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"

	"github.com/srikantharun/bazel-ide-toolkit/logging"
)

// BuildFilePatterns are the workspace-relative globs whose create, modify,
// and delete events feed the debouncer.
var BuildFilePatterns = []string{
	"**/BUILD",
	"**/BUILD.bazel",
	"**/*.bzl",
	"**/*.bazel",
	"**/WORKSPACE",
	"**/WORKSPACE.bazel",
	"**/MODULE.bazel",
	"**/MODULE.bazel.lock",
}

// Watcher subscribes to file-system events under a Bazel workspace and
// forwards build file changes to a single onSignal callback. Every event
// type (create, write, rename, remove) produces the same signal.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	matcher  *patternmatcher.PatternMatcher
	onSignal func()
	logger   *logrus.Entry
}

// NewWatcher creates a recursive watcher rooted at the workspace root.
// Bazel output trees (bazel-* convenience symlinks) and VCS metadata are
// excluded.
func NewWatcher(root string, onSignal func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	matcher, err := patternmatcher.New(BuildFilePatterns)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		root:     root,
		matcher:  matcher,
		onSignal: onSignal,
		logger:   logging.NewLogger("watcher"),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addRecursive registers dir and every non-excluded directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories can vanish mid-walk during builds.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.WithError(err).Debugf("Failed to watch %s", path)
		}
		return nil
	})
}

// excluded reports whether a directory should not be watched.
func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)
	if base == ".git" {
		return true
	}
	// bazel-bin, bazel-out, bazel-<workspace> symlinks at the root
	if strings.HasPrefix(base, "bazel-") {
		if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
			return true
		}
	}
	return false
}

// isBuildFile matches a path against the build file globs, workspace
// relative.
func (w *Watcher) isBuildFile(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	matched, err := w.matcher.MatchesOrParentMatches(filepath.ToSlash(rel))
	if err != nil {
		return false
	}
	return matched
}

// Start processes events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

	// Newly created directories must be added to the watch so nested
	// BUILD files are seen.
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if !w.excluded(event.Name) {
				_ = w.addRecursive(event.Name)
			}
			return
		}
	}

	if !w.isBuildFile(event.Name) {
		return
	}

	w.logger.Infof("Detected change: %s", filepath.Base(event.Name))
	w.onSignal()
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
