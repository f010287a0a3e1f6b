package completers

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/atinylittleshell/ghostsh/internal/environment"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// osReadDir is a variable that can be overridden for testing.
var osReadDir = os.ReadDir

// CommandCompleter provides the executable names found on the search path.
// The scan result is cached until PATH changes or, once Watch has been
// called, until a search-path directory changes on disk.
type CommandCompleter struct {
	env    environment.Provider
	logger *zap.Logger

	mu       sync.Mutex
	cacheKey string
	cache    map[string]struct{}
	valid    bool
	watcher  *fsnotify.Watcher
	watching bool
}

// NewCommandCompleter creates a new CommandCompleter.
func NewCommandCompleter(env environment.Provider, logger *zap.Logger) *CommandCompleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandCompleter{
		env:    env,
		logger: logger,
	}
}

// IsPathBasedCommand determines if a command looks like a path rather than a simple command name.
func IsPathBasedCommand(command string) bool {
	return strings.HasPrefix(command, "~") || strings.ContainsRune(command, '/') ||
		strings.ContainsRune(command, filepath.Separator)
}

// Commands returns every executable name on the search path, sorted.
func (c *CommandCompleter) Commands() []string {
	set := c.executables()
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsExecutable reports whether name resolves to an executable regular file,
// either directly when it is a path or through the search path otherwise.
func (c *CommandCompleter) IsExecutable(name string) bool {
	if name == "" {
		return false
	}
	if IsPathBasedCommand(name) {
		return isExecutableFile(c.resolve(name))
	}
	_, ok := c.executables()[name]
	return ok
}

func (c *CommandCompleter) resolve(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return filepath.Join(c.env.HomeDir(), strings.TrimPrefix(path, "~"))
	}
	if filepath.IsAbs(path) {
		return path
	}
	cwd, err := c.env.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}

func (c *CommandCompleter) executables() map[string]struct{} {
	dirs := c.env.SearchPath()
	key := strings.Join(dirs, string(os.PathListSeparator))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.cacheKey == key {
		return c.cache
	}

	c.cache = scanExecutables(dirs, c.logger)
	c.cacheKey = key
	// Without a watcher there is nothing to tell us the cache went stale,
	// so it is only trusted while watching.
	c.valid = c.watching
	if c.watching {
		c.rewatch(dirs)
	}
	return c.cache
}

func scanExecutables(dirs []string, logger *zap.Logger) map[string]struct{} {
	found := make(map[string]struct{})
	for _, dir := range dirs {
		entries, err := osReadDir(dir)
		if err != nil {
			logger.Debug("skipping unreadable search path directory", zap.String("dir", dir), zap.Error(err))
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isExecutableFile(filepath.Join(dir, entry.Name())) {
				found[entry.Name()] = struct{}{}
			}
		}
	}
	return found
}

// isExecutableFile follows symlinks and requires a regular file with at least
// one execute bit set.
func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return isExecutableMode(info.Mode())
}

func isExecutableMode(mode fs.FileMode) bool {
	return mode.IsRegular() && mode.Perm()&0111 != 0
}

// Watch starts watching the search-path directories and invalidates the
// cache whenever one of them changes. If the watcher cannot be created the
// completer keeps rescanning on every request.
func (c *CommandCompleter) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.watcher = watcher
	c.watching = true
	c.valid = false
	c.mu.Unlock()

	go c.watchLoop(watcher)
	return nil
}

func (c *CommandCompleter) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			c.logger.Debug("search path changed", zap.String("event", event.String()))
			c.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("search path watcher error", zap.Error(err))
			c.Invalidate()
		}
	}
}

// rewatch replaces the watched directory set. Callers hold c.mu.
func (c *CommandCompleter) rewatch(dirs []string) {
	for _, dir := range c.watcher.WatchList() {
		_ = c.watcher.Remove(dir)
	}
	for _, dir := range dirs {
		if err := c.watcher.Add(dir); err != nil {
			c.logger.Debug("cannot watch search path directory", zap.String("dir", dir), zap.Error(err))
		}
	}
}

// Invalidate drops the cached scan.
func (c *CommandCompleter) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Close stops the watcher, if any.
func (c *CommandCompleter) Close() error {
	c.mu.Lock()
	watcher := c.watcher
	c.watcher = nil
	c.watching = false
	c.valid = false
	c.mu.Unlock()

	if watcher == nil {
		return nil
	}
	return watcher.Close()
}
