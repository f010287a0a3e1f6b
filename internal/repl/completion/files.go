package completion

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// listEntries returns the directory entries token can complete to. A token
// without a separator lists the working directory; otherwise the directory
// part of the token is listed and kept as the candidates' prefix. Directories
// end with a separator. Hidden entries are only offered when the name being
// typed starts with ".".
func (e *Engine) listEntries(token string, dirsOnly bool) []string {
	cwd, err := e.env.Getwd()
	if err != nil {
		e.logger.Warn("cannot determine working directory for completion", zap.Error(err))
		return nil
	}

	dirPart, namePart := splitPathToken(token)
	searchDir := cwd
	if dirPart != "" {
		searchDir = e.resolveDir(cwd, dirPart)
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		e.logger.Debug("cannot list directory for completion", zap.String("dir", searchDir), zap.Error(err))
		return nil
	}

	showHidden := strings.HasPrefix(namePart, ".")
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !showHidden {
			continue
		}

		isDir := entry.IsDir()
		if !isDir && entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(searchDir, name)); err == nil {
				isDir = info.IsDir()
			}
		}

		switch {
		case isDir:
			out = append(out, dirPart+name+string(filepath.Separator))
		case !dirsOnly:
			out = append(out, dirPart+name)
		}
	}
	return out
}

// splitPathToken splits "src/ma" into "src/" and "ma".
func splitPathToken(token string) (string, string) {
	idx := strings.LastIndexAny(token, "/"+string(filepath.Separator))
	if idx < 0 {
		return "", token
	}
	return token[:idx+1], token[idx+1:]
}

func (e *Engine) resolveDir(cwd, dir string) string {
	if strings.HasPrefix(dir, "~/") {
		return filepath.Join(e.env.HomeDir(), dir[2:])
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(cwd, dir)
}
