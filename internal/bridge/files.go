package bridge

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/Guliveer/vitalis/probe/internal/models"
)

// ReadFileContent returns the full text of the file at path. Any failure is
// reported as ACCESS_DENIED.
func ReadFileContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newError(CodeAccessDenied, "Could not read file '%s'. Reason: %v", path, err)
	}
	return string(data), nil
}

// ListDirectory returns the children of path sorted by name, with the
// caller's access rights to each. A path that exists but is not a directory
// is NOT_A_DIRECTORY; every other failure is ACCESS_DENIED.
func ListDirectory(path string) ([]models.FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newError(CodeAccessDenied, "Could not list directory '%s'. Reason: %v", path, err)
	}
	if !info.IsDir() {
		return nil, newError(CodeNotADirectory, "Path '%s' is not a directory or an I/O error occurred.", path)
	}

	// os.ReadDir sorts by filename.
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, newError(CodeAccessDenied, "Could not list directory '%s'. Reason: %v", path, err)
	}

	return lo.Map(entries, func(e fs.DirEntry, _ int) models.FileEntry {
		full := filepath.Join(path, e.Name())
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			if target, err := os.Stat(full); err == nil {
				isDir = target.IsDir()
			}
		}
		r, w, x := accessRights(full)
		return models.FileEntry{
			Name:        e.Name(),
			Path:        full,
			IsDirectory: isDir,
			CanRead:     r,
			CanWrite:    w,
			CanExecute:  x,
		}
	}), nil
}
