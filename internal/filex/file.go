// Package filex resolves the archive root of a backend and provides the
// small filesystem helpers the sync engine needs on top of go-billy.
package filex

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
)

// TempPrefix starts the names of files being written. The leading dot
// keeps them out of backend listings and existence checks on final names.
const TempPrefix = ".billarchive-"

var (
	userHomeDir = os.UserHomeDir
	chmod       = os.Chmod
)

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// RootDir picks the output directory of a backend. A backend-level dir is
// used as is, a global dir gets the backend name appended, and without
// either the backend name is resolved against the working directory.
func RootDir(backendDir, globalDir, backendName string) (string, error) {
	var dir string
	switch {
	case backendDir != "":
		dir = backendDir
	case globalDir != "":
		dir = filepath.Join(globalDir, backendName)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, backendName)
	}
	return ExpandHome(dir)
}

// EnsureDir creates dir and its parents; an existing directory is fine.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// OSFilesystem creates root if needed and returns a filesystem rooted there.
func OSFilesystem(root string) (billy.Filesystem, error) {
	if _, err := EnsureDir(root); err != nil {
		return nil, err
	}
	return osfs.New(root), nil
}

// MakeReadOnly clears the write permission bits of name. Filesystems that
// do not implement billy.Change are taken to mirror the OS tree under
// their Root.
func MakeReadOnly(fs billy.Filesystem, name string) error {
	info, err := fs.Stat(name)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	mode := info.Mode().Perm() &^ 0o222

	if ch, ok := fs.(billy.Change); ok {
		err = ch.Chmod(name, mode)
	} else {
		err = chmod(filepath.Join(fs.Root(), name), mode)
	}
	if err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	return nil
}

// WriteFile writes data to a temporary file next to name and renames it
// into place, so name either holds all of data or does not exist. The
// temporary file is removed when any step fails.
func WriteFile(fs billy.Filesystem, name string, data []byte, perm os.FileMode) (err error) {
	tmp := path.Join(path.Dir(name), TempPrefix+uuid.NewString())
	f, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = fs.Rename(tmp, name); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name exists in fs.
func Exists(fs billy.Filesystem, name string) (bool, error) {
	_, err := fs.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
}
