// Package hostsfile reads and writes the hosts file as a list of lines.
package hostsfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"
)

const (
	backupSuffix = ".bak"
	defaultMode  = 0o644
)

var (
	// ErrPermission marks failures caused by missing privileges.
	ErrPermission = errors.New("insufficient permissions")
	// ErrFile marks every other read or write failure.
	ErrFile = errors.New("hosts file error")
)

// Store persists hosts file lines.
type Store interface {
	Read() ([]string, error)
	Write(lines []string) error
}

// File is a Store backed by a file on an afero filesystem.
type File struct {
	fs     afero.Fs
	path   string
	backup bool
	crlf   bool
}

// NewFile returns a File store for path. A nil fs uses the OS filesystem.
func NewFile(fsys afero.Fs, path string, backup bool) *File {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &File{fs: fsys, path: path, backup: backup}
}

// Path returns the location of the hosts file.
func (f *File) Path() string {
	return f.path
}

// Read returns the file content split into lines, without line terminators.
func (f *File) Read() ([]string, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, f.wrap("read", err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	f.crlf = strings.Contains(text, "\r\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// Write replaces the file content with lines, copying the previous content
// to <path>.bak first when backups are enabled.
func (f *File) Write(lines []string) error {
	mode := fs.FileMode(defaultMode)
	if info, err := f.fs.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	if f.backup {
		if err := f.copyToBackup(mode); err != nil {
			return err
		}
	}

	newline := "\n"
	if f.crlf {
		newline = "\r\n"
	}
	text := strings.Join(lines, newline) + newline
	if err := afero.WriteFile(f.fs, f.path, []byte(text), mode); err != nil {
		return f.wrap("write", err)
	}
	return nil
}

func (f *File) copyToBackup(mode fs.FileMode) error {
	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return f.wrap("backup", err)
	}
	if err := afero.WriteFile(f.fs, f.path+backupSuffix, data, mode); err != nil {
		return f.wrap("backup", err)
	}
	return nil
}

func (f *File) wrap(op string, err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%s %s: %w: %w", op, f.path, ErrPermission, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, f.path, ErrFile, err)
}
