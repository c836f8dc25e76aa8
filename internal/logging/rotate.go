package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rotateIfNeeded rotates the current log file once it crosses the size
// limit. Must be called with l.mu held.
func (l *Logger) rotateIfNeeded() error {
	if l.file == nil {
		return nil
	}

	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxSize {
		return nil
	}

	l.file.Close()
	if err := shiftBackups(l.filePath, l.maxBackups); err != nil {
		return err
	}
	return l.openFile()
}

// shiftBackups renames base.log -> base.1.log, base.1.log -> base.2.log and
// so on, dropping whatever falls past maxBackups.
func shiftBackups(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	name := strings.TrimSuffix(filepath.Base(basePath), ext)

	backupPath := func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d%s", name, n, ext))
	}

	os.Remove(backupPath(maxBackups))
	for n := maxBackups - 1; n >= 1; n-- {
		src := backupPath(n)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to rotate %s: %w", src, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}
	return nil
}
