package group

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sanitize replaces every non alphanumeric character of value with '_'.
func Sanitize(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, value)
}

// FileName returns the export file name for a key and value.
func FileName(key, value string) string {
	return fmt.Sprintf("%s_%s.txt", key, Sanitize(value))
}

// Export writes the partition below root as root/<key>/<key>_<value>.txt.
// root must exist; the key directories must not. Values that sanitize to the
// same file name are appended to that file in first-seen order.
func (p *Partition) Export(root string) error {
	for _, key := range p.Keys() {
		dir := filepath.Join(root, key)
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("create group directory: %w", err)
		}
		b := p.buckets[key]
		for _, value := range b.order {
			if err := appendLines(filepath.Join(dir, FileName(key, value)), b.lines[value]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportTemp exports the partition into a new temporary directory created
// under parent (the system default when empty) and returns its path. The
// directory is left in place for the caller to remove.
func (p *Partition) ExportTemp(parent string) (string, error) {
	dir, err := os.MkdirTemp(parent, "logsmart-")
	if err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := p.Export(dir); err != nil {
		return dir, err
	}
	return dir, nil
}

func appendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
