// Package artifact writes rendered output files into the output directory.
package artifact

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write creates dir if needed and replaces dir/name with whatever render
// produces. It returns the path of the written file.
func Write(dir, name string, render func(w io.Writer) error) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
