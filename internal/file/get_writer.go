package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// GetWriter resolves where a report goes: the default writer when no file is named, otherwise the named file,
// truncated, with any missing parent directories created. The returned func releases the writer.
func GetWriter(fs afero.Fs, defaultWriter io.Writer, outputFile string) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	path := strings.TrimSpace(outputFile)

	if path == "" {
		return defaultWriter, nop, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, nop, fmt.Errorf("unable to create report directory: %w", err)
		}
	}

	reportFile, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nop, fmt.Errorf("unable to create report file: %w", err)
	}

	return reportFile, reportFile.Close, nil
}
