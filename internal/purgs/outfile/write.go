package outfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Path returns where the output for source src goes: index.pug becomes
// index.html for HTML output and index.pug.go for Go output.
func Path(src string, goOutput bool) string {
	if goOutput {
		return src + ".go"
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".html"
}

// WriteGeneratedFile writes src to outPath unless the file already holds
// exactly src. It reports whether the file changed.
func WriteGeneratedFile(outPath string, src []byte) (bool, error) {
	old, err := os.ReadFile(outPath)
	switch {
	case err == nil && bytes.Equal(old, src):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
