package outfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	require.Equal(t, "views/index.html", Path("views/index.pug", false))
	require.Equal(t, "views/index.pug.go", Path("views/index.pug", true))
	require.Equal(t, "a.b.html", Path("a.b.jade", false))
}

func TestWriteGeneratedFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "index.html")

	changed, err := WriteGeneratedFile(out, []byte("<p></p>"))
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = WriteGeneratedFile(out, []byte("<p></p>"))
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = WriteGeneratedFile(out, []byte("<br>"))
	require.NoError(t, err)
	require.True(t, changed)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "<br>", string(b))
}

func TestWriteGeneratedFileMissingDir(t *testing.T) {
	_, err := WriteGeneratedFile(filepath.Join(t.TempDir(), "nope", "x.html"), []byte("x"))
	require.Error(t, err)
}
