package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureDir("downloads")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "downloads"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	again, err := EnsureDir("downloads")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "downloads")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err)
}

func TestSaveAs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	dest, err := SaveAs(dir, "../../a1.gp5", []byte("GP5"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a1.gp5"), dest)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("GP5"), got)

	_, err = SaveAs(dir, "a1.gp5", []byte("GP5v2"))
	require.NoError(t, err)
	got, err = os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("GP5v2"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
}

func TestSaveAs_RejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", ".", ".."} {
		_, err := SaveAs(t.TempDir(), name, nil)
		require.Error(t, err, name)
	}
}
