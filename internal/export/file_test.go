package export

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("const int NUM_CELLS = 100;"))
	b := Fingerprint([]byte("const int NUM_CELLS = 101;"))

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Fingerprint([]byte("const int NUM_CELLS = 100;")))
	assert.Equal(t, "ef46db3751d8e999", Fingerprint(nil))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.h")

	written, err := WriteFile(path, []byte("first"))
	require.NoError(t, err)
	assert.True(t, written, "new file should be written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	written, err = WriteFile(path, []byte("first"))
	require.NoError(t, err)
	assert.False(t, written, "unchanged content should not be rewritten")

	written, err = WriteFile(path, []byte("second"))
	require.NoError(t, err)
	assert.True(t, written)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.Contains(t, []string{"config.h", LockFileName}, e.Name(), "temporary files should not be left behind")
	}
}

func TestWriteFileConcurrent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payloads := []string{"alpha", "beta", "gamma", "delta"}

	var wg sync.WaitGroup
	errs := make([]error, len(payloads))
	for i, p := range payloads {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			_, errs[i] = WriteFile(path, []byte(p))
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data), "file should hold one complete payload")
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := WriteFile(filepath.Join(blocker, "config.h"), []byte("data"))
	require.Error(t, err)

	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrWrite, ee.ErrorType)
	assert.True(t, ee.IsRetryable())
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "definitions.yaml")

	require.NoError(t, ReplaceFile(path, []byte("parameters: []\n")))
	require.NoError(t, ReplaceFile(path, []byte("parameters: []\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "parameters: []\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the target file should remain")
	assert.Equal(t, "definitions.yaml", entries[0].Name())
	assert.NoFileExists(t, filepath.Join(dir, LockFileName))

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err = ReplaceFile(filepath.Join(blocker, "config.yaml"), []byte("data"))
	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrWrite, ee.ErrorType)
}

func TestSessionSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.rs")

	s := NewSession(defaultTable(), DefaultOptions())

	_, err := s.Save(path)
	require.Error(t, err, "saving before rendering should fail")

	s.Select("num_cells", nil)
	text, err := s.Render(FormatRust)
	require.NoError(t, err)
	assert.Equal(t, "pub const NUM_CELLS: i32 = 100;", text)
	assert.Equal(t, 1, s.Table().Len())

	changed, err := s.Save(path)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Save(path)
	require.NoError(t, err)
	assert.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))

	// Select always starts from the full table
	s.Select("box.*", nil)
	assert.Equal(t, []string{"width", "height"}, s.Table().Names())
	s.Select("", nil)
	assert.Equal(t, 7, s.Table().Len())
}

func TestSessionSaveErrorCarriesFormat(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewSession(defaultTable(), DefaultOptions())
	_, err := s.Render(FormatYAML)
	require.NoError(t, err)

	_, err = s.Save(filepath.Join(blocker, "config.yaml"))
	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, FormatYAML, ee.Format)
}
