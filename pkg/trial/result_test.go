package trial

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFirstLineFloatParsesBareScalar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result")
	require.NoError(t, os.WriteFile(path, []byte("1.5e-03\n"), 0o644))

	errVal, err := readFirstLineFloat(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.5e-3, errVal, 1e-12)
}

func TestReadFirstLineFloatRejectsNonNumericFirstLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result")
	require.NoError(t, os.WriteFile(path, []byte("not a number\n"), 0o644))

	_, err := readFirstLineFloat(path)
	assert.Error(t, err)
}

func TestAppendResultNeverTruncatesEarlierIterations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calibrate.out")

	require.NoError(t, AppendResult(path, 1, 2.0, []string{"k"}, []string{"1.0"}))
	require.NoError(t, AppendResult(path, 2, 1.0, []string{"k"}, []string{"2.0"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "=== iteration 1 ===")
	assert.Contains(t, content, "=== iteration 2 ===")
}
