package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDecode_YAML(t *testing.T) {
	p := write(t, "config.yaml", `
event: 24H MOTOS
year: 2025
gates:
  5:
    date: 2025-06-12
    open: "08:00"
  3b:
    stamp: 2025-06-16T22:00:00Z
`)
	var out map[string]any
	require.NoError(t, Decode(p, &out))

	assert.Equal(t, "24H MOTOS", out["event"])
	assert.Equal(t, float64(2025), out["year"])

	gates := out["gates"].(map[string]any)
	assert.Equal(t, map[string]any{"date": "2025-06-12", "open": "08:00"}, gates["5"])
	assert.Equal(t, "2025-06-16T22:00:00Z", gates["3b"].(map[string]any)["stamp"])
}

func TestDecode_JSON(t *testing.T) {
	p := write(t, "todos.JSON", "[\n\t{\"type\": \"portes\"}\n]")

	var out []map[string]string
	require.NoError(t, Decode(p, &out))
	assert.Equal(t, []map[string]string{{"type": "portes"}}, out)
}

func TestDecode_Errors(t *testing.T) {
	var out map[string]any

	err := Decode(filepath.Join(t.TempDir(), "missing.yaml"), &out)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = Decode(write(t, "bad.yaml", "a: [1, 2"), &out)
	assert.ErrorContains(t, err, "bad.yaml")

	err = Decode(write(t, "bad.json", "{"), &out)
	assert.ErrorContains(t, err, "bad.json")
}

func TestJSONCompatible_InterfaceKeys(t *testing.T) {
	in := map[any]any{5: []any{map[any]any{true: "x"}}}
	assert.Equal(t, map[string]any{"5": []any{map[string]any{"true": "x"}}}, jsonCompatible(in))
}

func TestExists(t *testing.T) {
	p := write(t, "a.json", "{}")

	ok, err := Exists(p)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(p + ".nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out", "timetable.json")

	require.NoError(t, WriteAtomic(p, []byte("first"), 0o640))
	require.NoError(t, WriteAtomic(p, []byte("second"), 0o640))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
	}
}
