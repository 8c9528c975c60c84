package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("title: x\n"), 0o600))
	}
}

func TestRules(t *testing.T) {
	t.Run("Should find matching files recursively", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root,
			"a.yml",
			"b.yml",
			"windows/process/c.yml",
			"linux/d.yml",
			"notes.txt",
			"other.yaml",
			"linux/README.md",
		)

		paths, err := Collect(root, DefaultPattern)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "a.yml"),
			filepath.Join(root, "b.yml"),
			filepath.Join(root, "windows", "process", "c.yml"),
			filepath.Join(root, "linux", "d.yml"),
		}, paths)
	})

	t.Run("Should keep lexical order within a directory", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "c.yml", "a.yml", "b.yml")

		paths, err := Collect(root, "")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.yml"),
			filepath.Join(root, "b.yml"),
			filepath.Join(root, "c.yml"),
		}, paths)
	})

	t.Run("Should skip directories whose names match", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "rules.yml/inner.txt", "real.yml")

		paths, err := Collect(root, DefaultPattern)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "real.yml")}, paths)
	})

	t.Run("Should honour alternate patterns", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "a.yml", "sub/b.yaml", "c.json")

		paths, err := Collect(root, "*.{yml,yaml}")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "a.yml"),
			filepath.Join(root, "sub", "b.yaml"),
		}, paths)
	})

	t.Run("Should not descend into symlinked directories", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "windows/a.yml", "sub/b.yml")
		if err := os.Symlink(filepath.Join(root, "windows"), filepath.Join(root, "alias")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
		require.NoError(t, os.Symlink(root, filepath.Join(root, "sub", "loop")))
		require.NoError(t, os.Symlink(filepath.Join(root, "windows"), filepath.Join(root, "linked.yml")))

		paths, err := Collect(root, DefaultPattern)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "sub", "b.yml"),
			filepath.Join(root, "windows", "a.yml"),
		}, paths)
	})

	t.Run("Should return nothing for an empty tree", func(t *testing.T) {
		paths, err := Collect(t.TempDir(), DefaultPattern)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("Should reject an invalid pattern", func(t *testing.T) {
		_, err := Collect(t.TempDir(), "[")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rule pattern")
	})

	t.Run("Should be restartable", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "a.yml", "sub/b.yml")

		seq := Rules(root, DefaultPattern)
		var first, second []string
		for path, err := range seq {
			require.NoError(t, err)
			first = append(first, path)
		}
		for path, err := range seq {
			require.NoError(t, err)
			second = append(second, path)
		}
		assert.Len(t, first, 2)
		assert.Equal(t, first, second)
	})

	t.Run("Should stop when the consumer breaks", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, "a.yml", "b.yml", "c.yml")

		count := 0
		for _, err := range Rules(root, DefaultPattern) {
			require.NoError(t, err)
			count++
			if count == 1 {
				break
			}
		}
		assert.Equal(t, 1, count)
	})
}
