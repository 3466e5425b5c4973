package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "objects.json", `["apple","clock"]`)
	writeList(t, dir, "gerunds.json", `["running"]`)
	writeList(t, dir, "concepts.json", `["wonder"]`)

	catalog, err := LoadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "clock"}, catalog.Objects)
	assert.Equal(t, []string{"running"}, catalog.Gerunds)
	assert.Equal(t, []string{"wonder"}, catalog.Concepts)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "objects.json", `["apple"]`)

	_, err := LoadCatalog(dir)
	assert.Error(t, err)
}

func TestLoadWordListMalformed(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "objects.json", `{"not":"a list"}`)

	_, err := LoadWordList(filepath.Join(dir, "objects.json"))
	assert.Error(t, err)
}
