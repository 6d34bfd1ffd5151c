package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadManifestYAML(t *testing.T) {
	path := writeFile(t, "manifest.yaml", `
RDMC Title: Soil Study
RDMC Metadata:
  Subject: Biology
  Keywords: [soil, nitrogen]
  Contributors:
    - first_name: Ada
      last_name: Lovelace
`)

	raw, err := readManifest(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"RDMC Title": "Soil Study",
		"RDMC Metadata": {
			"Subject": "Biology",
			"Keywords": ["soil", "nitrogen"],
			"Contributors": [{"first_name": "Ada", "last_name": "Lovelace"}]
		}
	}`, string(raw))
}

func TestReadManifestJSON(t *testing.T) {
	raw, err := readManifest(writeFile(t, "manifest.json", `{"title": "x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "x"}`, string(raw))

	_, err = readManifest(writeFile(t, "broken.json", `{"title":`))
	assert.Error(t, err)

	_, err = readManifest(writeFile(t, "list.yml", `- a`))
	assert.Error(t, err)
}
