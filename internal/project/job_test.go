package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DenisPitsul/PackingBlocks/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJob_JSONWithComments(t *testing.T) {
	path := writeFile(t, "shelves.jsonc", `{
  // cabinet back panel
  "container": {"width": 100, "height": 80},
  "blocks": [
    {"label": "a", "width": 40, "height": 40, "quantity": 2},
    {"width": 20, "height": 10}, // quantity defaults to 1
  ],
}`)

	job, err := LoadJob(path)
	require.NoError(t, err)

	assert.Equal(t, "shelves", job.Name, "name defaults to the file name")
	assert.Equal(t, model.Container{Width: 100, Height: 80}, job.Container)
	require.Len(t, job.Blocks, 2)
	assert.Equal(t, 3, job.BlockCount())

	blocks, err := job.Expand()
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, 2, blocks[2].Sequence)
	assert.Equal(t, 20.0, blocks[2].Width)
}

func TestLoadJob_YAML(t *testing.T) {
	path := writeFile(t, "job.yml", `
name: demo
container:
  width: 500
  height: 500
blocks:
  - label: strip
    width: 250
    height: 50
    quantity: 8
`)

	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", job.Name)
	assert.Equal(t, 8, job.BlockCount())
}

func TestLoadJob_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad container", "a.json", `{"container": {"width": 0, "height": 10}, "blocks": []}`},
		{"bad block", "b.yaml", "container: {width: 10, height: 10}\nblocks:\n  - {width: -1, height: 2}\n"},
		{"negative quantity", "c.json", `{"container": {"width": 10, "height": 10}, "blocks": [{"width": 1, "height": 1, "quantity": -2}]}`},
		{"malformed", "d.json", `{"container":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJob(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadJob(writeFile(t, "job.toml", ""))
	assert.True(t, errors.Is(err, ErrUnsupportedJobFormat))

	_, err = LoadJob(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadJob_InvalidDimensionsAreTyped(t *testing.T) {
	_, err := LoadJob(writeFile(t, "a.json", `{"container": {"width": 10, "height": 10}, "blocks": [{"width": 0, "height": 2}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidDimensions))
}

func TestSaveJob_RoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "sample"+ext)
			require.NoError(t, SaveJob(path, SampleJob()))

			loaded, err := LoadJob(path)
			require.NoError(t, err)
			assert.Equal(t, SampleJob(), loaded)
		})
	}

	err := SaveJob(filepath.Join(t.TempDir(), "x.txt"), SampleJob())
	assert.True(t, errors.Is(err, ErrUnsupportedJobFormat))
}

func TestSampleJob(t *testing.T) {
	job := SampleJob()
	require.NoError(t, job.Validate())
	assert.Equal(t, 15, job.BlockCount())

	blocks, err := job.Expand()
	require.NoError(t, err)
	var area float64
	for _, b := range blocks {
		area += b.Area()
	}
	assert.Equal(t, 357500.0, area)
}

func TestIsJobFile(t *testing.T) {
	assert.True(t, IsJobFile("a.JSON"))
	assert.True(t, IsJobFile("dir/a.yml"))
	assert.False(t, IsJobFile("a.csv"))
	assert.False(t, IsJobFile("a"))
}
