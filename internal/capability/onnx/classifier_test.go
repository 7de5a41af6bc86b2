package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLabels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLabelsArray(t *testing.T) {
	labels, err := loadLabels(writeLabels(t, `["negative","neutral","positive"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"negative", "neutral", "positive"}, labels)
}

func TestLoadLabelsIndexMap(t *testing.T) {
	labels, err := loadLabels(writeLabels(t, `{"1":"neutral","0":"negative","2":"positive"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"negative", "neutral", "positive"}, labels)
}

func TestLoadLabelsInvalid(t *testing.T) {
	_, err := loadLabels(writeLabels(t, `{"first":"negative"}`))
	assert.Error(t, err)

	_, err = loadLabels(writeLabels(t, `{"5":"negative"}`))
	assert.Error(t, err, "sparse indexes are out of range")

	_, err = loadLabels(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSignedScore(t *testing.T) {
	assert.Equal(t, -0.9, signedScore("negative", 0.9))
	assert.Equal(t, 0.0, signedScore("neutral", 0.7))
	assert.Equal(t, 0.8, signedScore("positive", 0.8))
}

func TestLoadRejectsMissingBundle(t *testing.T) {
	_, err := Load("", 0)
	assert.Error(t, err)

	_, err = Load(t.TempDir(), 0)
	assert.Error(t, err, "empty bundle directory has no model.onnx")
}
