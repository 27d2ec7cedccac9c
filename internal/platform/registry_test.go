package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryDefaults(t *testing.T) {
	registry, err := NewRegistry("")
	require.NoError(t, err)

	for _, code := range []string{"yemeksepeti", "getir", "trendyol"} {
		p, ok := registry.Get(code)
		require.True(t, ok, "missing default profile %s", code)
		assert.NotEmpty(t, p.Tone)
		assert.Greater(t, p.MaxLength, 0)
		assert.NotEmpty(t, p.RequiredElements)
		assert.NotEmpty(t, p.EvidenceWeights)
		assert.Greater(t, p.SuccessRate, 0.0)
	}

	assert.Len(t, registry.Codes(), 3)
}

func TestRegistryGetCaseInsensitive(t *testing.T) {
	registry, err := NewRegistry("")
	require.NoError(t, err)

	p, ok := registry.Get("GETIR")
	require.True(t, ok)
	assert.Equal(t, "getir", p.Code)

	_, ok = registry.Get("unknown")
	assert.False(t, ok)
}

func TestNewRegistryFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platforms.yaml")
	content := `platforms:
  - code: acme
    name: Acme Eats
    tone: casual
    max_length: 1200
    required_elements:
      - order_reference
    evidence_weights:
      photos: 0.9
    response_sla_hours: 12
    success_rate: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := NewRegistry(path)
	require.NoError(t, err)

	p, ok := registry.Get("acme")
	require.True(t, ok)
	assert.Equal(t, "Acme Eats", p.Name)
	assert.Equal(t, 1200, p.MaxLength)
	assert.Equal(t, 0.9, p.EvidenceWeights["photos"])
	assert.Equal(t, 12, p.ResponseSLAHours)
}

func TestNewRegistryRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := NewRegistry(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("platforms: []\n"), 0o644))
	_, err = NewRegistry(empty)
	assert.Error(t, err)

	noCode := filepath.Join(dir, "nocode.yaml")
	require.NoError(t, os.WriteFile(noCode, []byte("platforms:\n  - name: X\n"), 0o644))
	_, err = NewRegistry(noCode)
	assert.Error(t, err)
}
