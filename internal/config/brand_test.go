package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBrandFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brand.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBrandConfig(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		errorMsg    string
		validate    func(*testing.T, *BrandConfig)
	}{
		{
			name: "valid config",
			configYAML: `brand:
  name: "Acme"
  marker: "Acme | "
trends:
  recommendation_rule: "skip politics"
`,
			validate: func(t *testing.T, c *BrandConfig) {
				assert.Equal(t, "Acme", c.Name())
				assert.Equal(t, "Acme | ", c.Marker())
				assert.Equal(t, "skip politics", c.RecommendationRule())
			},
		},
		{
			name:       "name defaults",
			configYAML: "brand:\n  marker: \"X | \"\n",
			validate: func(t *testing.T, c *BrandConfig) {
				assert.Equal(t, DefaultBrandName, c.Name())
			},
		},
		{
			name:        "marker too long",
			configYAML:  "brand:\n  marker: \"" + strings.Repeat("m", 41) + "\"\n",
			expectError: true,
			errorMsg:    "at most 40",
		},
		{
			name:        "multi-line marker",
			configYAML:  "brand:\n  marker: \"a\\nb\"\n",
			expectError: true,
			errorMsg:    "single line",
		},
		{
			name:        "invalid yaml",
			configYAML:  "brand: [unclosed",
			expectError: true,
			errorMsg:    "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadBrandConfig(writeBrandFile(t, tt.configYAML))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			tt.validate(t, config)
		})
	}
}

func TestLoadBrandConfig_MissingFile(t *testing.T) {
	_, err := LoadBrandConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read brand file")
}

func TestLoadBrand(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv("BRAND_CONFIG", "")
		t.Setenv("BRAND_NAME", "")
		t.Setenv("BRAND_MARKER", "")
		require.NoError(t, os.Unsetenv("BRAND_MARKER"))

		c, err := LoadBrand()
		require.NoError(t, err)
		assert.Equal(t, "Nashr", c.Name())
		assert.Empty(t, c.Marker())
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("BRAND_CONFIG", writeBrandFile(t, "brand:\n  name: Acme\n  marker: \"Acme | \"\n"))
		t.Setenv("BRAND_NAME", "")
		t.Setenv("BRAND_MARKER", "")

		c, err := LoadBrand()
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name())
		assert.Empty(t, c.Marker(), "an explicitly empty BRAND_MARKER disables the marker")
	})

	t.Run("marker from env", func(t *testing.T) {
		t.Setenv("BRAND_CONFIG", "")
		t.Setenv("BRAND_NAME", "Nashr")
		t.Setenv("BRAND_MARKER", "Nashr | ")

		c, err := LoadBrand()
		require.NoError(t, err)
		assert.Equal(t, "Nashr | ", c.Marker())
	})
}
