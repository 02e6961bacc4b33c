package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultBrandName labels results when no brand is configured.
const DefaultBrandName = "Nashr"

// maxMarkerRunes keeps the marker from eating into the 280-character X budget.
const maxMarkerRunes = 40

// BrandConfig represents the brand file.
//
//	brand:
//	  name: "Nashr"
//	  marker: "Nashr | "
//	trends:
//	  recommendation_rule: "join only when the trend fits the audience"
type BrandConfig struct {
	Brand struct {
		Name   string `yaml:"name"`
		Marker string `yaml:"marker"`
	} `yaml:"brand"`
	Trends struct {
		RecommendationRule string `yaml:"recommendation_rule"`
	} `yaml:"trends"`
}

// LoadBrandConfig loads brand configuration from a YAML file.
// The path parameter is expected to come from a trusted source (environment or CLI flag).
func LoadBrandConfig(path string) (*BrandConfig, error) {
	// #nosec G304 -- path is provided by trusted source (env or CLI flag), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand file: %w", err)
	}

	var config BrandConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse brand file: %w", err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("brand validation failed: %w", err)
	}

	return &config, nil
}

// LoadBrand resolves the brand from BRAND_CONFIG (if set) and then applies
// BRAND_NAME and BRAND_MARKER on top. With nothing set the marker is empty,
// so posts are returned exactly as the model wrote them.
func LoadBrand() (*BrandConfig, error) {
	config := &BrandConfig{}
	if path := os.Getenv("BRAND_CONFIG"); path != "" {
		loaded, err := LoadBrandConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if name := os.Getenv("BRAND_NAME"); name != "" {
		config.Brand.Name = name
	}
	if marker, ok := os.LookupEnv("BRAND_MARKER"); ok {
		config.Brand.Marker = marker
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("brand validation failed: %w", err)
	}
	return config, nil
}

func (c *BrandConfig) applyDefaults() {
	c.Brand.Name = strings.TrimSpace(c.Brand.Name)
	if c.Brand.Name == "" {
		c.Brand.Name = DefaultBrandName
	}
}

// Validate checks the brand settings.
func (c *BrandConfig) Validate() error {
	if strings.ContainsAny(c.Brand.Marker, "\r\n") {
		return fmt.Errorf("marker must be a single line")
	}
	if n := utf8.RuneCountInString(c.Brand.Marker); n > maxMarkerRunes {
		return fmt.Errorf("marker is %d characters, at most %d allowed", n, maxMarkerRunes)
	}
	return nil
}

// Name returns the brand name used in result labels.
func (c *BrandConfig) Name() string {
	return c.Brand.Name
}

// Marker returns the prefix enforced on every post; empty disables it.
func (c *BrandConfig) Marker() string {
	return c.Brand.Marker
}

// RecommendationRule returns the trend rule passed to strategic prompts.
func (c *BrandConfig) RecommendationRule() string {
	return c.Trends.RecommendationRule
}
