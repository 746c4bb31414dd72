// Package yaml loads ebook2pdf.Config from YAML files with goccy/go-yaml.
package yaml

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fwojciec/ebook2pdf"
	"github.com/goccy/go-yaml"
)

// MaxConfigSize limits the size of a config file.
const MaxConfigSize = 1 << 20

// LoadConfig reads the config file at path. Keys absent from the file keep
// their defaults; unknown keys are rejected. The returned error wraps
// fs.ErrNotExist when the file is missing.
func LoadConfig(path string) (*ebook2pdf.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes data onto the default configuration and validates the
// result.
func ParseConfig(data []byte) (*ebook2pdf.Config, error) {
	if len(data) > MaxConfigSize {
		return nil, ebook2pdf.Errorf(ebook2pdf.EINVALID, "config exceeds %d bytes", MaxConfigSize)
	}

	cfg := ebook2pdf.NewConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, ebook2pdf.WrapError(ebook2pdf.EINVALID, err, "parsing config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
