package config

import (
	"bytes"

	"github.com/arthur-debert/fanout/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Dump.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Dump renders the merged configuration tree in format.
func (c *Config) Dump(format string) ([]byte, error) {
	raw := c.Raw()

	switch format {
	case FormatTOML, "":
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode toml")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		out, err := yaml.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode yaml")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format %q", format).
			WithDetail("supported", []string{FormatTOML, FormatYAML})
	}
}
