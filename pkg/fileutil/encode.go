package fileutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/envseed/internal/errors"
)

// Format selects how structured content is serialized.
type Format string

const (
	// FormatRaw writes strings and byte slices as-is.
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned by Marshal for an unknown Format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat parses a format name case-insensitively. An empty name
// selects FormatRaw.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatRaw, nil
	case FormatRaw, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

// Marshal encodes v in format f. Encoded output always ends with a newline
// unless it is empty. Raw content must be a string or a byte slice; other
// values are printed with fmt.
func Marshal(f Format, v any) (data []byte, err error) {
	switch f {
	case FormatRaw, "":
		switch c := v.(type) {
		case nil:
			return nil, nil
		case []byte:
			return c, nil
		case string:
			return []byte(c), nil
		default:
			return []byte(fmt.Sprint(c)), nil
		}

	case FormatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "marshaling JSON")
		}

	case FormatYAML:
		// yaml.Marshal panics on some unsupported types
		defer func() {
			if r := recover(); r != nil {
				data, err = nil, errors.Newf("marshaling YAML: %v", r)
			}
		}()
		data, err = yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling YAML")
		}

	case FormatTOML:
		data, err = toml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshaling TOML")
		}

	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", string(f))
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}
