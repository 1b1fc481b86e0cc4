package chartspec

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/benchviz/pkg/errors"
)

// DocFormat is the syntax of a specification document.
type DocFormat string

// Supported document syntaxes.
const (
	DocJSON DocFormat = "json"
	DocTOML DocFormat = "toml"
)

// rawSpec mirrors the document layout before option coercion.
type rawSpec struct {
	Type    string         `json:"type" toml:"type"`
	X       string         `json:"x" toml:"x"`
	Y       string         `json:"y" toml:"y"`
	GroupBy string         `json:"groupby" toml:"groupby"`
	Title   string         `json:"title" toml:"title"`
	Format  string         `json:"format" toml:"format"`
	Opts    map[string]any `json:"opts" toml:"opts"`

	// Accepted at top level as fallbacks for the matching opts keys.
	XTimeFormat string `json:"x_time_format" toml:"x_time_format"`
	XTimeUnit   string `json:"x_time_unit" toml:"x_time_unit"`
}

// Load reads a specification document from path. Files with a .toml
// extension are decoded as TOML, everything else as JSON.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "spec not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "read spec %s", path)
	}
	format := DocJSON
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = DocTOML
	}
	return Decode(data, format)
}

// Decode parses a specification document and applies option defaults.
// It does not call [Spec.Validate].
func Decode(data []byte, format DocFormat) (*Spec, error) {
	var raw rawSpec
	switch format {
	case DocTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode TOML spec")
		}
	case DocJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode JSON spec")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown spec document format %q", format)
	}

	spec := &Spec{
		Type:    Type(strings.TrimSpace(raw.Type)),
		X:       raw.X,
		Y:       raw.Y,
		GroupBy: raw.GroupBy,
		Title:   raw.Title,
		Format:  strings.ToLower(strings.TrimSpace(raw.Format)),
		Options: DefaultOptions(),
	}
	if spec.Format == "" {
		spec.Format = DefaultFormat
	}

	unknown, err := applyOptions(&spec.Options, raw.Opts)
	if err != nil {
		return nil, err
	}
	spec.UnknownOptions = unknown

	if spec.Options.XTimeFormat == "" {
		spec.Options.XTimeFormat = strings.ToLower(strings.TrimSpace(raw.XTimeFormat))
	}
	if spec.Options.XTimeUnit == "" {
		spec.Options.XTimeUnit = strings.ToLower(strings.TrimSpace(raw.XTimeUnit))
	}
	return spec, nil
}
