package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames lists the configuration files Find looks for, in priority order.
var FileNames = []string{
	"appbuild.jsonc",
	"appbuild.json",
	"appbuild.yaml",
	"appbuild.yml",
	"appbuild.hcl",
}

// Find searches dir for the first existing file from FileNames.
// It returns false when none exists, which means "use Default()".
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads a configuration file and overlays it onto Default().
// Fields left empty in the file keep their default value.
//
// The format is chosen by extension:
//   - .json, .jsonc: JSON with comments and trailing commas
//   - .yaml, .yml:   YAML
//   - .hcl:          HCL attributes at the top level
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrapf(err, "failed to read config %s", path)
	}

	var file Layout
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		err = decodeJSONC(data, &file)
	case ".yaml", ".yml":
		err = decodeYAML(data, &file)
	case ".hcl":
		err = decodeHCL(data, path, &file)
	default:
		return Layout{}, fmt.Errorf("unsupported config format %q for %s (valid: .json, .jsonc, .yaml, .yml, .hcl)", ext, path)
	}
	if err != nil {
		return Layout{}, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return Default().Merge(file), nil
}

// decodeJSONC strips comments and trailing commas before handing the
// bytes to encoding/json. Unknown keys are rejected to catch typos.
// An empty file decodes to io.EOF and means "no overrides".
func decodeJSONC(data []byte, out *Layout) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeYAML(data []byte, out *Layout) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to io.EOF, meaning "no overrides".
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeHCL(data []byte, filename string, out *Layout) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return diags
	}
	if diags := gohcl.DecodeBody(file.Body, nil, out); diags.HasErrors() {
		return diags
	}
	return nil
}
