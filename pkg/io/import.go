package io

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema chart documents are validated against.
func Schema() []byte {
	return schemaJSON
}

// Format is the encoding of a chart document.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Read decodes a chart document from r and validates it against the schema.
//
// Unknown keys are rejected in every format. Semantic checks (known display
// modes, colors, label formats) are left to [chart.Document.Validate], which
// [chart.New] runs.
//
// Read does not close r.
func Read(r io.Reader, format Format) (*chart.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc chart.Document
	var docLoader gojsonschema.JSONLoader

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode json")
		}
		docLoader = gojsonschema.NewBytesLoader(data)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode yaml")
		}
		docLoader = gojsonschema.NewGoLoader(doc)
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidChart, "unknown key %q", undecoded[0].String())
		}
		docLoader = gojsonschema.NewGoLoader(doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}

	if err := validateSchema(docLoader); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validateSchema(doc gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidChart, err, "schema validation")
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(errors.ErrCodeInvalidChart, "document does not match schema: %s", strings.Join(msgs, "; "))
}

// Import reads the chart document at path, choosing the format by file
// extension.
func Import(path string) (*chart.Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
