package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// Schema reflects the configuration into a JSON Schema document.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:   "json",
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/tabbridge/config.schema.json"
	schema.Title = "tabbridge configuration"
	schema.Description = "Configuration schema for tabbridge, the extension windows API bridge"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes config.schema.json into dir, or into the config
// directory when dir is empty, and returns its path.
func GenerateSchemaFile(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = GetConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to get config directory: %w", err)
		}
	}

	data, err := Schema()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}
	schemaFile := filepath.Join(dir, "config.schema.json")
	if err := os.WriteFile(schemaFile, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return schemaFile, nil
}
