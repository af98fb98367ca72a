package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Example returns the locations written by Init.
func Example() Locations {
	return Locations{
		UnitySDK:    "../unity-sdk",
		UnityDocs:   "docs/html",
		AndroidSDK:  "../android-sdk",
		AndroidDocs: "docs/html",
		IOSSDK:      "../ios-sdk",
		IOSDocs:     "docs/html",
	}
}

// Marshal renders locations in the format implied by the file extension.
func Marshal(path string, l Locations) ([]byte, error) {
	values := l.Values()
	doc := document{}
	ptrs := []**string{&doc.UnitySDK, &doc.UnityDocs, &doc.AndroidSDK, &doc.AndroidDocs, &doc.IOSSDK, &doc.IOSDocs}
	for i := range ptrs {
		v := values[i]
		*ptrs[i] = &v
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(yamlDocument{Config: &doc})
	default:
		out, err := xml.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append([]byte(xml.Header), append(out, '\n')...), nil
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
	}
	data, err := Marshal(path, Example())
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
