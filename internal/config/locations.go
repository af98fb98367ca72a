package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

// FieldNames lists the required configuration fields in load order.
var FieldNames = []string{"UnitySDK", "UnityDocs", "AndroidSDK", "AndroidDocs", "iOSSDK", "iOSDocs"}

// Locations holds the SDK and docs-output paths for every platform.
type Locations struct {
	UnitySDK    string
	UnityDocs   string
	AndroidSDK  string
	AndroidDocs string
	IOSSDK      string
	IOSDocs     string
}

// document is the on-disk shape shared by the XML and YAML formats.
// Pointers distinguish a missing element from an empty one.
type document struct {
	XMLName     xml.Name `xml:"config" yaml:"-"`
	UnitySDK    *string  `xml:"UnitySDK" yaml:"UnitySDK"`
	UnityDocs   *string  `xml:"UnityDocs" yaml:"UnityDocs"`
	AndroidSDK  *string  `xml:"AndroidSDK" yaml:"AndroidSDK"`
	AndroidDocs *string  `xml:"AndroidDocs" yaml:"AndroidDocs"`
	IOSSDK      *string  `xml:"iOSSDK" yaml:"iOSSDK"`
	IOSDocs     *string  `xml:"iOSDocs" yaml:"iOSDocs"`
}

type yamlDocument struct {
	Config *document `yaml:"config"`
}

func (d *document) ordered() []*string {
	return []*string{d.UnitySDK, d.UnityDocs, d.AndroidSDK, d.AndroidDocs, d.IOSSDK, d.IOSDocs}
}

// bracedVar matches ${NAME} references. A bare $NAME is kept literally.
var bracedVar = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandBraced(data []byte) []byte {
	return bracedVar.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(m[2 : len(m)-1])))
	})
}

// Load reads the configuration file and returns its six values in field order.
// On failure it returns the values collected before the first missing field
// together with the error.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := expandBraced(data)

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var wrapper yamlDocument
		if err := yaml.Unmarshal(expanded, &wrapper); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
		if wrapper.Config == nil {
			return nil, fmt.Errorf("%w: config", ErrMissingField)
		}
		doc = *wrapper.Config
	default:
		if err := xml.Unmarshal(expanded, &doc); err != nil {
			return nil, fmt.Errorf("parse xml config: %w", err)
		}
	}

	values := make([]string, 0, len(FieldNames))
	for i, v := range doc.ordered() {
		if v == nil {
			return values, fmt.Errorf("%w: config/%s", ErrMissingField, FieldNames[i])
		}
		values = append(values, strings.TrimSpace(*v))
	}
	return values, nil
}

// LoadLocations is the soft-failing loader used by the pipeline: any failure is
// written to the log as a CONFIGURATION ERROR block and whatever subset was read
// is returned. Callers must treat fewer than six values as fatal.
func LoadLocations(path string, book *logbook.Logbook) []string {
	values, err := Load(path)
	if err != nil {
		book.Diagnostic("CONFIGURATION ERROR",
			"Config values not found in config file",
			fmt.Sprintf("%s: %v", path, err))
	}
	return values
}

// FromValues builds Locations from the loader output.
func FromValues(values []string) (Locations, error) {
	if len(values) < len(FieldNames) {
		return Locations{}, fmt.Errorf("%w: got %d of %d values", ErrIncomplete, len(values), len(FieldNames))
	}
	return Locations{
		UnitySDK:    values[0],
		UnityDocs:   values[1],
		AndroidSDK:  values[2],
		AndroidDocs: values[3],
		IOSSDK:      values[4],
		IOSDocs:     values[5],
	}, nil
}

// Values returns the locations in field order.
func (l Locations) Values() []string {
	return []string{l.UnitySDK, l.UnityDocs, l.AndroidSDK, l.AndroidDocs, l.IOSSDK, l.IOSDocs}
}

// Targets returns one target per platform in pipeline order. Versions are left empty.
func (l Locations) Targets() []platform.Target {
	return []platform.Target{
		{Platform: platform.Unity, SDKDir: l.UnitySDK, DocsDir: l.UnityDocs},
		{Platform: platform.Android, SDKDir: l.AndroidSDK, DocsDir: l.AndroidDocs},
		{Platform: platform.IOS, SDKDir: l.IOSSDK, DocsDir: l.IOSDocs},
	}
}
