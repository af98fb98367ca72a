// Package doxyfile reads the release version out of a Doxygen configuration file.
package doxyfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMarker is the Doxyfile key holding the project version.
const DefaultMarker = "PROJECT_NUMBER"

// Extractor scans a line-oriented key=value file for a version marker.
type Extractor struct {
	// Marker is matched as a substring of each line. Empty means DefaultMarker.
	Marker string
}

// ExtractVersion reads path with the default marker.
func ExtractVersion(path string) (string, error) {
	return Extractor{}.Extract(path)
}

// Extract returns the value of the first line containing the marker, with
// surrounding whitespace and all double quotes removed. A file without such a
// line yields "". Failing to open or read the file is an error.
func (e Extractor) Extract(path string) (string, error) {
	marker := e.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open version file: %w", err)
	}
	defer f.Close()

	// Lines have no length limit; Doxyfiles can carry very long INPUT lists.
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read version file: %w", err)
		}
		if strings.Contains(line, marker) {
			parts := strings.Split(strings.TrimRight(line, "\r\n"), "=")
			if len(parts) < 2 {
				return "", nil
			}
			return strings.ReplaceAll(strings.TrimSpace(parts[1]), `"`, ""), nil
		}
		if err != nil {
			return "", nil
		}
	}
}
