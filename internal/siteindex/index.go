// Package siteindex writes a landing page at the root of the merge workspace
// linking to every platform's versioned documentation.
package siteindex

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

// FileName is the landing page written into the merge root.
const FileName = "index.html"

// Entry is one platform row on the landing page.
type Entry struct {
	Platform platform.Platform
	Version  string
}

// Markdown renders the landing page source.
func Markdown(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Platform | Version |\n|---|---|\n")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "unversioned"
		}
		link := path.Join(e.Platform.DirName(), e.Version, "index.html")
		fmt.Fprintf(&b, "| [%s](%s) | %s |\n", e.Platform.DisplayName(), link, version)
	}
	return b.String()
}

// Render converts the landing page to a standalone HTML document.
func Render(title string, entries []Entry) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(title, entries)), &body); err != nil {
		return nil, fmt.Errorf("render index markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// Write renders the landing page into root/index.html.
func Write(root, title string, entries []Entry) (string, error) {
	data, err := Render(title, entries)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, FileName)
	if err := os.WriteFile(target, data, 0o644); err != nil { // #nosec G306 -- published documentation
		return "", fmt.Errorf("write index: %w", err)
	}
	return target, nil
}
