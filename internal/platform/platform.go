// Package platform names the three SDK variants whose documentation is merged.
package platform

import "path/filepath"

// Platform identifies one SDK variant.
type Platform string

const (
	Unity   Platform = "unity"
	Android Platform = "android"
	IOS     Platform = "ios"
)

// All lists the platforms in pipeline order.
var All = []Platform{Unity, Android, IOS}

// DirName is the branch directory under the merge root, e.g. "unity-docs".
func (p Platform) DirName() string {
	return string(p) + "-docs"
}

// DisplayName is the human-readable name used in log banners and summaries.
func (p Platform) DisplayName() string {
	switch p {
	case Unity:
		return "Unity"
	case Android:
		return "Android"
	case IOS:
		return "iOS"
	default:
		return string(p)
	}
}

// Target is one platform's configured locations plus the version discovered for it.
type Target struct {
	Platform Platform
	SDKDir   string
	DocsDir  string
	Version  string
}

// DocsPath resolves DocsDir against SDKDir. Absolute docs paths are returned unchanged.
func (t Target) DocsPath() string {
	if filepath.IsAbs(t.DocsDir) {
		return filepath.Clean(t.DocsDir)
	}
	return filepath.Join(t.SDKDir, t.DocsDir)
}

// DoxyfilePath is the build configuration file holding the version marker.
func (t Target) DoxyfilePath() string {
	return filepath.Join(t.SDKDir, "config", "Doxyfile")
}
