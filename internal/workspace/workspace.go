package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

// RootName is the merge workspace directory created under the output directory.
const RootName = "BFGSDK"

// SearchDirName is the nested folder holding search-index files.
const SearchDirName = "search"

// Builder manages the merge workspace under an output directory.
type Builder struct {
	outputDir string
}

// NewBuilder creates a builder rooted at outputDir. An empty outputDir means the
// working directory.
func NewBuilder(outputDir string) *Builder {
	if outputDir == "" {
		outputDir = "."
	}
	return &Builder{outputDir: outputDir}
}

// Root returns <output>/BFGSDK.
func (b *Builder) Root() string {
	return filepath.Join(b.outputDir, RootName)
}

// PlatformDir returns <root>/<platform>-docs.
func (b *Builder) PlatformDir(p platform.Platform) string {
	return filepath.Join(b.Root(), p.DirName())
}

// VersionDir returns <root>/<platform>-docs/<version>, the stager destination.
func (b *Builder) VersionDir(p platform.Platform, version string) string {
	return filepath.Join(b.PlatformDir(p), version)
}

// Rebuild removes any existing workspace and recreates the tree for the given
// versions. Platforms are created in pipeline order; a platform missing from
// versions gets an empty version, which collapses the version folder onto the
// platform folder. There is no rollback: a failure leaves a partial tree.
func (b *Builder) Rebuild(versions map[platform.Platform]string) error {
	root := b.Root()

	if _, err := os.Stat(root); err == nil {
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("failed to remove merge workspace: %w", err)
		}
		slog.Debug("Removed previous merge workspace", logfields.Path(root))
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("failed to create merge workspace: %w", err)
	}

	for _, p := range platform.All {
		version := versions[p]
		dirs := []string{
			b.PlatformDir(p),
			b.VersionDir(p, version),
			filepath.Join(b.VersionDir(p, version), SearchDirName),
		}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		slog.Debug("Created platform workspace",
			logfields.Platform(string(p)),
			logfields.Version(version),
			logfields.Path(b.VersionDir(p, version)))
	}

	slog.Info("Created merge workspace", logfields.Path(root))
	return nil
}
