package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

func dirExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func TestBuilder_Rebuild(t *testing.T) {
	out := t.TempDir()
	b := NewBuilder(out)

	versions := map[platform.Platform]string{
		platform.Unity:   "1.0.0",
		platform.Android: "2.0.0",
		platform.IOS:     "3.0.0",
	}
	if err := b.Rebuild(versions); err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}

	for p, v := range versions {
		search := filepath.Join(out, RootName, p.DirName(), v, SearchDirName)
		if !dirExists(t, search) {
			t.Errorf("expected %s to exist", search)
		}
	}
}

func TestBuilder_RebuildTwiceKeepsOnlyLatest(t *testing.T) {
	out := t.TempDir()
	b := NewBuilder(out)

	first := map[platform.Platform]string{platform.Unity: "1.0", platform.Android: "1.0", platform.IOS: "1.0"}
	second := map[platform.Platform]string{platform.Unity: "2.0", platform.Android: "2.1", platform.IOS: "2.2"}

	if err := b.Rebuild(first); err != nil {
		t.Fatalf("first Rebuild() failed: %v", err)
	}
	stale := filepath.Join(b.VersionDir(platform.Unity, "1.0"), "index.html")
	if err := os.WriteFile(stale, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := b.Rebuild(second); err != nil {
		t.Fatalf("second Rebuild() failed: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != RootName {
		t.Fatalf("expected exactly one merge tree, got %v", entries)
	}
	for _, p := range platform.All {
		versionDirs, err := os.ReadDir(b.PlatformDir(p))
		if err != nil {
			t.Fatal(err)
		}
		if len(versionDirs) != 1 || versionDirs[0].Name() != second[p] {
			t.Errorf("%s: expected only version %s, got %v", p, second[p], versionDirs)
		}
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived rebuild: %s", stale)
	}
}

func TestBuilder_EmptyVersion(t *testing.T) {
	b := NewBuilder(t.TempDir())
	if err := b.Rebuild(map[platform.Platform]string{}); err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}
	for _, p := range platform.All {
		if !dirExists(t, filepath.Join(b.PlatformDir(p), SearchDirName)) {
			t.Errorf("%s: search folder missing for empty version", p)
		}
	}
}

func TestBuilder_FailsWhenOutputIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := NewBuilder(file).Rebuild(nil); err == nil {
		t.Fatal("expected error when output directory is a file")
	}
}

func TestNewBuilder_DefaultsToWorkingDir(t *testing.T) {
	if got := NewBuilder("").Root(); got != RootName {
		t.Errorf("Root() = %q, want %q", got, RootName)
	}
}

func TestBuilder_RebuildNestedVersion(t *testing.T) {
	out := t.TempDir()
	b := NewBuilder(out)

	versions := map[platform.Platform]string{
		platform.Unity:   "2024/1.0",
		platform.Android: "2.0.0",
		platform.IOS:     "3.0.0",
	}
	if err := b.Rebuild(versions); err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}

	search := filepath.Join(out, RootName, platform.Unity.DirName(), "2024", "1.0", SearchDirName)
	if !dirExists(t, search) {
		t.Errorf("expected %s to exist", search)
	}
}
