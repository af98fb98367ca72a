package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/foundation/errors"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logbook"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/platform"
)

const generateScript = `#!/bin/sh
mkdir -p docs/search
echo "<html>%[1]s</html>" > docs/index.html
echo "var x;" > docs/search/all_0.js
echo "generated %[1]s"
`

type sdkFixture struct {
	name    string
	version string
	script  string
	noFile  bool
}

func writeSDK(t *testing.T, root string, f sdkFixture) string {
	t.Helper()
	dir := filepath.Join(root, f.name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	if !f.noFile {
		doxy := fmt.Sprintf("PROJECT_NAME = %s\nPROJECT_NUMBER = \"%s\"\n", f.name, f.version)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "Doxyfile"), []byte(doxy), 0o644))
	}
	if f.script != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "generate_docs.sh"), []byte(f.script), 0o755))
	}
	return dir
}

func writeConfig(t *testing.T, path string, values ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("<config>\n")
	names := []string{"UnitySDK", "UnityDocs", "AndroidSDK", "AndroidDocs", "iOSSDK", "iOSDocs"}
	for i, v := range values {
		fmt.Fprintf(&b, "  <%s>%s</%s>\n", names[i], v, names[i])
	}
	b.WriteString("</config>\n")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

type env struct {
	root     string
	out      string
	config   string
	book     *logbook.Logbook
	sdks     map[platform.Platform]string
	fixtures map[platform.Platform]sdkFixture
}

func newEnv(t *testing.T, fixtures map[platform.Platform]sdkFixture) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("generation scripts need a POSIX shell")
	}
	root := t.TempDir()
	e := &env{
		root:     root,
		out:      filepath.Join(root, "out"),
		config:   filepath.Join(root, "config.xml"),
		sdks:     make(map[platform.Platform]string),
		fixtures: fixtures,
	}
	require.NoError(t, os.MkdirAll(e.out, 0o755))
	var values []string
	for _, p := range platform.All {
		dir := writeSDK(t, root, fixtures[p])
		e.sdks[p] = dir
		values = append(values, dir, "docs")
	}
	writeConfig(t, e.config, values...)
	book, err := logbook.New(filepath.Join(root, logbook.DefaultFileName))
	require.NoError(t, err)
	e.book = book
	return e
}

func (e *env) logText(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.book.Path())
	require.NoError(t, err)
	return string(data)
}

func defaultFixtures() map[platform.Platform]sdkFixture {
	return map[platform.Platform]sdkFixture{
		platform.Unity:   {name: "unity-sdk", version: "1.4.0", script: fmt.Sprintf(generateScript, "unity")},
		platform.Android: {name: "android-sdk", version: "2.0.1", script: fmt.Sprintf(generateScript, "android")},
		platform.IOS:     {name: "ios-sdk", version: "3.3", script: fmt.Sprintf(generateScript, "ios")},
	}
}

type recordingStore struct {
	history.NoopStore
	runs []history.Run
}

func (s *recordingStore) Record(_ context.Context, run history.Run) error {
	s.runs = append(s.runs, run)
	return nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.RunOutcome
	staged   map[string]int
}

func (r *countingRecorder) IncRunOutcome(o metrics.RunOutcome) { r.outcomes = append(r.outcomes, o) }
func (r *countingRecorder) AddFilesStaged(p string, n int) {
	if r.staged == nil {
		r.staged = make(map[string]int)
	}
	r.staged[p] += n
}

func TestRun_StagesAllPlatforms(t *testing.T) {
	e := newEnv(t, defaultFixtures())
	store := &recordingStore{}
	rec := &countingRecorder{}

	p := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out, WriteIndex: true},
		WithHistory(store), WithRecorder(rec))
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, metrics.OutcomeSuccess, report.Outcome)
	assert.False(t, report.Degraded())
	assert.NoError(t, report.GenerateErr())

	for _, pl := range platform.All {
		f := e.fixtures[pl]
		dst := filepath.Join(e.out, "BFGSDK", pl.DirName(), f.version)
		assert.FileExists(t, filepath.Join(dst, "index.html"))
		assert.FileExists(t, filepath.Join(dst, "search", "all_0.js"))
	}

	log := e.logText(t)
	assert.Contains(t, log, "generated unity\n\n")
	assert.Contains(t, log, "generated android\n\n")
	assert.Contains(t, log, "generated ios\n\n")
	assert.Less(t, strings.Index(log, "generated unity"), strings.Index(log, "generated android"))
	assert.Less(t, strings.Index(log, "generated android"), strings.Index(log, "generated ios"))

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, report.Run.ID, run.ID)
	assert.Equal(t, "success", run.Outcome)
	require.Len(t, run.Platforms, 3)
	assert.Equal(t, "unity", run.Platforms[0].Platform)
	assert.Equal(t, "1.4.0", run.Platforms[0].Version)
	assert.Equal(t, 2, run.Platforms[0].FilesCopied)
	assert.True(t, run.Platforms[0].ScriptRan)

	assert.Equal(t, []metrics.RunOutcome{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 2, rec.staged["ios"])

	assert.Equal(t, filepath.Join(e.out, "BFGSDK", "index.html"), report.IndexPath)
	assert.FileExists(t, report.IndexPath)
}

func TestRun_IncompleteConfigTouchesNothing(t *testing.T) {
	e := newEnv(t, defaultFixtures())
	writeConfig(t, e.config, e.sdks[platform.Unity], "docs", e.sdks[platform.Android])

	report, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Equal(t, metrics.OutcomeAborted, report.Outcome)
	assert.Empty(t, report.Run.Platforms)

	assert.NoDirExists(t, filepath.Join(e.out, "BFGSDK"))
	assert.NoDirExists(t, filepath.Join(e.sdks[platform.Unity], "docs"))

	log := e.logText(t)
	assert.Contains(t, log, "CONFIGURATION ERROR")
	assert.Contains(t, log, "Config values not found in config file")
}

func TestRun_MissingConfigFile(t *testing.T) {
	e := newEnv(t, defaultFixtures())
	require.NoError(t, os.Remove(e.config))

	_, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
	assert.NoDirExists(t, filepath.Join(e.out, "BFGSDK"))
	assert.Contains(t, e.logText(t), "CONFIGURATION ERROR")
}

func TestRun_ScriptFailureContinues(t *testing.T) {
	fixtures := defaultFixtures()
	android := fixtures[platform.Android]
	android.script = "#!/bin/sh\necho broken\necho oops >&2\nexit 3\n"
	fixtures[platform.Android] = android
	e := newEnv(t, fixtures)

	report, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, metrics.OutcomeWarning, report.Outcome)
	require.Len(t, report.GenerateErrs, 1)
	gerr := report.GenerateErr()
	require.Error(t, gerr)
	assert.Equal(t, errors.CategoryGenerate, errors.GetCategory(gerr))

	rows := report.Run.Platforms
	assert.Equal(t, StatusOK, rows[0].Status)
	assert.Equal(t, StatusGenerateFailed, rows[1].Status)
	assert.Equal(t, 3, rows[1].ExitCode)
	assert.Equal(t, StatusOK, rows[2].Status)

	assert.FileExists(t, filepath.Join(e.out, "BFGSDK", "ios-docs", "3.3", "index.html"))

	log := e.logText(t)
	assert.Contains(t, log, "broken\n\n")
	assert.Contains(t, log, "GENERATION STDERR")
	assert.Contains(t, log, "oops")
	assert.Contains(t, log, "GENERATION FAILED")
	assert.Contains(t, log, "NO FILES FOUND: "+filepath.Join(e.sdks[platform.Android], "docs"))
}

func TestRun_MissingScriptStagesExistingDocs(t *testing.T) {
	fixtures := defaultFixtures()
	unity := fixtures[platform.Unity]
	unity.script = ""
	fixtures[platform.Unity] = unity
	e := newEnv(t, fixtures)

	prebuilt := filepath.Join(e.sdks[platform.Unity], "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(prebuilt, "search"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(prebuilt, "a.html"), []byte("a"), 0o644))

	report, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.NoError(t, err)

	// The docs folder is cleared before the script lookup, so nothing is left to copy.
	assert.Equal(t, StatusNoFiles, report.Run.Platforms[0].Status)
	assert.False(t, report.Run.Platforms[0].ScriptRan)
	assert.Equal(t, metrics.OutcomeWarning, report.Outcome)
	assert.DirExists(t, filepath.Join(e.out, "BFGSDK", "unity-docs", "1.4.0", "search"))
	assert.NoFileExists(t, filepath.Join(e.out, "BFGSDK", "unity-docs", "1.4.0", "a.html"))
}

func TestRun_MissingDoxyfileIsFatal(t *testing.T) {
	fixtures := defaultFixtures()
	ios := fixtures[platform.IOS]
	ios.noFile = true
	fixtures[platform.IOS] = ios
	e := newEnv(t, fixtures)

	report, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CategoryFileSystem, errors.GetCategory(err))
	assert.Equal(t, metrics.OutcomeFailed, report.Outcome)
	assert.NoDirExists(t, filepath.Join(e.out, "BFGSDK"))
	assert.Contains(t, e.logText(t), "VERSION READ FAILED")
}

func TestRun_ReplacesPreviousTree(t *testing.T) {
	e := newEnv(t, defaultFixtures())
	stale := filepath.Join(e.out, "BFGSDK", "unity-docs", "0.9.0")
	require.NoError(t, os.MkdirAll(stale, 0o755))

	_, err := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.NoError(t, err)
	_, err = New(e.book, Options{ConfigPath: e.config, OutputDir: e.out}).Run(context.Background())
	require.NoError(t, err)

	assert.NoDirExists(t, stale)
	entries, err := os.ReadDir(filepath.Join(e.out, "BFGSDK", "unity-docs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1.4.0", entries[0].Name())
}

func TestRun_UsesInjectedIDs(t *testing.T) {
	e := newEnv(t, defaultFixtures())
	p := New(e.book, Options{ConfigPath: e.config, OutputDir: e.out})
	p.newID = func() string { return "fixed-id" }

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", report.Run.ID)
}
