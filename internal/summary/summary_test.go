package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
)

func TestRender(t *testing.T) {
	start := time.Unix(1700000000, 0)
	run := history.Run{
		ID:         "run-42",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Outcome:    "warning",
		Platforms: []history.PlatformRun{
			{Platform: "unity", Version: "1.4.0", Commit: "0123456789abcdef", ScriptRan: true, FilesCopied: 12, Status: "ok"},
			{Platform: "ios", Status: "no_files"},
		},
	}

	out := Render(run, "/work/LogFile.txt")

	assert.Contains(t, out, "run-42")
	assert.Contains(t, out, "unity")
	assert.Contains(t, out, "1.4.0")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "exit 0")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "no_files")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "Log: /work/LogFile.txt")
}

func TestRender_IncludesError(t *testing.T) {
	out := Render(history.Run{ID: "r", Outcome: "aborted", Error: "configuration incomplete"}, "")
	assert.Contains(t, out, "configuration incomplete")
	assert.NotContains(t, out, "Log:")
}
