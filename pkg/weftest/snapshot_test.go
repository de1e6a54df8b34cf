package weftest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-weft/weft/pkg/core"
)

// recordingT captures failures instead of failing the real test.
type recordingT struct {
	fatals []string
	errors []string
}

func (r *recordingT) Helper() {}
func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, format)
}
func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, format)
}
func (r *recordingT) Name() string { return "recordingT" }

func TestSnapshot_CapturesChangedPropsOnly(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Frame", nil, core.Children{
		"title": core.New("Label", core.Props{"Text": "hello"}, nil),
		"body":  core.New("Label", nil, nil),
	}))

	snap := h.Snapshot()
	app := snap.Root.Children[0]
	if app.Class != "Frame" || app.Name != "app" {
		t.Fatalf("unexpected root child: %+v", app)
	}
	if len(app.Props) != 0 {
		t.Errorf("expected default-valued props omitted, got %v", app.Props)
	}

	// Children come back sorted by name.
	if len(app.Children) != 2 || app.Children[0].Name != "body" || app.Children[1].Name != "title" {
		t.Fatalf("unexpected children: %+v", app.Children)
	}
	if app.Children[1].Props["Text"] != "hello" {
		t.Errorf("expected changed prop captured, got %v", app.Children[1].Props)
	}
	if len(app.Children[0].Props) != 0 {
		t.Errorf("expected untouched label to have no props, got %v", app.Children[0].Props)
	}
}

func TestSnapshot_RoundTripsThroughGoldenFile(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Frame", nil, core.Children{
		"title": core.New("Label", core.Props{"Text": "hello"}, nil),
	}))

	path := filepath.Join(t.TempDir(), "tree.snapshot.yaml")
	snap := h.Snapshot()
	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rt := &recordingT{}
	snap.MatchesFile(rt, path)
	if len(rt.fatals) != 0 || len(rt.errors) != 0 {
		t.Errorf("expected a clean match, got fatals=%v errors=%v", rt.fatals, rt.errors)
	}
}

func TestSnapshot_MismatchReportsDiff(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Label", core.Props{"Text": "one"}, nil))

	path := filepath.Join(t.TempDir(), "tree.snapshot.yaml")
	if err := h.Snapshot().UpdateFile(path); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	h.Update(core.New("Label", core.Props{"Text": "two"}, nil))

	rt := &recordingT{}
	h.Snapshot().MatchesFile(rt, path)
	if len(rt.errors) != 1 {
		t.Fatalf("expected one mismatch report, got %v", rt.errors)
	}
}

func TestSnapshot_DiffGroupsChangesIntoHunks(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Label", core.Props{"Text": "one"}, nil))
	before := h.Snapshot()

	h.Update(core.New("Label", core.Props{"Text": "two"}, nil))
	diff := h.Snapshot().Diff(before)

	if diff == "" {
		t.Fatal("expected a non-empty diff for changed snapshots")
	}
	if !strings.Contains(diff, "@@ line ") {
		t.Errorf("expected a hunk header, got:\n%s", diff)
	}
	var removed, added, context bool
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "-") && strings.Contains(line, "one"):
			removed = true
		case strings.HasPrefix(line, "+") && strings.Contains(line, "two"):
			added = true
		case strings.HasPrefix(line, " "):
			context = true
		}
	}
	if !removed || !added || !context {
		t.Errorf("expected removed, added, and context lines, got:\n%s", diff)
	}

	if got := h.Snapshot().Diff(h.Snapshot()); got != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", got)
	}
}

func TestSnapshot_MissingFileFailsWithHint(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Label", nil, nil))

	rt := &recordingT{}
	h.Snapshot().MatchesFile(rt, filepath.Join(t.TempDir(), "missing.yaml"))
	if len(rt.fatals) != 1 || !strings.Contains(rt.fatals[0], "snapshot file missing") {
		t.Fatalf("expected a missing-file failure, got %v", rt.fatals)
	}
}

func TestSnapshot_UpdateEnvRewritesFile(t *testing.T) {
	h := New(t, testClasses(t))
	h.Mount(core.New("Label", core.Props{"Text": "fresh"}, nil))

	path := filepath.Join(t.TempDir(), "tree.snapshot.yaml")
	t.Setenv("WEFT_UPDATE_SNAPSHOTS", "1")

	rt := &recordingT{}
	h.Snapshot().MatchesFile(rt, path)
	if len(rt.fatals) != 0 {
		t.Fatalf("expected the file written, got %v", rt.fatals)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot written: %v", err)
	}
}
