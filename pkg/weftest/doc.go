// Package weftest provides a test harness for Weft element trees.
//
// # Quick Start
//
// Create a harness over a class registry, mount a tree, and make
// assertions against the resulting scene graph:
//
//	func TestCounter(t *testing.T) {
//	    h := weftest.New(t, testClasses())
//	    h.Mount(core.New("Label", core.Props{"Text": "0"}, nil))
//
//	    if got := h.Find("app").Get("Text"); got != "0" {
//	        t.Errorf("expected initial text, got %v", got)
//	    }
//	}
//
// The harness owns a scene renderer and a reconciler; Update re-renders
// the mounted tree in place and Unmount tears it down. Whatever is still
// mounted when the test ends is unmounted through t.Cleanup.
//
// # Snapshot Testing
//
// Capture and compare scene snapshots as YAML golden files:
//
//	snap := h.Snapshot()
//	snap.MatchesFile(t, "testdata/counter.snapshot.yaml")
//
// Update snapshots with:
//
//	WEFT_UPDATE_SNAPSHOTS=1 go test ./...
package weftest
