package weftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/scene"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure of a scene subtree.
type Snapshot struct {
	Root *ObjectNode `yaml:"root"`
}

// ObjectNode represents one scene object in a serialized snapshot.
// Props holds only the properties that differ from the class defaults;
// children are sorted by name, since sibling order is not part of the
// tree's meaning.
type ObjectNode struct {
	Class    string         `yaml:"class"`
	Name     string         `yaml:"name"`
	Props    map[string]any `yaml:"props,omitempty"`
	Children []*ObjectNode  `yaml:"children,omitempty"`
}

// CaptureSnapshot serializes the subtree rooted at object.
func CaptureSnapshot(object *scene.Object) *Snapshot {
	return &Snapshot{Root: captureObject(object)}
}

// MatchesFile compares this snapshot against a golden file. On mismatch
// it reports a diff and instructions for updating. When
// WEFT_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("WEFT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: WEFT_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: WEFT_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating
// directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a unified diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// --- Internal ---

func captureObject(object *scene.Object) *ObjectNode {
	class := object.Class()
	node := &ObjectNode{
		Class: class.Name,
		Name:  object.Name(),
	}

	for prop, def := range class.Defaults {
		value := object.Get(prop)
		if propEqual(value, def) {
			continue
		}
		if node.Props == nil {
			node.Props = make(map[string]any)
		}
		node.Props[prop] = value
	}

	for _, child := range object.Children() {
		node.Children = append(node.Children, captureObject(child))
	}
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	return node
}

// propEqual compares a property against its default without panicking on
// uncomparable values.
func propEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// diffContext is how many unchanged lines frame each hunk.
const diffContext = 2

// unifiedDiff produces a positional line diff grouped into hunks, each
// introduced by an @@ header and framed by unchanged context lines.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	total := len(expectedLines)
	if len(actualLines) > total {
		total = len(actualLines)
	}
	var changed []int
	for i := 0; i < total; i++ {
		if lineAt(expectedLines, i) != lineAt(actualLines, i) {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")
	for h := 0; h < len(changed); {
		// Merge changes whose context would touch into one hunk.
		j := h
		for j+1 < len(changed) && changed[j+1]-changed[j] <= 2*diffContext {
			j++
		}
		from := changed[h] - diffContext
		if from < 0 {
			from = 0
		}
		to := changed[j] + diffContext
		if to > total-1 {
			to = total - 1
		}

		fmt.Fprintf(&buf, "@@ line %d @@\n", from+1)
		for i := from; i <= to; i++ {
			e, a := lineAt(expectedLines, i), lineAt(actualLines, i)
			if e == a {
				fmt.Fprintf(&buf, " %s\n", e)
				continue
			}
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
		h = j + 1
	}

	return buf.String()
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
