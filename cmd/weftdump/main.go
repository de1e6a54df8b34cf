// Package main provides weftdump, a small tool that mounts a scene
// document through the reconciler and prints the resulting scene graph.
// It exists to inspect what a tree of host elements produces without
// writing a test:
//
//	weftdump scene.yaml
//	cat scene.yaml | weftdump -
//
// The document declares the class registry and one tree of host
// elements:
//
//	classes:
//	  - name: Frame
//	    defaults: {Visible: true}
//	  - name: Label
//	    defaults: {Text: ""}
//	tree:
//	  class: Frame
//	  children:
//	    title:
//	      class: Label
//	      props: {Text: hello}
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/scene"
	"github.com/go-weft/weft/pkg/weftest"
)

// document is the root of a weftdump input file.
type document struct {
	Classes []classDecl  `yaml:"classes"`
	Tree    *elementDecl `yaml:"tree"`
}

type classDecl struct {
	Name     string         `yaml:"name"`
	Defaults map[string]any `yaml:"defaults"`
	Events   []string       `yaml:"events"`
}

type elementDecl struct {
	Class    string                  `yaml:"class"`
	Props    map[string]any          `yaml:"props"`
	Children map[string]*elementDecl `yaml:"children"`
}

func main() {
	verbose := flag.Bool("v", false, "log reconciliation steps to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: weftdump [-v] <scene.yaml | ->\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "weftdump: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		core.SetLogger(logger)
		scene.SetLogger(logger)
	}

	if err := run(flag.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "weftdump: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, out io.Writer) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if doc.Tree == nil {
		return fmt.Errorf("document has no tree")
	}

	registry := scene.NewRegistry()
	for _, decl := range doc.Classes {
		class := &scene.Class{
			Name:     decl.Name,
			Defaults: decl.Defaults,
			Events:   decl.Events,
		}
		if class.Defaults == nil {
			class.Defaults = map[string]any{}
		}
		if err := registry.Register(class); err != nil {
			return err
		}
	}

	element, err := buildElement(doc.Tree)
	if err != nil {
		return err
	}

	root := scene.NewObject(&scene.Class{Name: "Root"})
	root.SetName("root")
	rec := core.NewReconciler(scene.NewRenderer(registry))
	node, err := rec.Mount(element, root, "tree", nil)
	if err != nil {
		// Release whatever mounted before the failure.
		if node != nil {
			rec.Unmount(node)
		}
		return err
	}

	snap := weftest.CaptureSnapshot(root)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func buildElement(decl *elementDecl) (*core.Element, error) {
	if decl.Class == "" {
		return nil, fmt.Errorf("element has no class")
	}
	var children core.Children
	if len(decl.Children) > 0 {
		children = make(core.Children, len(decl.Children))
		for key, child := range decl.Children {
			el, err := buildElement(child)
			if err != nil {
				return nil, fmt.Errorf("child %q: %w", key, err)
			}
			children[key] = el
		}
	}
	return core.New(decl.Class, core.Props(decl.Props), children), nil
}
