// Package loader re-hydrates a previously exported graph artifact into
// a graph.Mutator. It sits at the ingestion boundary: parsing the
// legacy sources that originally produced the artifact is someone
// else's job.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/fieldlens/fieldlens/graph"
)

// Load reads the artifact at URL (any scheme afs understands: plain
// paths, file://, mem://, s3-style URLs), checks its schema version and
// populates dest. Node identities are derived from the display names so
// the same artifact always re-hydrates with the same refs.
func Load(ctx context.Context, URL string, dest graph.Mutator) error {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("download %v: %w", URL, err)
	}
	document, err := Parse(data, path.Ext(URL))
	if err != nil {
		return fmt.Errorf("parse %v: %w", URL, err)
	}
	return Populate(document, dest)
}

// Parse decodes an artifact from YAML or JSON, selected by extension;
// anything but .json decodes as YAML.
func Parse(data []byte, ext string) (*Document, error) {
	document := &Document{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, document); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, document); err != nil {
			return nil, err
		}
	}
	if err := checkVersion(document.APIVersion); err != nil {
		return nil, err
	}
	return document, nil
}

// checkVersion accepts any artifact whose major version matches.
func checkVersion(apiVersion string) error {
	scheme, version, found := strings.Cut(apiVersion, "/")
	wantScheme, wantVersion, _ := strings.Cut(Version, "/")
	if !found || scheme != wantScheme {
		return fmt.Errorf("unsupported apiVersion %q, want %q", apiVersion, Version)
	}
	if !semver.IsValid(version) || semver.Major(version) != semver.Major(wantVersion) {
		return fmt.Errorf("unsupported apiVersion %q, want major %v", apiVersion, semver.Major(wantVersion))
	}
	return nil
}

// Populate adds the document's fields and units to dest, followed by
// the edges its declarations imply. Fields referenced by a unit but
// never declared are registered as elemental fields so partial exports
// still load.
func Populate(document *Document, dest graph.Mutator) error {
	known := make(map[string]bool)
	addField := func(field *graph.Field) error {
		if known[field.Name] {
			return nil
		}
		known[field.Name] = true
		return dest.AddField(field)
	}

	for _, spec := range document.Fields {
		kind := graph.Elemental
		if spec.Group {
			kind = graph.Group
		}
		field := &graph.Field{
			ID:       graph.Ref(graph.FieldNode, spec.Name),
			Name:     spec.Name,
			DataType: spec.DataType,
			Kind:     kind,
		}
		if spec.Parent != "" {
			field.Parent = graph.Ref(graph.FieldNode, spec.Parent)
		}
		if err := addField(field); err != nil {
			return err
		}
	}
	for _, spec := range document.Units {
		if spec.Output == "" {
			return fmt.Errorf("unit %q has no output field", spec.Name)
		}
		for _, name := range append([]string{spec.Output}, spec.Inputs...) {
			if err := addField(&graph.Field{
				ID:   graph.Ref(graph.FieldNode, name),
				Name: name,
				Kind: graph.Elemental,
			}); err != nil {
				return err
			}
		}
		unit := &graph.Unit{
			ID:          graph.Ref(graph.UnitNode, spec.Name),
			Name:        spec.Name,
			OutputGroup: spec.OutputGroup,
			OutputName:  spec.Output,
			Passthrough: spec.Passthrough,
			Module:      spec.Module,
		}
		if err := dest.AddUnit(unit); err != nil {
			return err
		}
	}

	for _, spec := range document.Fields {
		if spec.Parent == "" {
			continue
		}
		if err := dest.AddEdge(graph.Edge{
			Kind: graph.Contains,
			From: graph.Ref(graph.FieldNode, spec.Parent),
			To:   graph.Ref(graph.FieldNode, spec.Name),
		}); err != nil {
			return err
		}
	}
	for _, spec := range document.Units {
		unitRef := graph.Ref(graph.UnitNode, spec.Name)
		if err := dest.AddEdge(graph.Edge{
			Kind: graph.Produces,
			From: unitRef,
			To:   graph.Ref(graph.FieldNode, spec.Output),
		}); err != nil {
			return err
		}
		for _, input := range spec.Inputs {
			if err := dest.AddEdge(graph.Edge{
				Kind: graph.Consumes,
				From: unitRef,
				To:   graph.Ref(graph.FieldNode, input),
			}); err != nil {
				return err
			}
		}
		if spec.Module != "" {
			if err := dest.AddEdge(graph.Edge{
				Kind: graph.RunsIn,
				From: unitRef,
				To:   spec.Module,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
