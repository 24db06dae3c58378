package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/render/plantuml"
)

// PlantUMLExt is the file extension of written diagram sources.
const PlantUMLExt = ".puml"

// WriteArtifact writes data to dir/<key><ext>, creating dir when needed,
// and returns the path written. The key must be a valid view key so it can
// never escape dir.
func WriteArtifact(dir, key, ext string, data []byte) (string, error) {
	if err := c4errors.ValidatePath(dir); err != nil {
		return "", err
	}
	if err := c4errors.ValidateViewKey(key); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, key+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteDiagrams writes every diagram as <key>.puml into dir, followed by
// one <key>-<n>.puml file per frame. It returns the paths in write order.
func WriteDiagrams(dir string, diagrams []*plantuml.Diagram) ([]string, error) {
	var paths []string
	for _, d := range diagrams {
		path, err := WriteArtifact(dir, d.Key, PlantUMLExt, []byte(d.Definition))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
		for _, f := range d.Frames {
			path, err := WriteArtifact(dir, f.Key, PlantUMLExt, []byte(f.Definition))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// WriteDiagramsJSON encodes diagrams, frames included, as a JSON array.
// [ReadDiagramsJSON] reads the result back.
func WriteDiagramsJSON(diagrams []*plantuml.Diagram, w io.Writer) error {
	if diagrams == nil {
		diagrams = []*plantuml.Diagram{}
	}
	if err := json.NewEncoder(w).Encode(diagrams); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDiagramsJSON decodes a JSON array written by [WriteDiagramsJSON].
func ReadDiagramsJSON(r io.Reader) ([]*plantuml.Diagram, error) {
	var diagrams []*plantuml.Diagram
	if err := json.NewDecoder(r).Decode(&diagrams); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return diagrams, nil
}
