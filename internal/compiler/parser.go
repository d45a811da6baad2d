package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser converts raw manifest bytes into a Manifest.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes one YAML document. Decoding goes through a generic map and
// mapstructure so unknown keys are tolerated (live editing produces plenty)
// and scalar types are coerced leniently.
func (p *Parser) Parse(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &m,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Load reads a manifest from disk, resolving its imports breadth-first
// relative to each importing file. Records from imported files are appended
// after the importer's, so the last definition still wins across files.
// Import cycles are an error.
func (p *Parser) Load(path string) (*Manifest, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	merged := &Manifest{}
	visited := map[string]bool{}
	deps := map[string][]string{}
	queue := []string{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		data, err := os.ReadFile(current)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", current, err)
		}
		m, err := p.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", current, err)
		}
		merged.merge(m)

		for _, imp := range m.Imports {
			target := imp
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(current), target)
			}
			deps[current] = append(deps[current], target)
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	if cycle := findCycle(root, deps); cycle != "" {
		return nil, fmt.Errorf("circular import detected: %s", cycle)
	}
	return merged, nil
}

// findCycle runs a DFS over the import graph and returns the offending path,
// or "" when the graph is acyclic.
func findCycle(root string, deps map[string][]string) string {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var path []string

	var walk func(node string) string
	walk = func(node string) string {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, dep := range deps[node] {
			if onStack[dep] {
				cycle := append(append([]string(nil), path...), dep)
				return joinPaths(cycle)
			}
			if !visited[dep] {
				if found := walk(dep); found != "" {
					return found
				}
			}
		}

		onStack[node] = false
		path = path[:len(path)-1]
		return ""
	}
	return walk(root)
}

func joinPaths(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	out := names[0]
	for _, n := range names[1:] {
		out += " -> " + n
	}
	return out
}
