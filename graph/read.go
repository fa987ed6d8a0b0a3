package graph

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// ReadEdgeList reads one edge per line in "from to label" form. Blank lines
// and lines starting with '#' are skipped.
func ReadEdgeList(r io.Reader) (*Graph, error) {
	g := New()
	s := bufio.NewScanner(r)

	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, errors.Errorf("line %d: expected \"from to label\", got %q", line, text)
		}
		g.AddEdge(Node(fields[0]), Node(fields[1]), fields[2])
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading edge list")
	}

	return g, nil
}

type yamlGraph struct {
	Nodes []string   `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlEdge struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label"`
}

// ReadYAML reads a graph in the form
//
//	nodes: [isolated, ...]
//	edges:
//	  - {from: 0, to: 1, label: a}
func ReadYAML(r io.Reader) (*Graph, error) {
	var raw yamlGraph
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding yaml graph")
	}

	g := New()
	for _, n := range raw.Nodes {
		g.AddNode(Node(n))
	}
	for i, e := range raw.Edges {
		if e.From == "" || e.To == "" {
			return nil, errors.Errorf("edge %d: both ends are required", i)
		}
		if e.Label == "" {
			return nil, errors.Errorf("edge %d: label is required", i)
		}
		g.AddEdge(Node(e.From), Node(e.To), e.Label)
	}

	return g, nil
}

// ReadFile picks the format by extension: .yaml and .yml files are read with
// ReadYAML, everything else as an edge list.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening graph %q", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadEdgeList(f)
	}
}
