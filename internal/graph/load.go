package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang/snappy"
	"gonum.org/v1/gonum/graph/simple"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Format identifies the encoding of a graph data file.
type Format string

// Supported data file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk shape of a graph data file.
type Document struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes" validate:"required,dive"`
	Links []LinkRecord `json:"links" yaml:"links" validate:"required,dive"`
}

// NodeRecord is one entry of the nodes list.
type NodeRecord struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Group *int   `json:"group,omitempty" yaml:"group,omitempty" validate:"omitempty,gte=0"`
}

// LinkRecord is one entry of the links list.
type LinkRecord struct {
	Source string   `json:"source" yaml:"source" validate:"required"`
	Target string   `json:"target" yaml:"target" validate:"required"`
	Value  *float64 `json:"value" yaml:"value" validate:"required,gte=0"`
}

// LoadError reports a graph file that could not be turned into a Store.
// It is fatal to initialization.
type LoadError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return "load graph: " + e.Err.Error()
	}
	return fmt.Sprintf("load graph %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatForPath picks a format from the file name. A trailing ".sz" marks a
// snappy-framed file and is stripped first.
func FormatForPath(path string) (format Format, compressed bool) {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".sz") {
		compressed = true
		name = strings.TrimSuffix(name, ".sz")
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, compressed
	default:
		return FormatJSON, compressed
	}
}

// LoadFile reads and validates a graph data file. Links that reference
// unknown nodes are dropped and logged; everything else that is wrong with
// the file is a *LoadError.
func LoadFile(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	format, compressed := FormatForPath(path)
	var r io.Reader = f
	if compressed {
		r = snappy.NewReader(f)
	}

	store, err := Load(r, format)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	for _, d := range store.Diagnostics() {
		logger.Warn("dropped invalid link",
			"index", d.Index,
			"source", d.Source,
			"target", d.Target,
			"reason", d.Reason)
	}
	logger.Info("graph loaded",
		"path", path,
		"nodes", store.NodeCount(),
		"links", store.LinkCount(),
		"dropped_links", len(store.Diagnostics()))

	return store, nil
}

// Load decodes a graph document from r and builds a Store from it.
func Load(r io.Reader, format Format) (*Store, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("decode yaml: %w", err)}
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("decode json: %w", err)}
		}
	default:
		return nil, &LoadError{Err: fmt.Errorf("unsupported format %q", format)}
	}
	return Build(doc)
}

// Build validates doc and resolves its links against its nodes.
func Build(doc Document) (*Store, error) {
	if err := validate.Struct(&doc); err != nil {
		return nil, &LoadError{Err: formatValidationError(err)}
	}

	s := &Store{
		nodes: make([]*Node, 0, len(doc.Nodes)),
		links: make([]*Link, 0, len(doc.Links)),
		index: make(map[string]int, len(doc.Nodes)),
		adj:   simple.NewUndirectedGraph(),
	}

	for i, rec := range doc.Nodes {
		if _, dup := s.index[rec.ID]; dup {
			return nil, &LoadError{Err: fmt.Errorf("nodes[%d]: duplicate node id %q", i, rec.ID)}
		}
		n := &Node{ID: rec.ID}
		if rec.Group != nil {
			g := *rec.Group
			n.Group = &g
		}
		s.index[rec.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
		s.adj.AddNode(simple.Node(int64(s.index[rec.ID])))
	}

	for i, rec := range doc.Links {
		si, sok := s.index[rec.Source]
		ti, tok := s.index[rec.Target]
		if !sok || !tok {
			missing := rec.Source
			if sok {
				missing = rec.Target
			}
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Index:  i,
				Source: rec.Source,
				Target: rec.Target,
				Reason: fmt.Sprintf("unknown node %q", missing),
			})
			continue
		}

		s.links = append(s.links, &Link{
			SourceID: rec.Source,
			TargetID: rec.Target,
			Value:    *rec.Value,
			Source:   s.nodes[si],
			Target:   s.nodes[ti],
		})

		// Self-loops add nothing to connectivity and gonum rejects them.
		if si != ti {
			s.adj.SetEdge(simple.Edge{F: simple.Node(int64(si)), T: simple.Node(int64(ti))})
		}
	}

	return s, nil
}

// formatValidationError turns validator errors into a readable message that
// names the offending entry.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Document.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+": is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be >= %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
