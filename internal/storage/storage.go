// Package storage reads typed graph samples and weight vectors from disk.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/happyhackingspace/typedcrf/crf"
)

// Storage wraps a dataset file.
type Storage struct {
	Path string
}

// NewStorage creates a Storage for the given dataset file.
func NewStorage(path string) *Storage {
	return &Storage{Path: path}
}

// Sample is one instance with its optional labeling.
type Sample struct {
	Name     string
	Instance *crf.Instance
	Labels   crf.Discrete // nil when the sample is unlabeled

	// Err is set instead of Instance when the sample could not be converted
	// and Options.KeepInvalid is on.
	Err error
}

// Labeled reports whether the sample carries a labeling.
func (s Sample) Labeled() bool {
	return s.Labels != nil
}

// datasetJSON is the structure of a dataset file.
type datasetJSON struct {
	Samples []sampleJSON `json:"samples"`
}

// sampleJSON holds one sample. Missing or null blocks are empty.
type sampleJSON struct {
	Name         string        `json:"name"`
	NodeFeatures [][][]float64 `json:"node_features"`
	Edges        [][][]int     `json:"edges"`
	EdgeFeatures [][][]float64 `json:"edge_features"`
	Labels       [][]int       `json:"labels"`
}

// Options controls sample loading.
type Options struct {
	DropUnlabeled  bool
	DropDuplicates bool
	// KeepInvalid records conversion errors in Sample.Err rather than
	// failing the whole load.
	KeepInvalid bool
	Verbose     bool
}

// DefaultOptions returns the default loading options.
func DefaultOptions() Options {
	return Options{
		DropDuplicates: true,
	}
}

// Samples reads the dataset and converts every sample for model m, in file
// order. Samples are not validated against the model here.
func (s *Storage) Samples(m *crf.Model, opts Options) ([]Sample, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var ds datasetJSON
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", s.Path, err)
	}

	seen := make(map[string]bool)
	samples := make([]Sample, 0, len(ds.Samples))
	for i, sj := range ds.Samples {
		name := sj.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if opts.DropDuplicates {
			if seen[name] {
				slog.Warn("Skipping duplicate sample", "name", name)
				continue
			}
			seen[name] = true
		}
		if opts.DropUnlabeled && sj.Labels == nil {
			if opts.Verbose {
				slog.Debug("Skipping unlabeled sample", "name", name)
			}
			continue
		}
		x, err := toInstance(m, sj)
		if err != nil {
			if !opts.KeepInvalid {
				return nil, fmt.Errorf("sample %s: %w", name, err)
			}
			slog.Debug("Keeping invalid sample", "name", name, "error", err)
		}
		sample := Sample{Name: name, Instance: x, Err: err}
		if sj.Labels != nil {
			sample.Labels = crf.Discrete(sj.Labels)
		}
		samples = append(samples, sample)
	}
	if opts.Verbose {
		slog.Debug("Loaded samples", "path", s.Path, "samples", len(samples), "total", len(ds.Samples))
	}
	return samples, nil
}

// toInstance converts a sample to a crf.Instance. Absent slots become empty
// blocks with the declared column count.
func toInstance(m *crf.Model, sj sampleJSON) (*crf.Instance, error) {
	x := m.NewInstance()
	T := m.NumTypes()
	if sj.NodeFeatures != nil {
		x.NodeFeatures = make([]crf.Block, len(sj.NodeFeatures))
		for t, rows := range sj.NodeFeatures {
			cols := 0
			if t < T {
				cols = m.Type(t).Features
			}
			b, err := toBlock(rows, cols)
			if err != nil {
				return nil, fmt.Errorf("node features of type %d: %w", t, err)
			}
			x.NodeFeatures[t] = b
		}
	}
	if sj.Edges != nil {
		x.Edges = make([][]crf.Edge, len(sj.Edges))
		for p, rows := range sj.Edges {
			edges, err := toEdges(rows)
			if err != nil {
				if p < T*T {
					return nil, fmt.Errorf("types %d x %d: %w", p/T, p%T, err)
				}
				return nil, fmt.Errorf("edges of pair %d: %w", p, err)
			}
			x.Edges[p] = edges
		}
	}
	if sj.EdgeFeatures != nil {
		x.EdgeFeatures = make([]crf.Block, len(sj.EdgeFeatures))
		for p, rows := range sj.EdgeFeatures {
			cols := 0
			if p < T*T {
				cols = m.EdgeFeatures(p/T, p%T)
			}
			b, err := toBlock(rows, cols)
			if err != nil {
				return nil, fmt.Errorf("edge features of pair %d: %w", p, err)
			}
			x.EdgeFeatures[p] = b
		}
	}
	return x, nil
}

// toEdges converts (source, target) rows. Rows of any other length are
// rejected, not truncated or padded.
func toEdges(rows [][]int) ([]crf.Edge, error) {
	if rows == nil {
		return nil, nil
	}
	edges := make([]crf.Edge, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("edge %d has %d endpoints, want 2: %w", i, len(row), crf.ErrShape)
		}
		edges[i] = crf.Edge{row[0], row[1]}
	}
	return edges, nil
}

func toBlock(rows [][]float64, cols int) (crf.Block, error) {
	if len(rows) == 0 {
		return crf.EmptyBlock(cols), nil
	}
	return crf.BlockFromRows(rows)
}

// LoadWeights reads a weight vector stored as a JSON array of numbers.
func LoadWeights(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w []float64
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode weights %s: %w", path, err)
	}
	return w, nil
}
