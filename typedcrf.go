// Package typedcrf encodes typed graphs into joint feature vectors for
// pairwise CRFs with several node types and featured, typed edges.
//
//	enc, _ := typedcrf.Load("model.yaml")
//	results, _ := enc.Featurize("samples.json", nil)
//	for _, r := range results {
//	    fmt.Println(r.Name, len(r.Vector))
//	}
package typedcrf

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/happyhackingspace/typedcrf/crf"
	"github.com/happyhackingspace/typedcrf/internal/config"
	"github.com/happyhackingspace/typedcrf/internal/storage"
	"github.com/happyhackingspace/typedcrf/internal/vectorizer"
)

// SparseVector holds the non-zero entries of a feature vector.
type SparseVector = vectorizer.SparseVector

// Encoder wraps a typed CRF model.
type Encoder struct {
	model *crf.Model
}

// FeaturizeConfig holds configuration for featurization.
type FeaturizeConfig struct {
	// Weights, when set, adds the score of every sample to its result.
	Weights []float64
	// Sparse returns sparse vectors instead of dense ones.
	Sparse  bool
	Verbose bool
	// Progress is called after each sample.
	Progress func(done, total int)
}

// FeatureResult holds the joint feature vector of one labeled sample.
type FeatureResult struct {
	Name   string        `json:"name"`
	Vector []float64     `json:"vector,omitempty"`
	Sparse *SparseVector `json:"sparse,omitempty"`
	Score  *float64      `json:"score,omitempty"`
}

// ValidationResult reports whether one sample fits the model.
type ValidationResult struct {
	Name    string `json:"name"`
	Labeled bool   `json:"labeled"`
	Error   string `json:"error,omitempty"`
}

// Valid reports whether the sample passed validation.
func (r ValidationResult) Valid() bool {
	return r.Error == ""
}

// PotentialResult holds the potentials of one sample.
type PotentialResult struct {
	Name     string        `json:"name"`
	Unary    [][]float64   `json:"unary,omitempty"`
	Pairwise [][][]float64 `json:"pairwise"`
}

// New wraps an existing model.
func New(model *crf.Model) *Encoder {
	return &Encoder{model: model}
}

// Load builds an encoder from a model definition file.
func Load(path string) (*Encoder, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	m, err := cfg.Model()
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	return New(m), nil
}

// Model returns the underlying model.
func (e *Encoder) Model() *crf.Model {
	return e.model
}

// Layout describes the flat vector layout of the model.
func (e *Encoder) Layout() crf.Layout {
	return e.model.Layout()
}

// LoadWeights reads a weight vector and checks its length against the model.
func (e *Encoder) LoadWeights(path string) ([]float64, error) {
	w, err := storage.LoadWeights(path)
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	if err := e.model.ValidateWeights(w); err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	return w, nil
}

// Featurize computes the joint feature vector of every labeled sample in the
// dataset file. Unlabeled samples are skipped.
func (e *Encoder) Featurize(dataPath string, cfg *FeaturizeConfig) ([]FeatureResult, error) {
	if cfg == nil {
		cfg = &FeaturizeConfig{}
	}
	if cfg.Weights != nil {
		if err := e.model.ValidateWeights(cfg.Weights); err != nil {
			return nil, fmt.Errorf("typedcrf: %w", err)
		}
	}
	opts := storage.DefaultOptions()
	opts.DropUnlabeled = true
	opts.Verbose = cfg.Verbose
	samples, err := storage.NewStorage(dataPath).Samples(e.model, opts)
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}

	results := make([]FeatureResult, 0, len(samples))
	for i, s := range samples {
		psi, err := e.model.JointFeature(s.Instance, s.Labels)
		if err != nil {
			return nil, fmt.Errorf("typedcrf: sample %s: %w", s.Name, err)
		}
		r := FeatureResult{Name: s.Name}
		if cfg.Weights != nil {
			score := floats.Dot(cfg.Weights, psi)
			r.Score = &score
		}
		if cfg.Sparse {
			sv := vectorizer.FromDense(psi)
			slog.Debug("Featurized sample", "name", s.Name, "nnz", sv.Nnz(), "density", sv.Density())
			r.Sparse = &sv
		} else {
			r.Vector = psi
		}
		results = append(results, r)
		if cfg.Progress != nil {
			cfg.Progress(i+1, len(samples))
		}
	}
	return results, nil
}

// Validate checks every sample of the dataset file against the model.
// Invalid samples are reported in the results rather than as an error.
func (e *Encoder) Validate(dataPath string) ([]ValidationResult, error) {
	opts := storage.DefaultOptions()
	opts.KeepInvalid = true
	samples, err := storage.NewStorage(dataPath).Samples(e.model, opts)
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	results := make([]ValidationResult, len(samples))
	for i, s := range samples {
		results[i] = ValidationResult{Name: s.Name, Labeled: s.Labeled()}
		err := s.Err
		if err == nil {
			err = e.model.ValidateInstance(s.Instance)
		}
		if err == nil && s.Labeled() {
			err = e.model.ValidateLabeling(s.Instance, s.Labels)
		}
		if err != nil {
			results[i].Error = err.Error()
		}
	}
	return results, nil
}

// Potentials computes the pairwise potentials, and optionally the unary
// ones, of every sample in the dataset file under weights w.
func (e *Encoder) Potentials(dataPath string, w []float64, unary bool) ([]PotentialResult, error) {
	if err := e.model.ValidateWeights(w); err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	samples, err := storage.NewStorage(dataPath).Samples(e.model, storage.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("typedcrf: %w", err)
	}
	results := make([]PotentialResult, 0, len(samples))
	for _, s := range samples {
		pairwise, err := e.model.PairwisePotentials(s.Instance, w)
		if err != nil {
			return nil, fmt.Errorf("typedcrf: sample %s: %w", s.Name, err)
		}
		r := PotentialResult{Name: s.Name, Pairwise: make([][][]float64, len(pairwise))}
		for i, p := range pairwise {
			r.Pairwise[i] = p.RowsView()
		}
		if unary {
			r.Unary, err = e.model.UnaryPotentials(s.Instance, w)
			if err != nil {
				return nil, fmt.Errorf("typedcrf: sample %s: %w", s.Name, err)
			}
		}
		results = append(results, r)
	}
	return results, nil
}
