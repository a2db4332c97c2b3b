package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Artifact kinds.
const (
	KindLinear = "linear"
	KindTrees  = "xgboost"
	KindRemote = "remote"
)

// Artifact is a trained model exported as JSON:
//
//	{
//	  "kind": "xgboost",
//	  "feature_names": ["math_score", "gpa", "skill_programming"],
//	  "classes": ["Software Engineer", "Nurse"],
//	  "scaler": {"mean": [...], "scale": [...]},
//	  "trees": {"base_score": 0.5, "num_class": 2, "trees": [...]}
//	}
//
// feature_names and scaler are optional. Exactly one of linear or trees must be present
// unless kind is remote, in which case probabilities come from a model-serving endpoint.
type Artifact struct {
	Kind         string        `json:"kind"`
	FeatureNames []string      `json:"feature_names,omitempty"`
	Classes      []string      `json:"classes"`
	Scaler       *Scaler       `json:"scaler,omitempty"`
	Linear       *LinearParams `json:"linear,omitempty"`
	Trees        *TreeParams   `json:"trees,omitempty"`
}

// LoadArtifact reads a model artifact file.
// The returned error wraps os.ErrNotExist when the file is absent.
func LoadArtifact(path string) (*Artifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseArtifact(content)
}

// ParseArtifact decodes and validates an artifact document.
func ParseArtifact(content []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(content, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	a.Kind = strings.ToLower(strings.TrimSpace(a.Kind))
	if a.Kind == "trees" {
		a.Kind = KindTrees
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that the artifact is internally consistent.
func (a *Artifact) Validate() error {
	if len(a.Classes) == 0 {
		return errors.New("model artifact: no classes")
	}

	if a.Scaler != nil {
		if len(a.Scaler.Mean) != len(a.Scaler.Scale) {
			return fmt.Errorf("model artifact: scaler has %d means and %d scales", len(a.Scaler.Mean), len(a.Scaler.Scale))
		}
		if len(a.FeatureNames) > 0 && len(a.Scaler.Mean) != len(a.FeatureNames) {
			return fmt.Errorf("model artifact: scaler covers %d features, schema has %d", len(a.Scaler.Mean), len(a.FeatureNames))
		}
	}

	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return errors.New("model artifact: linear kind without linear parameters")
		}
	case KindTrees:
		if a.Trees == nil {
			return errors.New("model artifact: xgboost kind without trees")
		}
	case KindRemote:
	default:
		return fmt.Errorf("model artifact: unknown kind %q", a.Kind)
	}
	return nil
}
