package model

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TreeParams is a gradient-boosted ensemble in the XGBoost JSON dump format.
// Tree i contributes to class i mod NumClass. A two-class model with NumClass 0 or 1
// is single-output (binary:logistic) and its BaseScore is a probability; multi-class
// models add BaseScore to every class margin as is.
type TreeParams struct {
	BaseScore float64    `json:"base_score"`
	NumClass  int        `json:"num_class"`
	Trees     []TreeNode `json:"trees"`
}

// TreeNode is one node of a dumped tree. Leaves carry Leaf; split nodes carry
// Split, SplitCondition, the Yes/No/Missing child ids and the Children themselves.
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        int        `json:"missing,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`
	Leaf           *float64   `json:"leaf,omitempty"`
}

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
}

type tree struct {
	nodes map[int]node
	root  int
}

func (t *tree) eval(features []float64) (float64, error) {
	id := t.root
	// a well-formed tree never visits more nodes than it has
	for range len(t.nodes) + 1 {
		n := t.nodes[id]
		if n.leaf {
			return n.value, nil
		}
		if n.feature >= len(features) {
			return 0, fmt.Errorf("tree split on feature %d, vector has %d", n.feature, len(features))
		}

		x := features[n.feature]
		switch {
		case math.IsNaN(x):
			id = n.missing
		case x < n.threshold:
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0, fmt.Errorf("tree does not terminate")
}

// TreeEnsemble evaluates boosted trees with softmax over per-class margins.
type TreeEnsemble struct {
	trees      []tree
	numClass   int
	baseMargin float64
}

// PredictProba sums the leaves of each class's trees and applies softmax, or the
// sigmoid pair for a single-output two-class model.
func (te *TreeEnsemble) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	margins := make([]float64, te.numClass)
	for i := range margins {
		margins[i] = te.baseMargin
	}

	for i := range te.trees {
		v, err := te.trees[i].eval(features)
		if err != nil {
			return nil, err
		}
		margins[i%te.numClass] += v
	}

	if te.numClass == 1 {
		return binary(margins[0]), nil
	}
	return softmax(margins), nil
}

// NewTreeEnsemble compiles the dumped trees. Split features are resolved against
// featureNames or given positionally as f<index>.
func NewTreeEnsemble(params TreeParams, featureNames []string, classes int) (*TreeEnsemble, error) {
	numClass := params.NumClass
	switch {
	case numClass <= 1 && classes == 2:
		numClass = 1
	case numClass == 0:
		numClass = classes
	case numClass == 1:
		return nil, fmt.Errorf("single-output trees need 2 classes, have %d", classes)
	}
	if numClass != 1 && numClass != classes {
		return nil, fmt.Errorf("trees built for %d classes, artifact has %d", numClass, classes)
	}
	if len(params.Trees) == 0 {
		return nil, fmt.Errorf("ensemble has no trees")
	}

	baseMargin := params.BaseScore
	if numClass == 1 {
		var err error
		if baseMargin, err = logit(params.BaseScore); err != nil {
			return nil, err
		}
	}

	index := make(map[string]int, len(featureNames))
	for i, name := range featureNames {
		index[name] = i
	}

	te := &TreeEnsemble{trees: make([]tree, len(params.Trees)), numClass: numClass, baseMargin: baseMargin}
	for i := range params.Trees {
		t := tree{nodes: make(map[int]node), root: params.Trees[i].NodeID}
		if err := flatten(&params.Trees[i], index, t.nodes); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if err := t.check(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		te.trees[i] = t
	}
	return te, nil
}

// logit turns a binary base score into its starting margin.
// An omitted base score means the XGBoost default of 0.5.
func logit(baseScore float64) (float64, error) {
	if baseScore == 0 {
		return 0, nil
	}
	if baseScore < 0 || baseScore >= 1 {
		return 0, fmt.Errorf("binary base_score %v is outside (0, 1)", baseScore)
	}
	return math.Log(baseScore / (1 - baseScore)), nil
}

func flatten(tn *TreeNode, index map[string]int, nodes map[int]node) error {
	if _, dup := nodes[tn.NodeID]; dup {
		return fmt.Errorf("duplicate node %d", tn.NodeID)
	}

	if tn.Leaf != nil {
		nodes[tn.NodeID] = node{leaf: true, value: *tn.Leaf}
		return nil
	}

	feature, err := resolveFeature(tn.Split, index)
	if err != nil {
		return fmt.Errorf("node %d: %w", tn.NodeID, err)
	}
	nodes[tn.NodeID] = node{
		feature:   feature,
		threshold: tn.SplitCondition,
		yes:       tn.Yes,
		no:        tn.No,
		missing:   tn.Missing,
	}

	for i := range tn.Children {
		if err := flatten(&tn.Children[i], index, nodes); err != nil {
			return err
		}
	}
	return nil
}

func (t *tree) check() error {
	for id, n := range t.nodes {
		if n.leaf {
			continue
		}
		for _, child := range []int{n.yes, n.no, n.missing} {
			if _, ok := t.nodes[child]; !ok {
				return fmt.Errorf("node %d references missing node %d", id, child)
			}
		}
	}
	return nil
}

func resolveFeature(split string, index map[string]int) (int, error) {
	if i, ok := index[split]; ok {
		return i, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}
