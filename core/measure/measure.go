// Package measure has the bug-proneness strategies that label the versions of a chunk.
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/proneness/schema"
)

// Default parameters for the parametrized measures.
const (
	DefaultInitialProneness = 0.0
	DefaultRatio            = 0.7
)

// Measure scores every version of a chunk. StartNewChunk must be called
// before ScoreAt for that chunk; scores of a chunk that was never started are NaN.
type Measure interface {
	// Name is the column name of the label this measure produces.
	Name() string
	// StartNewChunk precomputes the scores of a chunk in O(len(versions)).
	StartNewChunk(versions []schema.MethodVersion)
	// ScoreAt returns the score of the version at index, 0 being the oldest in the chunk.
	ScoreAt(index int) float64
}

// Kind names a measure family.
type Kind string

// All measure kinds supported.
const (
	LinearKind    Kind = "linear"
	GeometricKind Kind = "geometric"
	WeightedKind  Kind = "weighted"
)

// Parse builds a measure from a "kind[:param]" description such as
// "linear:0.2", "geometric" or "weighted".
func Parse(spec string) (Measure, error) {
	kind, param, hasParam := strings.Cut(strings.TrimSpace(spec), ":")
	var value float64
	if hasParam {
		v, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter for measure %q: %w", spec, err)
		}
		value = v
	}

	switch Kind(strings.ToLower(kind)) {
	case LinearKind:
		if !hasParam {
			value = DefaultInitialProneness
		}
		return NewLinear(value)
	case GeometricKind:
		if !hasParam {
			value = DefaultRatio
		}
		return NewGeometric(value)
	case WeightedKind:
		if hasParam {
			return nil, fmt.Errorf("measure %q takes no parameter", kind)
		}
		return NewWeighted(), nil
	default:
		return nil, fmt.Errorf("unknown measure %q. must be linear, geometric, weighted", kind)
	}
}

// ParseAll builds measures from a list of descriptions, rejecting duplicate names.
func ParseAll(specs []string) ([]Measure, error) {
	seen := make(map[string]bool, len(specs))
	out := make([]Measure, 0, len(specs))
	for _, spec := range specs {
		m, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		if seen[m.Name()] {
			return nil, fmt.Errorf("measure %q configured twice", m.Name())
		}
		seen[m.Name()] = true
		out = append(out, m)
	}
	return out, nil
}

// formatParam renders a parameter for a column name, always with a decimal point.
func formatParam(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// scoreTable is the shared precomputed storage of the measures.
type scoreTable []float64

func (t scoreTable) at(index int) float64 {
	if index < 0 || index >= len(t) {
		return math.NaN()
	}
	return t[index]
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0, 1] (received %v)", name, v)
	}
	return nil
}
