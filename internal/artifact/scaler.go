package artifact

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-segments/internal/storage/file/json"
)

// Scaler is a fitted standardization z = (x - mean) / scale, applied per feature.
type Scaler struct {
	mean  []float64
	scale []float64
}

type scalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// NewScaler creates a scaler from fitted parameters.
// A zero scale leaves the centred feature as is.
func NewScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("scaler has no features")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler has %d means for %d scales", len(mean), len(scale))
	}
	m := make([]float64, len(mean))
	s := make([]float64, len(scale))
	for i := range mean {
		if !finite(mean[i]) || !finite(scale[i]) {
			return nil, fmt.Errorf("scaler parameters for feature %d are not finite", i)
		}
		m[i] = mean[i]
		s[i] = scale[i]
		if s[i] == 0 {
			s[i] = 1
		}
	}
	return &Scaler{
		mean:  m,
		scale: s,
	}, nil
}

// LoadScaler loads the scaler parameters from the json file at path.
func LoadScaler(path string) (*Scaler, error) {
	dir, file := filepath.Split(path)
	var params scalerParams
	if err := json.Load(dir, file, &params); err != nil {
		return nil, fmt.Errorf("could not load scaler: %w", err)
	}
	return NewScaler(params.Mean, params.Scale)
}

// Dims returns the number of features the scaler was fitted on.
func (s *Scaler) Dims() int {
	return len(s.mean)
}

// Transform scales every row of x.
func (s *Scaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, x)
	return &out, nil
}

// InverseTransform maps every row of x back to the original feature space.
func (s *Scaler) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.check(x); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return v*s.scale[j] + s.mean[j]
	}, x)
	return &out, nil
}

func (s *Scaler) check(x mat.Matrix) error {
	if _, c := x.Dims(); c != len(s.mean) {
		return fmt.Errorf("scaler expects %d features but got %d", len(s.mean), c)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
