package segment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-segments/internal/artifact"
	"github.com/drakos74/free-segments/internal/table"
)

// ErrNoRows is returned when there is nothing to score.
var ErrNoRows = errors.New("no rows to score")

// ValueError reports a required cell that is not a finite number.
type ValueError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("row %d: column '%s' has non-numeric value '%s': %s", e.Row, e.Column, e.Value, e.Err.Error())
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Centroid is a cluster center in original feature units.
type Centroid struct {
	Label    int     `json:"label"`
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
}

// Scorer assigns customers to segments with a fixed set of artifacts.
type Scorer struct {
	set *artifact.Set
}

// NewScorer creates a scorer for the given artifacts.
func NewScorer(set *artifact.Set) *Scorer {
	return &Scorer{set: set}
}

// K returns the number of segments.
func (s *Scorer) K() int {
	return s.set.Model().K()
}

// Score returns a copy of t with the cluster label of each row appended.
// Rows keep their order and the input table is not modified.
func (s *Scorer) Score(t *table.Table) (*table.Table, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	x, err := Features(t)
	if err != nil {
		return nil, err
	}
	labels, err := s.Predict(x)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(labels))
	for i, l := range labels {
		values[i] = strconv.Itoa(l)
	}
	return t.WithColumn(LabelColumn, values)
}

// Predict scales the feature matrix and assigns a label to every row.
func (s *Scorer) Predict(x mat.Matrix) ([]int, error) {
	scaled, err := s.set.Scaler().Transform(x)
	if err != nil {
		return nil, fmt.Errorf("could not scale features: %w", err)
	}
	labels, err := s.set.Model().Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("could not assign clusters: %w", err)
	}
	return labels, nil
}

// Centroids returns the model centers mapped back to original units, one per cluster.
func (s *Scorer) Centroids() ([]Centroid, error) {
	centers, err := s.set.Scaler().InverseTransform(s.set.Model().ClusterCenters())
	if err != nil {
		return nil, fmt.Errorf("could not inverse scale centers: %w", err)
	}
	k, _ := centers.Dims()
	centroids := make([]Centroid, k)
	for i := 0; i < k; i++ {
		centroids[i] = Centroid{
			Label:    i,
			Income:   centers.At(i, 0),
			Spending: centers.At(i, 1),
		}
	}
	return centroids, nil
}

// Features projects the required columns into a matrix, one row per table row.
func Features(t *table.Table) (*mat.Dense, error) {
	if t.Len() == 0 {
		return nil, ErrNoRows
	}
	columns := RequiredColumns()
	x := mat.NewDense(t.Len(), len(columns), nil)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for j, c := range columns {
			raw, ok := row.Get(c)
			if !ok {
				return nil, &MissingColumnsError{Missing: []string{c}}
			}
			v, err := parse(raw)
			if err != nil {
				return nil, &ValueError{
					Row:    i + 1,
					Column: c,
					Value:  raw,
					Err:    err,
				}
			}
			x.Set(i, j, v)
		}
	}
	return x, nil
}

// Labels parses the cluster label column of a scored table.
func Labels(t *table.Table) ([]int, error) {
	values, ok := t.Column(LabelColumn)
	if !ok {
		return nil, &MissingColumnsError{Missing: []string{LabelColumn}}
	}
	labels := make([]int, len(values))
	for i, v := range values {
		l, err := strconv.Atoi(v)
		if err != nil {
			return nil, &ValueError{
				Row:    i + 1,
				Column: LabelColumn,
				Value:  v,
				Err:    err,
			}
		}
		labels[i] = l
	}
	return labels, nil
}

func parse(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("value is not finite")
	}
	return v, nil
}
