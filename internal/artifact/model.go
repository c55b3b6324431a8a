package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/cdipaolo/goml/cluster"
	"gonum.org/v1/gonum/mat"

	"github.com/drakos74/free-segments/internal/storage"
)

// Model is a fitted k-means model.
// Labels are assigned to the nearest center, the lowest label wins ties.
type Model struct {
	kmeans *cluster.KMeans
	dims   int
}

// NewModel creates a model from its centers in scaled feature space.
func NewModel(centers [][]float64) (*Model, error) {
	km := cluster.NewKMeans(len(centers), 0, nil)
	km.Centroids = make([][]float64, len(centers))
	for i, c := range centers {
		km.Centroids[i] = append([]float64{}, c...)
	}
	return newModel(km)
}

// LoadModel restores the model centers from the file at path.
func LoadModel(path string) (*Model, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load model '%s': %w", path, storage.NotFoundErr)
		}
		return nil, fmt.Errorf("could not load model '%s' %s: %w", path, err.Error(), storage.CouldNotLoadErr)
	}
	km := cluster.NewKMeans(0, 0, nil)
	if err := km.RestoreFromFile(path); err != nil {
		return nil, fmt.Errorf("could not restore model '%s' %s: %w", path, err.Error(), storage.CouldNotLoadErr)
	}
	return newModel(km)
}

func newModel(km *cluster.KMeans) (*Model, error) {
	if len(km.Centroids) == 0 {
		return nil, fmt.Errorf("model has no cluster centers")
	}
	dims := len(km.Centroids[0])
	if dims == 0 {
		return nil, fmt.Errorf("model cluster centers have no features")
	}
	for i, c := range km.Centroids {
		if len(c) != dims {
			return nil, fmt.Errorf("cluster center %d has %d features instead of %d", i, len(c), dims)
		}
		for _, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("cluster center %d is not finite", i)
			}
		}
	}
	return &Model{
		kmeans: km,
		dims:   dims,
	}, nil
}

// K returns the number of clusters.
func (m *Model) K() int {
	return len(m.kmeans.Centroids)
}

// Dims returns the number of features of each center.
func (m *Model) Dims() int {
	return m.dims
}

// ClusterCenters returns a copy of the centers, one row per cluster.
func (m *Model) ClusterCenters() *mat.Dense {
	centers := mat.NewDense(m.K(), m.dims, nil)
	for i, c := range m.kmeans.Centroids {
		centers.SetRow(i, c)
	}
	return centers
}

// Predict assigns a cluster label to every row of x.
func (m *Model) Predict(x mat.Matrix) ([]int, error) {
	r, c := x.Dims()
	if c != m.dims {
		return nil, fmt.Errorf("model expects %d features but got %d", m.dims, c)
	}
	labels := make([]int, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		guess, err := m.kmeans.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("could not predict row %d: %w", i, err)
		}
		labels[i] = int(math.Round(guess[0]))
	}
	return labels, nil
}
