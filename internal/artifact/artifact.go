package artifact

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Features is the number of customer features, income and spending score,
// the artifacts must be fitted on.
const Features = 2

// ErrShape is returned when the artifacts do not fit the customer features.
var ErrShape = errors.New("artifacts do not match the customer features")

// Set holds the fitted scaler and the cluster model.
// It is built once at startup and only read afterwards.
type Set struct {
	scaler *Scaler
	model  *Model
}

// NewSet combines a scaler and a model that were fitted on the same features.
func NewSet(scaler *Scaler, model *Model) (*Set, error) {
	if scaler == nil || model == nil {
		return nil, fmt.Errorf("both scaler and model are required")
	}
	if scaler.Dims() != model.Dims() {
		return nil, fmt.Errorf("scaler has %d features but model centers have %d: %w", scaler.Dims(), model.Dims(), ErrShape)
	}
	if scaler.Dims() != Features {
		return nil, fmt.Errorf("artifacts have %d features, expected %d: %w", scaler.Dims(), Features, ErrShape)
	}
	if model.K() < 1 {
		return nil, fmt.Errorf("model has no clusters: %w", ErrShape)
	}
	return &Set{
		scaler: scaler,
		model:  model,
	}, nil
}

// Load loads the scaler and the model from the given files.
func Load(scalerPath, modelPath string) (*Set, error) {
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	return NewSet(scaler, model)
}

// MustLoad loads the artifacts and exits the process if any of them is unusable.
func MustLoad(scalerPath, modelPath string) *Set {
	set, err := Load(scalerPath, modelPath)
	if err != nil {
		log.Fatal().
			Err(err).
			Str("scaler", scalerPath).
			Str("model", modelPath).
			Msg("could not load model artifacts")
	}
	log.Info().
		Str("scaler", scalerPath).
		Str("model", modelPath).
		Int("clusters", set.model.K()).
		Int("features", set.model.Dims()).
		Msg("loaded model artifacts")
	return set
}

// Scaler returns the fitted scaler.
func (s *Set) Scaler() *Scaler {
	return s.scaler
}

// Model returns the cluster model.
func (s *Set) Model() *Model {
	return s.model
}
