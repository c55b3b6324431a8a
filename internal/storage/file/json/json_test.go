package json

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-segments/internal/storage"
)

type params struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")

	p := params{
		Mean:  []float64{60.56, 50.2},
		Scale: []float64{26.198, 25.758},
	}
	err := Save(dir, "scaler.json", p)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "scaler.json"))
	assert.NoError(t, err)

	var loaded params
	err = Load(dir, "scaler.json", &loaded)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	type test struct {
		file string
		err  error
	}

	tests := map[string]test{
		"missing": {
			file: "missing.json",
			err:  storage.NotFoundErr,
		},
		"corrupt": {
			file: "broken.json",
			err:  storage.CouldNotLoadErr,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var p params
			err := Load(dir, tt.file, &p)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestSave_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	err := Save(f, "scaler.json", params{})
	assert.Error(t, err)
}
