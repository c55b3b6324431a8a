package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/table"
)

const scored = `Annual Income (k$),Spending Score (1-100),Cluster Label
15,39,0
16,81,2
25,41,0
`

var centroids = []segment.Centroid{
	{Label: 0, Income: 40, Spending: 40},
	{Label: 1, Income: 60, Spending: 60},
	{Label: 2, Income: 40, Spending: 60},
}

func TestScatter(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(scored))
	require.NoError(t, err)

	chart, err := Scatter(tbl, centroids)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, s := range chart.MultiSeries {
		names = append(names, s.Name)
	}
	// only labels present in the data get a series, centroids always come last
	assert.Equal(t, []string{"Cluster 0", "Cluster 2", CentroidSeries}, names)
}

func TestScatter_Unscored(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("Annual Income (k$),Spending Score (1-100)\n15,39\n"))
	require.NoError(t, err)

	_, err = Scatter(tbl, centroids)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader(scored))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Render(&buf, tbl, centroids)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, CentroidSeries)
	assert.Contains(t, html, "Cluster 2")
	assert.Contains(t, html, "diamond")
}

func TestColor(t *testing.T) {
	assert.Equal(t, Palette[0], Color(0))
	assert.Equal(t, Palette[0], Color(len(Palette)))
	assert.Equal(t, Palette[len(Palette)-1], Color(-1))
	assert.NotEqual(t, Color(0), Color(1))
}
