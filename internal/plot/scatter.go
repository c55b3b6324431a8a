package plot

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/table"
)

const (
	Title          = "Customer Segments by Income and Spending Score"
	CentroidSeries = "Centroids"
	centroidColor  = "black"
	pointSize      = 10
	centroidSize   = 22
)

// Palette is the qualitative Set2 colour scheme, cycled when there are more labels than colours.
var Palette = []string{
	"#66c2a5",
	"#fc8d62",
	"#8da0cb",
	"#e78ac3",
	"#a6d854",
	"#ffd92f",
	"#e5c494",
	"#b3b3b3",
}

// SeriesName is the legend entry for the given cluster label.
func SeriesName(label int) string {
	return fmt.Sprintf("Cluster %d", label)
}

// Color returns the colour of the given cluster label.
func Color(label int) string {
	i := label % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// Scatter builds the income vs spending score chart for a scored table.
// Every label present gets its own series and the centroids are overlaid as a separate series.
func Scatter(t *table.Table, centroids []segment.Centroid) (*charts.Scatter, error) {
	labels, err := segment.Labels(t)
	if err != nil {
		return nil, err
	}
	x, err := segment.Features(t)
	if err != nil {
		return nil, err
	}

	points := make(map[int][]opts.ScatterData)
	for i, l := range labels {
		row := x.RawRowView(i)
		points[l] = append(points[l], opts.ScatterData{
			Name:       fmt.Sprintf("#%d", i+1),
			Value:      []interface{}{row[0], row[1]},
			SymbolSize: pointSize,
		})
	}
	present := make([]int, 0, len(points))
	for l := range points {
		present = append(present, l)
	}
	sort.Ints(present)

	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
			Top:  "5%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: true,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: segment.IncomeColumn,
			Type: "value",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: segment.SpendingColumn,
			Type: "value",
		}),
	)

	for _, l := range present {
		chart.AddSeries(SeriesName(l), points[l], charts.WithItemStyleOpts(opts.ItemStyle{
			Color:       Color(l),
			BorderColor: centroidColor,
		}))
	}

	centers := make([]opts.ScatterData, len(centroids))
	for i, c := range centroids {
		centers[i] = opts.ScatterData{
			Name:       SeriesName(c.Label),
			Value:      []interface{}{c.Income, c.Spending},
			Symbol:     "diamond",
			SymbolSize: centroidSize,
		}
	}
	chart.AddSeries(CentroidSeries, centers, charts.WithItemStyleOpts(opts.ItemStyle{
		Color: centroidColor,
	}))

	return chart, nil
}

// Render writes the chart for a scored table as a standalone html page.
func Render(w io.Writer, t *table.Table, centroids []segment.Centroid) error {
	chart, err := Scatter(t, centroids)
	if err != nil {
		return fmt.Errorf("could not build scatter plot: %w", err)
	}
	if err := chart.Render(w); err != nil {
		return fmt.Errorf("could not render scatter plot: %w", err)
	}
	return nil
}
