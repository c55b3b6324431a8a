package segment

import (
	"sort"

	"github.com/drakos74/free-segments/internal/buffer"
	"github.com/drakos74/free-segments/internal/table"
)

// Spread describes one feature within a segment.
type Spread struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	StDev float64 `json:"stdev"`
}

func newSpread(s buffer.Stats) Spread {
	return Spread{
		Avg:   s.Avg(),
		Min:   s.Min(),
		Max:   s.Max(),
		StDev: s.StDev(),
	}
}

// Summary describes the customers assigned to one segment.
type Summary struct {
	Label    int    `json:"label"`
	Count    int    `json:"count"`
	Income   Spread `json:"income"`
	Spending Spread `json:"spending"`
}

// Summarize groups a scored table by label, ordered by label.
func Summarize(t *table.Table) ([]Summary, error) {
	labels, err := Labels(t)
	if err != nil {
		return nil, err
	}
	x, err := Features(t)
	if err != nil {
		return nil, err
	}

	groups := make(map[int]*buffer.StatsCollector)
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			groups[l] = buffer.NewStatsCollector(2)
		}
		if err := groups[l].Push(x.RawRowView(i)...); err != nil {
			return nil, err
		}
	}

	summaries := make([]Summary, 0, len(groups))
	for l, g := range groups {
		stats := g.Stats()
		summaries = append(summaries, Summary{
			Label:    l,
			Count:    g.Size(),
			Income:   newSpread(stats[0]),
			Spending: newSpread(stats[1]),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Label < summaries[j].Label
	})
	return summaries, nil
}
