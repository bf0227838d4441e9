package analysis

import (
	"sort"

	"github.com/okian/olympics/internal/domain/types"
)

// pivot counts (sport, year) pairs and lays them out as a Sport x Year matrix.
type pivot struct {
	counts map[string]map[int]int
	years  map[int]struct{}
}

func newPivot() *pivot {
	return &pivot{counts: make(map[string]map[int]int), years: make(map[int]struct{})}
}

func (p *pivot) add(sport string, year int) {
	row, ok := p.counts[sport]
	if !ok {
		row = make(map[int]int)
		p.counts[sport] = row
	}
	row[year]++
	p.years[year] = struct{}{}
}

// heatmap fills missing cells with zero.
func (p *pivot) heatmap() types.Heatmap {
	hm := types.Heatmap{Sports: []string{}, Years: []int{}, Cells: [][]int{}}
	for s := range p.counts {
		hm.Sports = append(hm.Sports, s)
	}
	sort.Strings(hm.Sports)
	for y := range p.years {
		hm.Years = append(hm.Years, y)
	}
	sort.Ints(hm.Years)

	for _, s := range hm.Sports {
		row := make([]int, len(hm.Years))
		for j, y := range hm.Years {
			row[j] = p.counts[s][y]
			if row[j] > hm.Max {
				hm.Max = row[j]
			}
		}
		hm.Cells = append(hm.Cells, row)
	}
	return hm
}
