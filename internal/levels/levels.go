package levels

import (
	"fmt"
	"math"
)

// Level is a named tier reached once a student's total meets MinPoints.
type Level struct {
	Name      string `json:"name" mapstructure:"name"`
	MinPoints int    `json:"minPoints" mapstructure:"min_points"`
}

// NextLevel is the tier above the student's current one and the points still missing.
type NextLevel struct {
	Name         string `json:"name"`
	PointsNeeded int    `json:"pointsNeeded"`
}

// Progress summarises where a point total sits on the ladder.
type Progress struct {
	Current Level      `json:"current"`
	Next    *NextLevel `json:"next"`
	Percent float64    `json:"percent"`
}

// Table is an ordered threshold ladder, starting at 0 and strictly increasing.
type Table struct {
	levels []Level
}

// DefaultTable is the ladder used when no levels file is configured.
var DefaultTable = MustTable([]Level{
	{Name: "المبتدئ", MinPoints: 0},
	{Name: "القارئ", MinPoints: 100},
	{Name: "الحافظ", MinPoints: 300},
	{Name: "المجود", MinPoints: 500},
	{Name: "المتقن", MinPoints: 800},
	{Name: "الماهر", MinPoints: 1000},
})

// NewTable validates the ladder and returns a Table holding a copy of it.
func NewTable(levels []Level) (Table, error) {
	if len(levels) == 0 {
		return Table{}, fmt.Errorf("level table is empty")
	}
	if levels[0].MinPoints != 0 {
		return Table{}, fmt.Errorf("first level %q must start at 0 points, got %d", levels[0].Name, levels[0].MinPoints)
	}

	seen := make(map[string]bool, len(levels))
	for i, lvl := range levels {
		if lvl.Name == "" {
			return Table{}, fmt.Errorf("level %d has no name", i)
		}
		if seen[lvl.Name] {
			return Table{}, fmt.Errorf("duplicate level name %q", lvl.Name)
		}
		seen[lvl.Name] = true

		if i > 0 && lvl.MinPoints <= levels[i-1].MinPoints {
			return Table{}, fmt.Errorf("level %q threshold %d must be greater than %q threshold %d",
				lvl.Name, lvl.MinPoints, levels[i-1].Name, levels[i-1].MinPoints)
		}
	}

	return Table{levels: append([]Level(nil), levels...)}, nil
}

// MustTable is NewTable for package-level tables; it panics on an invalid ladder.
func MustTable(levels []Level) Table {
	t, err := NewTable(levels)
	if err != nil {
		panic(err)
	}
	return t
}

// Levels returns a copy of the ladder in ascending order.
func (t Table) Levels() []Level {
	return append([]Level(nil), t.levels...)
}

// NextLevel returns the first level whose threshold is strictly above points.
// The boolean is false when points already meet the top threshold.
func (t Table) NextLevel(points int) (NextLevel, bool) {
	for _, lvl := range t.levels {
		if points < lvl.MinPoints {
			return NextLevel{Name: lvl.Name, PointsNeeded: lvl.MinPoints - points}, true
		}
	}
	return NextLevel{}, false
}

// Current returns the highest level whose threshold is <= points.
// Totals below the first threshold map to the first level.
func (t Table) Current(points int) Level {
	if len(t.levels) == 0 {
		return Level{}
	}
	current := t.levels[0]
	for _, lvl := range t.levels[1:] {
		if lvl.MinPoints > points {
			break
		}
		current = lvl
	}
	return current
}

// Progress reports the current level, the next one and the share of the way there.
func (t Table) Progress(points int) Progress {
	p := Progress{Current: t.Current(points), Percent: 100}

	next, ok := t.NextLevel(points)
	if !ok {
		return p
	}
	p.Next = &next

	if points <= 0 {
		p.Percent = 0
		return p
	}
	pct := float64(points) / float64(points+next.PointsNeeded) * 100
	p.Percent = math.Min(100, math.Round(pct*10)/10)
	return p
}
