package records

import (
	"sort"

	"github.com/rs/zerolog/log"
)

// TopLimit is the number of students on the leaderboard.
const TopLimit = 10

// RankedStudent is a student reduced to what the leaderboard shows.
type RankedStudent struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  string `json:"level"`
}

// ToRankedStudents returns the top students by points, highest first.
// The first row is a header. Rows whose points cell is not an integer are left out.
func ToRankedStudents(rows []Row) []RankedStudent {
	ranked := RankAll(rows)
	if len(ranked) > TopLimit {
		ranked = ranked[:TopLimit]
	}
	return ranked
}

// RankAll returns every rankable student, highest points first. Students with
// equal points keep their sheet order.
func RankAll(rows []Row) []RankedStudent {
	candidates := rankCandidates(rows)

	students := make([]RankedStudent, 0, len(candidates))
	for _, c := range candidates {
		students = append(students, c.RankedStudent)
	}
	return students
}

type candidate struct {
	RankedStudent
	id        string
	className string
}

// rankCandidates parses the body rows and sorts them by points.
func rankCandidates(rows []Row) []candidate {
	if len(rows) <= 1 {
		return nil
	}

	candidates := make([]candidate, 0, len(rows)-1)
	for i, row := range rows[1:] {
		raw := StudentSchema.Get(row, FieldPoints)
		points, ok := ParsePoints(raw)
		if !ok || points < 0 {
			log.Debug().
				Int("row", i+2).
				Str("points", raw).
				Msg("Skipping student row with invalid points")
			continue
		}

		candidates = append(candidates, candidate{
			RankedStudent: RankedStudent{
				Name:   StudentSchema.Get(row, FieldName),
				Points: points,
				Level:  StudentSchema.Get(row, FieldLevel),
			},
			id:        StudentSchema.Get(row, FieldID),
			className: StudentSchema.Get(row, FieldClassName),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Points > candidates[j].Points
	})

	log.Debug().
		Int("total_rows", len(rows)-1).
		Int("ranked", len(candidates)).
		Msg("Ranked student rows")

	return candidates
}
