package records

import (
	"errors"
	"strings"
)

// ErrStudentNotFound is returned when no rankable row carries the requested id.
var ErrStudentNotFound = errors.New("student not found")

// Student is the attendant's view of one student.
type Student struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	Level     string `json:"level"`
	Points    int    `json:"points"`
	Rank      int    `json:"rank"`
}

// FindStudent looks a student up by the id column. Rank is the 1-based position
// among all rankable students. Rows with invalid points cannot be found.
func FindStudent(rows []Row, id string) (Student, error) {
	for i, c := range rankCandidates(rows) {
		if c.id != id {
			continue
		}
		return Student{
			ID:        c.id,
			Name:      c.Name,
			ClassName: c.className,
			Level:     c.Level,
			Points:    c.Points,
			Rank:      i + 1,
		}, nil
	}
	return Student{}, ErrStudentNotFound
}

// ToAnnouncements returns the non-blank first cells below the header.
func ToAnnouncements(rows []Row) []string {
	out := make([]string, 0)
	if len(rows) <= 1 {
		return out
	}
	for _, row := range rows[1:] {
		text := strings.TrimSpace(cell(row, 0))
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}
