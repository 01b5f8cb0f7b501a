// Package leaderboard answers the attendant's queries by reading the points
// spreadsheet and passing its rows through the record adapter and level table.
package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"halaqa_points/internal/levels"
	"halaqa_points/internal/records"
	"halaqa_points/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Ranges names the spreadsheet ranges each query reads.
type Ranges struct {
	Students      string
	Records       string
	Announcements string
}

// DefaultRanges matches the layout of the points spreadsheet.
var DefaultRanges = Ranges{
	Students:      "Students Data!A:G",
	Records:       "Record Data",
	Announcements: "Announcements!A:A",
}

// FailureReporter is told about every failed source read.
type FailureReporter interface {
	SourceFailure(rangeName string, cause error)
}

// StudentProfile is a student together with their place on the level ladder.
type StudentProfile struct {
	records.Student
	NextLevel    string  `json:"nextLevel,omitempty"`
	PointsNeeded int     `json:"pointsNeeded,omitempty"`
	Progress     float64 `json:"progress"`
}

type Service struct {
	source   sheets.RowSource
	ranges   Ranges
	table    levels.Table
	reporter FailureReporter
}

// NewService builds a Service. reporter may be nil.
func NewService(source sheets.RowSource, ranges Ranges, table levels.Table, reporter FailureReporter) *Service {
	return &Service{
		source:   source,
		ranges:   ranges,
		table:    table,
		reporter: reporter,
	}
}

func (s *Service) read(ctx context.Context, rangeName string) ([][]string, error) {
	rows, err := s.source.Rows(ctx, rangeName)
	if errors.Is(err, context.Canceled) {
		log.Debug().Str("range", rangeName).Msg("Sheet read abandoned by caller")
		return nil, fmt.Errorf("failed to read %s: %w", rangeName, err)
	}
	if err != nil {
		log.Error().Err(err).Str("range", rangeName).Msg("Failed to read sheet range")
		if s.reporter != nil {
			s.reporter.SourceFailure(rangeName, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", rangeName, err)
	}
	return rows, nil
}

// TopStudents returns the leaderboard, at most records.TopLimit entries.
func (s *Service) TopStudents(ctx context.Context) ([]records.RankedStudent, error) {
	rows, err := s.read(ctx, s.ranges.Students)
	if err != nil {
		return nil, err
	}
	return records.ToRankedStudents(rows), nil
}

// StudentRecords returns the points history of the student with the given id or number.
func (s *Service) StudentRecords(ctx context.Context, studentID string) ([]records.HistoryRecord, error) {
	rows, err := s.read(ctx, s.ranges.Records)
	if err != nil {
		return nil, err
	}
	return records.ToHistoryRecords(rows, studentID), nil
}

// Student looks up a student and places them on the level ladder. A blank level
// cell falls back to the level computed from the student's points.
func (s *Service) Student(ctx context.Context, studentID string) (StudentProfile, error) {
	rows, err := s.read(ctx, s.ranges.Students)
	if err != nil {
		return StudentProfile{}, err
	}

	student, err := records.FindStudent(rows, studentID)
	if err != nil {
		return StudentProfile{}, err
	}
	if student.Level == "" {
		student.Level = s.table.Current(student.Points).Name
	}

	progress := s.table.Progress(student.Points)
	profile := StudentProfile{Student: student, Progress: progress.Percent}
	if progress.Next != nil {
		profile.NextLevel = progress.Next.Name
		profile.PointsNeeded = progress.Next.PointsNeeded
	}

	log.Debug().
		Str("student_id", studentID).
		Int("points", student.Points).
		Int("rank", student.Rank).
		Str("next_level", profile.NextLevel).
		Msg("Resolved student profile")
	return profile, nil
}

// Announcements returns the current announcements, newest rows last.
func (s *Service) Announcements(ctx context.Context) ([]string, error) {
	rows, err := s.read(ctx, s.ranges.Announcements)
	if err != nil {
		return nil, err
	}
	return records.ToAnnouncements(rows), nil
}

// Levels returns the level ladder in ascending order.
func (s *Service) Levels() []levels.Level {
	return s.table.Levels()
}

// NextLevel classifies a bare point total.
func (s *Service) NextLevel(points int) (levels.NextLevel, bool) {
	return s.table.NextLevel(points)
}
