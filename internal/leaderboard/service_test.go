package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"halaqa_points/internal/levels"
	"halaqa_points/internal/records"
	"halaqa_points/internal/retry"
	"halaqa_points/internal/sheets"
)

type fakeSource struct {
	ranges map[string][][]string
	err    error
}

func (f *fakeSource) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ranges[rangeName], nil
}

type recordingReporter struct {
	ranges []string
}

func (r *recordingReporter) SourceFailure(rangeName string, cause error) {
	r.ranges = append(r.ranges, rangeName)
}

func newTestService(src *fakeSource, reporter FailureReporter) *Service {
	table := levels.MustTable([]levels.Level{
		{Name: "A", MinPoints: 0},
		{Name: "B", MinPoints: 100},
		{Name: "C", MinPoints: 300},
	})
	return NewService(src, DefaultRanges, table, reporter)
}

func studentRows() [][]string {
	return [][]string{
		{"ID", "Name", "Level", "Class", "", "", "Points"},
		{"1", "Ali", "B", "Halaqa 1", "", "", "150"},
		{"2", "Sara", "", "Halaqa 2", "", "", "250"},
		{"3", "Omar", "C", "Halaqa 1", "", "", "300"},
	}
}

func TestStudentProfile(t *testing.T) {
	svc := newTestService(&fakeSource{ranges: map[string][][]string{DefaultRanges.Students: studentRows()}}, nil)

	p, err := svc.Student(context.Background(), "2")
	if err != nil {
		t.Fatalf("Student() error = %v", err)
	}
	if p.Level != "B" {
		t.Errorf("Expected blank level to fall back to B, got %q", p.Level)
	}
	if p.NextLevel != "C" || p.PointsNeeded != 50 {
		t.Errorf("Expected next level C with 50 needed, got %s %d", p.NextLevel, p.PointsNeeded)
	}
	if p.Rank != 2 {
		t.Errorf("Expected rank 2, got %d", p.Rank)
	}

	top, err := svc.Student(context.Background(), "3")
	if err != nil {
		t.Fatalf("Student() error = %v", err)
	}
	if top.NextLevel != "" || top.PointsNeeded != 0 || top.Progress != 100 {
		t.Errorf("Expected terminal level for 300 points, got %+v", top)
	}
}

func TestStudentNotFound(t *testing.T) {
	svc := newTestService(&fakeSource{ranges: map[string][][]string{DefaultRanges.Students: studentRows()}}, nil)
	if _, err := svc.Student(context.Background(), "404"); !errors.Is(err, records.ErrStudentNotFound) {
		t.Errorf("Expected ErrStudentNotFound, got %v", err)
	}
}

func TestTopStudentsAndRecords(t *testing.T) {
	src := &fakeSource{ranges: map[string][][]string{
		DefaultRanges.Students: studentRows(),
		DefaultRanges.Records: {
			{"id", "studentId"},
			{"r1", "1"},
			{"r2", "2"},
		},
	}}
	svc := newTestService(src, nil)

	top, err := svc.TopStudents(context.Background())
	if err != nil {
		t.Fatalf("TopStudents() error = %v", err)
	}
	if len(top) != 3 || top[0].Name != "Omar" {
		t.Errorf("Expected Omar first of 3, got %+v", top)
	}

	recs, err := svc.StudentRecords(context.Background(), "1")
	if err != nil {
		t.Fatalf("StudentRecords() error = %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "r1" {
		t.Errorf("Expected record r1, got %+v", recs)
	}
}

func TestEmptySource(t *testing.T) {
	svc := newTestService(&fakeSource{ranges: map[string][][]string{}}, nil)

	top, err := svc.TopStudents(context.Background())
	if err != nil || top == nil || len(top) != 0 {
		t.Errorf("Expected empty leaderboard, got %v, %v", top, err)
	}
	recs, err := svc.StudentRecords(context.Background(), "1")
	if err != nil || recs == nil || len(recs) != 0 {
		t.Errorf("Expected empty records, got %v, %v", recs, err)
	}
	ann, err := svc.Announcements(context.Background())
	if err != nil || ann == nil || len(ann) != 0 {
		t.Errorf("Expected empty announcements, got %v, %v", ann, err)
	}
}

func TestSourceFailureIsReported(t *testing.T) {
	upstream := errors.New("quota exceeded")
	reporter := &recordingReporter{}
	svc := newTestService(&fakeSource{err: upstream}, reporter)

	_, err := svc.TopStudents(context.Background())
	if !errors.Is(err, upstream) {
		t.Errorf("Expected wrapped upstream error, got %v", err)
	}
	if len(reporter.ranges) != 1 || reporter.ranges[0] != DefaultRanges.Students {
		t.Errorf("Expected failure reported for students range, got %v", reporter.ranges)
	}
}

type blockingSource struct{}

func (blockingSource) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCancelledReadIsNotReported(t *testing.T) {
	reporter := &recordingReporter{}
	source := sheets.NewRetryingSource(blockingSource{}, retry.Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
		Timeout:    time.Second,
	})
	svc := NewService(source, DefaultRanges, levels.DefaultTable, reporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := svc.TopStudents(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(reporter.ranges) != 0 {
		t.Errorf("Expected no failure reported for a cancelled read, got %v", reporter.ranges)
	}
}

func TestLevelsAndNextLevel(t *testing.T) {
	svc := newTestService(&fakeSource{}, nil)
	if len(svc.Levels()) != 3 {
		t.Errorf("Expected 3 levels, got %d", len(svc.Levels()))
	}
	next, ok := svc.NextLevel(250)
	if !ok || next.Name != "C" || next.PointsNeeded != 50 {
		t.Errorf("Expected {C 50}, got %+v %v", next, ok)
	}
}
