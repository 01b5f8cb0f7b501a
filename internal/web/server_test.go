package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"halaqa_points/internal/leaderboard"
	"halaqa_points/internal/levels"
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

func newTestServer(src *fakeSource) *Server {
	svc := leaderboard.NewService(src, leaderboard.DefaultRanges, levels.DefaultTable, nil)
	return NewServer(svc, Options{Addr: ":0"})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func fixture() *fakeSource {
	return &fakeSource{ranges: map[string][][]string{
		leaderboard.DefaultRanges.Students: {
			{"ID", "Name", "Level", "Class", "", "", "Points"},
			{"1", "Ali", "القارئ", "Halaqa 1", "", "", "150"},
			{"2", "Sara", "المبتدئ", "Halaqa 2", "", "", "bad"},
			{"3", "Omar", "الحافظ", "Halaqa 1", "", "", "320"},
		},
		leaderboard.DefaultRanges.Records: {
			{"id", "studentId", "studentName", "pages", "reason", "teacher", "dateTime", "date", "studentNumber", "teacherName", "totalPoints", "level"},
			{"r1", "1", "Ali", "2", "review", "T", "", "", "1001", "Omar", "15", "القارئ"},
			{"r2", "3", "Omar", "1", "attendance", "T", "", "", "1003", "Omar", "5", "الحافظ"},
		},
		leaderboard.DefaultRanges.Announcements: {
			{"Announcements"},
			{"Competition on Friday"},
		},
	}}
}

func TestTopStudents(t *testing.T) {
	rec := get(t, newTestServer(fixture()), "/api/top-students")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 students, got %d", len(got))
	}
	if got[0]["name"] != "Omar" || got[0]["points"] != float64(320) || got[0]["level"] != "الحافظ" {
		t.Errorf("Unexpected first entry: %v", got[0])
	}
}

func TestTopStudentsEmptySheet(t *testing.T) {
	rec := get(t, newTestServer(&fakeSource{}), "/api/top-students")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("Expected [], got %s", body)
	}
}

func TestStudentRecords(t *testing.T) {
	rec := get(t, newTestServer(fixture()), "/api/student-records/1003")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var got struct {
		Records []map[string]string `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0]["id"] != "r2" {
		t.Errorf("Expected record r2, got %v", got.Records)
	}
	if got.Records[0]["studentNumber"] != "1003" || got.Records[0]["totalPoints"] != "5" {
		t.Errorf("Unexpected record fields: %v", got.Records[0])
	}
}

func TestStudentRecordsEmpty(t *testing.T) {
	rec := get(t, newTestServer(&fakeSource{}), "/api/student-records/1")
	if body := strings.TrimSpace(rec.Body.String()); body != `{"records":[]}` {
		t.Errorf(`Expected {"records":[]}, got %s`, body)
	}
}

func TestStudentProfile(t *testing.T) {
	rec := get(t, newTestServer(fixture()), "/api/students/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var got struct {
		Name         string  `json:"name"`
		ClassName    string  `json:"className"`
		Points       int     `json:"points"`
		Rank         int     `json:"rank"`
		NextLevel    string  `json:"nextLevel"`
		PointsNeeded int     `json:"pointsNeeded"`
		Progress     float64 `json:"progress"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if got.Name != "Ali" || got.ClassName != "Halaqa 1" || got.Points != 150 || got.Rank != 2 {
		t.Errorf("Unexpected profile: %+v", got)
	}
	if got.NextLevel != "الحافظ" || got.PointsNeeded != 150 || got.Progress != 50 {
		t.Errorf("Unexpected progress: %+v", got)
	}
}

func TestStudentNotFound(t *testing.T) {
	rec := get(t, newTestServer(fixture()), "/api/students/2")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgStudentNotFound) {
		t.Errorf("Expected not found message, got %s", rec.Body.String())
	}
}

func TestUpstreamFailure(t *testing.T) {
	s := newTestServer(&fakeSource{err: errors.New("sheets unavailable")})

	tests := []struct {
		path    string
		message string
	}{
		{"/api/top-students", msgFetchFailed},
		{"/api/student-records/1", msgRecordsFailed},
		{"/api/students/1", msgFetchFailed},
		{"/api/announcements", msgFetchFailed},
	}

	for _, test := range tests {
		rec := get(t, s, test.path)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", test.path, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: failed to decode body: %v", test.path, err)
		}
		if body["error"] != test.message {
			t.Errorf("%s: expected error %q, got %q", test.path, test.message, body["error"])
		}
		if strings.Contains(rec.Body.String(), "sheets unavailable") {
			t.Errorf("%s: upstream error leaked to client: %s", test.path, rec.Body.String())
		}
	}
}

func TestAnnouncementsAndLevels(t *testing.T) {
	s := newTestServer(fixture())

	rec := get(t, s, "/api/announcements")
	var ann []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ann); err != nil {
		t.Fatalf("Failed to decode announcements: %v", err)
	}
	if len(ann) != 1 || ann[0] != "Competition on Friday" {
		t.Errorf("Unexpected announcements: %v", ann)
	}

	rec = get(t, s, "/api/levels")
	var lv []levels.Level
	if err := json.Unmarshal(rec.Body.Bytes(), &lv); err != nil {
		t.Fatalf("Failed to decode levels: %v", err)
	}
	if len(lv) != 6 || lv[5].MinPoints != 1000 {
		t.Errorf("Unexpected levels: %+v", lv)
	}
}

func TestHeaders(t *testing.T) {
	s := newTestServer(fixture())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://kiosk.local")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header *, got %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Expected nosniff, got %q", got)
	}
}
