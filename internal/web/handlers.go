package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"halaqa_points/internal/records"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Messages shown to attendants; details stay in the server log.
const (
	msgFetchFailed     = "حدث خطأ في جلب البيانات"
	msgRecordsFailed   = "Failed to fetch student records"
	msgStudentNotFound = "لم يتم العثور على الطالب"
)

type recordsResponse struct {
	Records []records.HistoryRecord `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTopStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.service.TopStudents(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleStudentRecords(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")

	recs, err := s.service.StudentRecords(r.Context(), studentID)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError, msgRecordsFailed)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: recs})
}

func (s *Server) handleStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")

	profile, err := s.service.Student(r.Context(), studentID)
	if errors.Is(err, records.ErrStudentNotFound) {
		respondError(w, r, err, http.StatusNotFound, msgStudentNotFound)
		return
	}
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := s.service.Announcements(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, announcements)
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Levels())
}

// respondError logs err with the request id and sends the generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
