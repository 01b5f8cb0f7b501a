package records

import "github.com/rs/zerolog/log"

// HistoryRecord is one points-awarding event. Fields are passed through as typed
// in the sheet, without parsing.
type HistoryRecord struct {
	ID            string `json:"id"`
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	Pages         string `json:"pages"`
	Reason        string `json:"reason"`
	Teacher       string `json:"teacher"`
	DateTime      string `json:"dateTime"`
	Date          string `json:"date"`
	StudentNumber string `json:"studentNumber"`
	TeacherName   string `json:"teacherName"`
	TotalPoints   string `json:"totalPoints"`
	Level         string `json:"level"`
}

func historyFromRow(row Row) HistoryRecord {
	f := HistorySchema.Map(row)
	return HistoryRecord{
		ID:            f["id"],
		StudentID:     f["studentId"],
		StudentName:   f["studentName"],
		Pages:         f["pages"],
		Reason:        f["reason"],
		Teacher:       f["teacher"],
		DateTime:      f["dateTime"],
		Date:          f["date"],
		StudentNumber: f["studentNumber"],
		TeacherName:   f["teacherName"],
		TotalPoints:   f["totalPoints"],
		Level:         f["level"],
	}
}

// ToHistoryRecords returns, in sheet order, the records whose studentId or
// studentNumber equals studentID exactly. The first row is a header.
func ToHistoryRecords(rows []Row, studentID string) []HistoryRecord {
	matches := make([]HistoryRecord, 0)
	if len(rows) <= 1 {
		return matches
	}

	for _, row := range rows[1:] {
		rec := historyFromRow(row)
		if rec.StudentID == studentID || rec.StudentNumber == studentID {
			matches = append(matches, rec)
		}
	}

	log.Debug().
		Str("student_id", studentID).
		Int("total_rows", len(rows)-1).
		Int("matched", len(matches)).
		Msg("Filtered history records")

	return matches
}
