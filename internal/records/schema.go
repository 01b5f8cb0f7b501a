package records

import "fmt"

// Row is one spreadsheet row; column position is its only structure.
type Row = []string

// Column pairs a record field with the sheet column it is read from.
type Column struct {
	Field string
	Index int
}

// Schema is a validated positional mapping from sheet columns to named fields.
type Schema struct {
	columns []Column
	byField map[string]int
}

// NewSchema validates the mapping once so lookups never need to re-check it.
func NewSchema(columns ...Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema has no columns")
	}

	s := &Schema{
		columns: append([]Column(nil), columns...),
		byField: make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if col.Field == "" {
			return nil, fmt.Errorf("schema column %d has no field name", col.Index)
		}
		if col.Index < 0 {
			return nil, fmt.Errorf("field %q has negative column index %d", col.Field, col.Index)
		}
		if _, dup := s.byField[col.Field]; dup {
			return nil, fmt.Errorf("duplicate field %q in schema", col.Field)
		}
		s.byField[col.Field] = col.Index
	}
	return s, nil
}

// MustSchema is NewSchema for package-level schemas.
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns the mapping in declaration order.
func (s *Schema) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

// Get returns the cell for field, or "" when the row is too short.
// Unknown fields panic: schemas are fixed at compile time.
func (s *Schema) Get(row Row, field string) string {
	idx, ok := s.byField[field]
	if !ok {
		panic(fmt.Sprintf("records: field %q not in schema", field))
	}
	return cell(row, idx)
}

// Map returns every schema field of row keyed by name.
func (s *Schema) Map(row Row) map[string]string {
	out := make(map[string]string, len(s.columns))
	for _, col := range s.columns {
		out[col.Field] = cell(row, col.Index)
	}
	return out
}

func cell(row Row, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

// Field names of the students sheet.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldLevel     = "level"
	FieldClassName = "className"
	FieldPoints    = "points"
)

// StudentSchema maps the students sheet (range A:G).
var StudentSchema = MustSchema(
	Column{FieldID, 0},
	Column{FieldName, 1},
	Column{FieldLevel, 2},
	Column{FieldClassName, 3},
	Column{FieldPoints, 6},
)

// HistorySchema maps the points log sheet, one awarding event per row.
var HistorySchema = MustSchema(
	Column{"id", 0},
	Column{"studentId", 1},
	Column{"studentName", 2},
	Column{"pages", 3},
	Column{"reason", 4},
	Column{"teacher", 5},
	Column{"dateTime", 6},
	Column{"date", 7},
	Column{"studentNumber", 8},
	Column{"teacherName", 9},
	Column{"totalPoints", 10},
	Column{"level", 11},
)
