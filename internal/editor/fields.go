package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// Field names a single editable property of a task.
type Field string

const (
	FieldName        Field = "name"
	FieldStartDate   Field = "start_date"
	FieldEndDate     Field = "end_date"
	FieldAssignee    Field = "assignee"
	FieldStatus      Field = "status"
	FieldProgress    Field = "progress"
	FieldDescription Field = "description"
)

// Fields lists the editable fields in display order.
var Fields = []Field{
	FieldName, FieldStatus, FieldProgress, FieldStartDate, FieldEndDate, FieldAssignee, FieldDescription,
}

// ParseField accepts the field name with either '-' or '_' separators.
func ParseField(s string) (Field, error) {
	f := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Label is the human-readable field name.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldStartDate:
		return "Start"
	case FieldEndDate:
		return "End"
	case FieldAssignee:
		return "Assignee"
	case FieldStatus:
		return "Status"
	case FieldProgress:
		return "Progress"
	case FieldDescription:
		return "Description"
	}
	return string(f)
}

// FieldValue renders the current value of f on t as editable text.
func FieldValue(t *domain.Task, f Field) string {
	switch f {
	case FieldName:
		return t.Name
	case FieldStartDate:
		return t.StartDate
	case FieldEndDate:
		return t.EndDate
	case FieldAssignee:
		return t.Assignee
	case FieldStatus:
		return string(t.Status)
	case FieldProgress:
		return strconv.Itoa(t.Progress)
	case FieldDescription:
		return t.Description
	}
	return ""
}

// applyField parses value and writes it into f on t. t is left untouched
// when value is invalid.
func applyField(t *domain.Task, f Field, value, assigneeID string) error {
	switch f {
	case FieldName:
		name := strings.TrimSpace(value)
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
		t.Name = name
	case FieldStartDate, FieldEndDate:
		date, err := normalizeDate(value)
		if err != nil {
			return err
		}
		if f == FieldStartDate {
			t.StartDate = date
		} else {
			t.EndDate = date
		}
	case FieldAssignee:
		name := strings.TrimSpace(value)
		t.Assignee = name
		if name == "" {
			t.AssigneeID = ""
		} else {
			t.AssigneeID = assigneeID
		}
	case FieldStatus:
		s, err := domain.ParseTaskStatus(value)
		if err != nil {
			return err
		}
		t.Status = s
	case FieldProgress:
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "%"))
		if err != nil {
			return fmt.Errorf("progress must be a whole number: %w", err)
		}
		if n < 0 || n > 100 {
			return fmt.Errorf("progress %d is outside 0-100", n)
		}
		t.Progress = n
	case FieldDescription:
		t.Description = value
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

// normalizeDate accepts an empty string (clears the date) or YYYY-MM-DD.
func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return d.Format(domain.DateLayout), nil
}
