package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
)

// Validate checks the document before conversion and returns every
// problem found, each prefixed with the task's path in the tree.
func Validate(doc *Document) []error {
	var errs []error
	if len(doc.Tasks) == 0 {
		errs = append(errs, fmt.Errorf("tasks: at least one task is required"))
	}
	for i := range doc.Tasks {
		errs = append(errs, validateTask(fmt.Sprintf("tasks[%d]", i), &doc.Tasks[i])...)
	}
	return errs
}

func validateTask(path string, t *TaskImport) []error {
	var errs []error

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	for _, d := range []struct{ field, value string }{
		{"start_date", t.StartDate},
		{"end_date", t.EndDate},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: invalid date format %q (expected YYYY-MM-DD)", path, d.field, d.value))
		}
	}
	if t.Status != "" {
		if _, err := domain.ParseTaskStatus(t.Status); err != nil {
			errs = append(errs, fmt.Errorf("%s.status: %w", path, err))
		}
	}
	if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
		errs = append(errs, fmt.Errorf("%s.progress: %d is outside 0-100", path, *t.Progress))
	}

	for i := range t.Children {
		errs = append(errs, validateTask(fmt.Sprintf("%s.children[%d]", path, i), &t.Children[i])...)
	}
	return errs
}
