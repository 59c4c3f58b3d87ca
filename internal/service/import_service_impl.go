package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/importer"
	"github.com/alexanderramin/wbsdesk/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	identity Identity
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, identity Identity, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		identity: identity,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, projectID, path string) (*ImportResult, error) {
	doc, err := importer.LoadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportDocument(ctx, projectID, doc)
}

// ImportDocument appends the document's tasks after the project's
// existing roots. projectID overrides the document's project_id.
// Nothing is written unless every task is.
func (s *importService) ImportDocument(ctx context.Context, projectID string, doc *importer.Document) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "import-wbs", startedAt, err, fields) }()

	if _, err = s.identity.CurrentUserID(ctx); err != nil {
		return nil, err
	}
	if projectID == "" {
		projectID = doc.ProjectID
	}
	if projectID == "" {
		return nil, fmt.Errorf("import needs a project (flag or project_id in the file)")
	}
	fields["project_id"] = projectID
	if errs := importer.Validate(doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result = &ImportResult{ProjectID: projectID, RootCount: len(doc.Tasks)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		tasks := repository.NewSQLiteTaskRepo(tx)
		base, err := tasks.NextOrderIndex(ctx, projectID, "")
		if err != nil {
			return err
		}
		for _, row := range importer.Convert(doc, projectID, base, startedAt) {
			if err := tasks.Create(ctx, row.Task, row.ParentID, row.OrderIndex); err != nil {
				return fmt.Errorf("creating task %q: %w", row.Task.Name, err)
			}
			result.TaskCount++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing into project %s: %w", projectID, err)
	}
	fields["task_count"] = result.TaskCount
	return result, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%s", b.String())
}
