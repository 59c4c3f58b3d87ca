package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	identity Identity
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	identity Identity,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		identity: identity,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) LoadForest(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := s.tasks.ListByProject(ctx, projectID)
	if rows, err = degradeList(ctx, "load-forest", rows, err); err != nil {
		return nil, err
	}
	return wbs.BuildForest(rows), nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, _, err := s.locate(ctx, id)
	return task, err
}

func (s *taskService) Create(ctx context.Context, t *domain.Task, parentID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": t.ProjectID, "parent_id": parentID}
	defer func() { observe(ctx, s.observer, "create-task", startedAt, err, fields) }()

	if _, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task project is required")
	}
	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("progress %d is outside 0-100", t.Progress)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Level = 1
	t.Revision = 0
	t.Children = nil
	t.CreatedAt = startedAt
	t.UpdatedAt = startedAt

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		if parentID != "" {
			parent, err := repo.GetByID(ctx, parentID)
			if err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			if parent.Task.ProjectID != t.ProjectID {
				return fmt.Errorf("parent %s belongs to another project: %w", parentID, ErrInvalidMove)
			}
		}
		order, err := repo.NextOrderIndex(ctx, t.ProjectID, parentID)
		if err != nil {
			return err
		}
		fields["order_index"] = order
		return repo.Create(ctx, t, parentID, order)
	})
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	fields["task_id"] = t.ID
	return nil
}

func (s *taskService) Save(ctx context.Context, t *domain.Task, revision int64) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "save-task", startedAt, err,
			map[string]any{"task_id": t.ID, "revision": revision})
	}()

	if _, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	saved := t.Clone()
	saved.Revision = revision
	saved.UpdatedAt = startedAt

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		if err := repo.Update(ctx, saved); err != nil {
			return err
		}
		if err := repo.ReplaceFiles(ctx, saved.ID, domain.FileAttachment, saved.Attachments); err != nil {
			return err
		}
		return repo.ReplaceFiles(ctx, saved.ID, domain.FileDeliverable, saved.Deliverables)
	})
	if errors.Is(err, repository.ErrRevisionConflict) {
		return fmt.Errorf("%w: %v", ErrStaleRevision, err)
	}
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-task", startedAt, err, map[string]any{"task_id": id}) }()

	if _, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) Parent(ctx context.Context, id string) (*domain.Task, bool, error) {
	_, forest, err := s.locate(ctx, id)
	if err != nil {
		return nil, false, err
	}
	parent, ok := wbs.FindParentTask(id, forest)
	return parent, ok, nil
}

func (s *taskService) Children(ctx context.Context, id string) ([]*domain.Task, error) {
	_, forest, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	return wbs.FindChildTasks(id, forest), nil
}

func (s *taskService) Move(ctx context.Context, id, newParentID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "move-task", startedAt, err,
			map[string]any{"task_id": id, "parent_id": newParentID})
	}()

	if _, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		row, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		projectID := row.Task.ProjectID
		if newParentID != "" {
			if newParentID == id {
				return fmt.Errorf("task cannot be its own parent: %w", ErrInvalidMove)
			}
			rows, err := repo.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			idx := wbs.NewIndex(wbs.BuildForest(rows))
			if _, ok := idx.Task(newParentID); !ok {
				return fmt.Errorf("parent %s is not in project %s: %w", newParentID, projectID, ErrInvalidMove)
			}
			if idx.IsDescendant(newParentID, id) {
				return fmt.Errorf("parent %s is inside the moved subtree: %w", newParentID, ErrInvalidMove)
			}
		}
		order, err := repo.NextOrderIndex(ctx, projectID, newParentID)
		if err != nil {
			return err
		}
		return repo.Move(ctx, id, newParentID, order)
	})
}

// locate finds id inside its project's forest.
func (s *taskService) locate(ctx context.Context, id string) (*domain.Task, []*domain.Task, error) {
	row, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.tasks.ListByProject(ctx, row.Task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	forest := wbs.BuildForest(rows)
	task, ok := wbs.FindTaskByID(forest, id)
	if !ok {
		return nil, nil, fmt.Errorf("task %s: %w", id, repository.ErrNotFound)
	}
	return task, forest, nil
}
