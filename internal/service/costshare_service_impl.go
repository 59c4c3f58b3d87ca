package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/google/uuid"
)

type costShareService struct {
	shares   repository.CostShareRepo
	projects repository.ProjectRepo
	identity Identity
	observer UseCaseObserver
}

func NewCostShareService(
	shares repository.CostShareRepo,
	projects repository.ProjectRepo,
	identity Identity,
	observers ...UseCaseObserver,
) CostShareService {
	return &costShareService{
		shares:   shares,
		projects: projects,
		identity: identity,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Grant shares the project's cost data with userID. Granting again
// replaces the permission.
func (s *costShareService) Grant(ctx context.Context, projectID, userID string, perm domain.PermissionType) (share *domain.CostShare, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "grant-cost-share", startedAt, err,
			map[string]any{"project_id": projectID, "user_id": userID, "permission": string(perm)})
	}()

	if !domain.ValidPermissionTypes[string(perm)] {
		return nil, fmt.Errorf("invalid permission %q (want view or edit)", perm)
	}
	var ownerID string
	if ownerID, err = s.requireOwner(ctx, projectID); err != nil {
		return nil, err
	}
	if userID == ownerID {
		return nil, fmt.Errorf("project owner already has full access")
	}
	share = &domain.CostShare{
		ID:             uuid.New().String(),
		ProjectID:      projectID,
		OwnerID:        ownerID,
		SharedWithID:   userID,
		PermissionType: perm,
		CreatedAt:      startedAt,
		UpdatedAt:      startedAt,
	}
	if err = s.shares.Upsert(ctx, share); err != nil {
		return nil, err
	}
	return s.shares.Get(ctx, projectID, userID)
}

func (s *costShareService) Revoke(ctx context.Context, projectID, userID string) error {
	if _, err := s.requireOwner(ctx, projectID); err != nil {
		return err
	}
	return s.shares.Delete(ctx, projectID, userID)
}

func (s *costShareService) ListByProject(ctx context.Context, projectID string) ([]*domain.CostShare, error) {
	shares, err := s.shares.ListByProject(ctx, projectID)
	return degradeList(ctx, "list-cost-shares", shares, err)
}

func (s *costShareService) ListSharedWithMe(ctx context.Context) ([]*domain.CostShare, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return degradeList[*domain.CostShare](ctx, "list-shared-with-me", nil, err)
	}
	shares, err := s.shares.ListSharedWith(ctx, userID)
	return degradeList(ctx, "list-shared-with-me", shares, err)
}

func (s *costShareService) CanView(ctx context.Context, projectID string) (bool, error) {
	return s.allows(ctx, projectID, domain.PermissionView)
}

func (s *costShareService) CanEdit(ctx context.Context, projectID string) (bool, error) {
	return s.allows(ctx, projectID, domain.PermissionEdit)
}

func (s *costShareService) allows(ctx context.Context, projectID string, want domain.PermissionType) (bool, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if p.OwnerID == userID {
		return true, nil
	}
	share, err := s.shares.Get(ctx, projectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return share.Allows(want), nil
}

func (s *costShareService) requireOwner(ctx context.Context, projectID string) (string, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	if p.OwnerID != userID {
		return "", fmt.Errorf("only the owner can share project %s: %w", p.DisplayID(), ErrForbidden)
	}
	return userID, nil
}
