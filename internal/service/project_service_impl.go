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

type projectService struct {
	projects  repository.ProjectRepo
	favorites repository.FavoriteRepo
	members   repository.MemberRepo
	identity  Identity
	observer  UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	favorites repository.FavoriteRepo,
	members repository.MemberRepo,
	identity Identity,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects:  projects,
		favorites: favorites,
		members:   members,
		identity:  identity,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": p.Name}
	defer func() { observe(ctx, s.observer, "create-project", startedAt, err, fields) }()

	var userID string
	if userID, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = domain.ProjectPlanning
	}
	if err = p.Validate(); err != nil {
		return err
	}
	if p.CompanyID != "" {
		if err = s.requireActiveMember(ctx, p.CompanyID, userID); err != nil {
			return err
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.OwnerID = userID
	p.CreatedAt = startedAt
	p.UpdatedAt = startedAt
	if err = s.projects.Create(ctx, p); err != nil {
		return err
	}
	fields["project_id"] = p.ID
	return nil
}

func (s *projectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return degradeList[*domain.Project](ctx, "list-projects", nil, err)
	}
	projects, err := s.projects.ListVisible(ctx, userID)
	return degradeList(ctx, "list-projects", projects, err)
}

func (s *projectService) ListByCompany(ctx context.Context, companyID string) ([]*domain.Project, error) {
	projects, err := s.projects.ListByCompany(ctx, companyID)
	return degradeList(ctx, "list-company-projects", projects, err)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	stored, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := s.requireEditor(ctx, stored); err != nil {
		return err
	}
	p.OwnerID = stored.OwnerID
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Delete is restricted to the project owner.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-project", startedAt, err, map[string]any{"project_id": id}) }()

	var userID string
	if userID, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	var p *domain.Project
	if p, err = s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	if p.OwnerID != userID {
		return fmt.Errorf("only the owner can delete project %s: %w", p.DisplayID(), ErrForbidden)
	}
	return s.projects.Delete(ctx, id)
}

func (s *projectService) ToggleFavorite(ctx context.Context, projectID string) (bool, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return false, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return false, err
	}
	fav, err := s.favorites.Exists(ctx, userID, projectID)
	if err != nil {
		return false, err
	}
	if fav {
		return false, s.favorites.Remove(ctx, userID, projectID)
	}
	return true, s.favorites.Add(ctx, &domain.ProjectFavorite{
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *projectService) ListFavorites(ctx context.Context) ([]*domain.Project, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return degradeList[*domain.Project](ctx, "list-favorites", nil, err)
	}
	projects, err := s.favorites.ListProjects(ctx, userID)
	return degradeList(ctx, "list-favorites", projects, err)
}

func (s *projectService) IsFavorite(ctx context.Context, projectID string) (bool, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.favorites.Exists(ctx, userID, projectID)
}

func (s *projectService) requireActiveMember(ctx context.Context, companyID, userID string) error {
	m, err := s.members.Get(ctx, companyID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("not a member of company %s: %w", companyID, ErrForbidden)
	}
	if err != nil {
		return err
	}
	if m.Status != domain.MemberActive {
		return fmt.Errorf("membership in company %s is %s: %w", companyID, m.Status, ErrForbidden)
	}
	return nil
}

// requireEditor allows the owner and the managers of the project's company.
func (s *projectService) requireEditor(ctx context.Context, p *domain.Project) error {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		return nil
	}
	if p.CompanyID != "" {
		m, err := s.members.Get(ctx, p.CompanyID, userID)
		if err == nil && m.CanManage() {
			return nil
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return fmt.Errorf("cannot edit project %s: %w", p.DisplayID(), ErrForbidden)
}
