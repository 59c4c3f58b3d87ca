package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/google/uuid"
)

type companyService struct {
	companies repository.CompanyRepo
	members   repository.MemberRepo
	uow       db.UnitOfWork
	identity  Identity
	observer  UseCaseObserver
}

func NewCompanyService(
	companies repository.CompanyRepo,
	members repository.MemberRepo,
	uow db.UnitOfWork,
	identity Identity,
	observers ...UseCaseObserver,
) CompanyService {
	return &companyService{
		companies: companies,
		members:   members,
		uow:       uow,
		identity:  identity,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *companyService) Create(ctx context.Context, c *domain.Company) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"company": c.Name}
	defer func() { observe(ctx, s.observer, "create-company", startedAt, err, fields) }()

	var userID string
	if userID, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	if err = c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.OwnerID = userID
	c.CreatedAt = startedAt
	c.UpdatedAt = startedAt

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCompanyRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		return repository.NewSQLiteMemberRepo(tx).Add(ctx, &domain.GroupMember{
			GroupID:  c.ID,
			UserID:   userID,
			Role:     domain.RoleOwner,
			Status:   domain.MemberActive,
			JoinedAt: startedAt,
		})
	})
	if err != nil {
		return fmt.Errorf("creating company: %w", err)
	}
	fields["company_id"] = c.ID
	return nil
}

func (s *companyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *companyService) ListForUser(ctx context.Context) ([]*domain.Company, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return degradeList[*domain.Company](ctx, "list-companies", nil, err)
	}
	companies, err := s.companies.ListForUser(ctx, userID)
	return degradeList(ctx, "list-companies", companies, err)
}

func (s *companyService) Update(ctx context.Context, c *domain.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := requireManager(ctx, s.identity, s.members, c.ID); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return s.companies.Update(ctx, c)
}

func (s *companyService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { observe(ctx, s.observer, "delete-company", startedAt, err, map[string]any{"company_id": id}) }()

	var actor *domain.GroupMember
	if actor, err = requireManager(ctx, s.identity, s.members, id); err != nil {
		return err
	}
	if actor.Role != domain.RoleOwner {
		return fmt.Errorf("only an owner can delete a company: %w", ErrForbidden)
	}
	return s.companies.Delete(ctx, id)
}

// requireManager returns the acting user's membership in groupID when it
// may manage the group.
func requireManager(ctx context.Context, identity Identity, members repository.MemberRepo, groupID string) (*domain.GroupMember, error) {
	userID, err := identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	m, err := members.Get(ctx, groupID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("not a member of company %s: %w", groupID, ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if !m.CanManage() {
		return nil, fmt.Errorf("%s %s cannot manage company %s: %w", m.Status, m.Role, groupID, ErrForbidden)
	}
	return m, nil
}
