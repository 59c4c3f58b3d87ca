package repository

import (
	"context"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
)

type ProfileRepo interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
}

type CompanyRepo interface {
	Create(ctx context.Context, c *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	// ListForUser returns companies where userID is an active member.
	ListForUser(ctx context.Context, userID string) ([]*domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}

type MemberRepo interface {
	Add(ctx context.Context, m *domain.GroupMember) error
	Get(ctx context.Context, groupID, userID string) (*domain.GroupMember, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.GroupMember, error)
	Update(ctx context.Context, m *domain.GroupMember) error
	Remove(ctx context.Context, groupID, userID string) error
	// CountActiveOwners counts active members with the owner role.
	CountActiveOwners(ctx context.Context, groupID string) (int, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// ListVisible returns projects the user owns, can reach through an
	// active company membership, or has a cost share on.
	ListVisible(ctx context.Context, userID string) ([]*domain.Project, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type FavoriteRepo interface {
	Add(ctx context.Context, f *domain.ProjectFavorite) error
	Remove(ctx context.Context, userID, projectID string) error
	Exists(ctx context.Context, userID, projectID string) (bool, error)
	ListProjects(ctx context.Context, userID string) ([]*domain.Project, error)
}

type CostShareRepo interface {
	// Upsert creates the share or replaces its permission.
	Upsert(ctx context.Context, s *domain.CostShare) error
	Get(ctx context.Context, projectID, sharedWithID string) (*domain.CostShare, error)
	Delete(ctx context.Context, projectID, sharedWithID string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.CostShare, error)
	ListSharedWith(ctx context.Context, userID string) ([]*domain.CostShare, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task, parentID string, orderIndex int) error
	GetByID(ctx context.Context, id string) (wbs.Row, error)
	// ListByProject returns every task of the project with its files and
	// parent link, children unset. Use wbs.BuildForest to assemble them.
	ListByProject(ctx context.Context, projectID string) ([]wbs.Row, error)
	// Update writes t only when t.Revision is newer than the stored
	// revision; otherwise it returns ErrRevisionConflict.
	Update(ctx context.Context, t *domain.Task) error
	Move(ctx context.Context, id, parentID string, orderIndex int) error
	NextOrderIndex(ctx context.Context, projectID, parentID string) (int, error)
	ReplaceFiles(ctx context.Context, taskID string, kind domain.FileKind, files []domain.AttachmentFile) error
	Delete(ctx context.Context, id string) error
}
