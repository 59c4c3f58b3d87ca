package service

import (
	"context"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/importer"
)

type ProfileService interface {
	Register(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
}

type CompanyService interface {
	// Create stores the company and makes the acting user its owner.
	Create(ctx context.Context, c *domain.Company) error
	Get(ctx context.Context, id string) (*domain.Company, error)
	ListForUser(ctx context.Context) ([]*domain.Company, error)
	Update(ctx context.Context, c *domain.Company) error
	Delete(ctx context.Context, id string) error
}

type MemberService interface {
	Add(ctx context.Context, groupID, userID string, role domain.MemberRole) (*domain.GroupMember, error)
	List(ctx context.Context, groupID string) ([]*domain.GroupMember, error)
	UpdateRole(ctx context.Context, groupID, userID string, role domain.MemberRole) error
	UpdateStatus(ctx context.Context, groupID, userID string, status domain.MemberStatus) error
	Remove(ctx context.Context, groupID, userID string) error
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	// List returns every project visible to the acting user.
	List(ctx context.Context) ([]*domain.Project, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	// ToggleFavorite flips the favorite flag and reports the new state.
	ToggleFavorite(ctx context.Context, projectID string) (bool, error)
	ListFavorites(ctx context.Context) ([]*domain.Project, error)
	IsFavorite(ctx context.Context, projectID string) (bool, error)
}

type CostShareService interface {
	Grant(ctx context.Context, projectID, userID string, perm domain.PermissionType) (*domain.CostShare, error)
	Revoke(ctx context.Context, projectID, userID string) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.CostShare, error)
	ListSharedWithMe(ctx context.Context) ([]*domain.CostShare, error)
	CanView(ctx context.Context, projectID string) (bool, error)
	CanEdit(ctx context.Context, projectID string) (bool, error)
}

type TaskService interface {
	// LoadForest returns the project's task tree.
	LoadForest(ctx context.Context, projectID string) ([]*domain.Task, error)
	// Get returns the task with its subtree.
	Get(ctx context.Context, id string) (*domain.Task, error)
	// Create appends t under parentID, or as a root when parentID is "".
	Create(ctx context.Context, t *domain.Task, parentID string) error
	// Save persists the editor's view of t at revision. It fails with
	// ErrStaleRevision when a newer save already landed.
	Save(ctx context.Context, t *domain.Task, revision int64) error
	Delete(ctx context.Context, id string) error
	Parent(ctx context.Context, id string) (*domain.Task, bool, error)
	Children(ctx context.Context, id string) ([]*domain.Task, error)
	// Move re-parents the task, appending it after its new siblings.
	// An empty newParentID makes it a root.
	Move(ctx context.Context, id, newParentID string) error
}

// ImportResult holds the outcome of a WBS import.
type ImportResult struct {
	ProjectID string
	RootCount int
	TaskCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, projectID, path string) (*ImportResult, error)
	ImportDocument(ctx context.Context, projectID string, doc *importer.Document) (*ImportResult, error)
}
