package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/wbsdesk/internal/db"
	"github.com/alexanderramin/wbsdesk/internal/repository"
	"github.com/alexanderramin/wbsdesk/internal/testutil"
)

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

// harness wires every service against one in-memory database. Each
// service sees the identity held in user.
type harness struct {
	db       *sql.DB
	uow      db.UnitOfWork
	user     *switchableIdentity
	observer *recordingObserver

	profiles  ProfileService
	companies CompanyService
	members   MemberService
	projects  ProjectService
	shares    CostShareService
	tasks     TaskService
	imports   ImportService
}

type switchableIdentity struct{ id string }

func (s *switchableIdentity) CurrentUserID(ctx context.Context) (string, error) {
	return StaticIdentity(s.id).CurrentUserID(ctx)
}

func (h *harness) as(userID string) { h.user.id = userID }

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	h := &harness{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		user:     &switchableIdentity{id: "alice"},
		observer: &recordingObserver{},
	}
	h.wire(h.uow)
	return h
}

func (h *harness) wire(uow db.UnitOfWork) {
	members := repository.NewSQLiteMemberRepo(h.db)
	projects := repository.NewSQLiteProjectRepo(h.db)
	h.profiles = NewProfileService(repository.NewSQLiteProfileRepo(h.db))
	h.companies = NewCompanyService(repository.NewSQLiteCompanyRepo(h.db), members, uow, h.user, h.observer)
	h.members = NewMemberService(members, h.user, h.observer)
	h.projects = NewProjectService(projects, repository.NewSQLiteFavoriteRepo(h.db), members, h.user, h.observer)
	h.shares = NewCostShareService(repository.NewSQLiteCostShareRepo(h.db), projects, h.user, h.observer)
	h.tasks = NewTaskService(repository.NewSQLiteTaskRepo(h.db), uow, h.user, h.observer)
	h.imports = NewImportService(uow, h.user, h.observer)
}
