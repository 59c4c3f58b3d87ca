package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/repository"
)

type memberService struct {
	members  repository.MemberRepo
	identity Identity
	observer UseCaseObserver
}

func NewMemberService(members repository.MemberRepo, identity Identity, observers ...UseCaseObserver) MemberService {
	return &memberService{
		members:  members,
		identity: identity,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *memberService) Add(ctx context.Context, groupID, userID string, role domain.MemberRole) (*domain.GroupMember, error) {
	if !domain.ValidMemberRoles[string(role)] {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	if _, err := requireManager(ctx, s.identity, s.members, groupID); err != nil {
		return nil, err
	}
	m := &domain.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		Status:   domain.MemberActive,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.members.Add(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) List(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	members, err := s.members.ListByGroup(ctx, groupID)
	return degradeList(ctx, "list-members", members, err)
}

func (s *memberService) UpdateRole(ctx context.Context, groupID, userID string, role domain.MemberRole) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "update-member-role", startedAt, err,
			map[string]any{"company_id": groupID, "user_id": userID, "role": string(role)})
	}()

	if !domain.ValidMemberRoles[string(role)] {
		return fmt.Errorf("invalid member role %q", role)
	}
	if _, err = requireManager(ctx, s.identity, s.members, groupID); err != nil {
		return err
	}
	var m *domain.GroupMember
	if m, err = s.members.Get(ctx, groupID, userID); err != nil {
		return err
	}
	if role != domain.RoleOwner {
		if err = s.guardLastOwner(ctx, m); err != nil {
			return err
		}
	}
	m.Role = role
	return s.members.Update(ctx, m)
}

func (s *memberService) UpdateStatus(ctx context.Context, groupID, userID string, status domain.MemberStatus) error {
	if !domain.ValidMemberStatuses[string(status)] {
		return fmt.Errorf("invalid member status %q", status)
	}
	if _, err := requireManager(ctx, s.identity, s.members, groupID); err != nil {
		return err
	}
	m, err := s.members.Get(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if status != domain.MemberActive {
		if err := s.guardLastOwner(ctx, m); err != nil {
			return err
		}
	}
	m.Status = status
	return s.members.Update(ctx, m)
}

// Remove lets managers remove anyone and members remove themselves.
func (s *memberService) Remove(ctx context.Context, groupID, userID string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "remove-member", startedAt, err,
			map[string]any{"company_id": groupID, "user_id": userID})
	}()

	var actorID string
	if actorID, err = s.identity.CurrentUserID(ctx); err != nil {
		return err
	}
	if actorID != userID {
		if _, err = requireManager(ctx, s.identity, s.members, groupID); err != nil {
			return err
		}
	}
	var m *domain.GroupMember
	if m, err = s.members.Get(ctx, groupID, userID); err != nil {
		return err
	}
	if err = s.guardLastOwner(ctx, m); err != nil {
		return err
	}
	return s.members.Remove(ctx, groupID, userID)
}

// guardLastOwner fails when m is the only active owner of its group.
func (s *memberService) guardLastOwner(ctx context.Context, m *domain.GroupMember) error {
	if m.Role != domain.RoleOwner || m.Status != domain.MemberActive {
		return nil
	}
	n, err := s.members.CountActiveOwners(ctx, m.GroupID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastOwner
	}
	return nil
}
