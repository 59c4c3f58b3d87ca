// Package session keeps the sidebar navigation context: which company and
// project the user is working in, and whether views are scoped to that
// project. The context survives restarts through a Storage backend.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/google/uuid"
)

// DestinationProjectSummary is where SwitchToProjectMode sends the user.
const DestinationProjectSummary = "/project/summary"

// Navigator performs view navigation on behalf of the sidebar.
type Navigator interface {
	Navigate(ctx context.Context, destination string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, destination string)

func (f NavigatorFunc) Navigate(ctx context.Context, destination string) { f(ctx, destination) }

// State is a snapshot of the sidebar context.
type State struct {
	Mode            domain.SidebarMode
	SelectedProject *domain.Project
	SelectedCompany *domain.Company
}

// Sidebar is the single source of truth for the active company/project
// context. It is created once at startup and injected into the views that
// need it. A Sidebar is not safe for concurrent use.
type Sidebar struct {
	storage Storage
	hub     *Hub
	nav     Navigator
	logger  *slog.Logger
	origin  string

	state State
}

// Option configures a Sidebar.
type Option func(*Sidebar)

func WithHub(h *Hub) Option { return func(s *Sidebar) { s.hub = h } }

func WithNavigator(n Navigator) Option { return func(s *Sidebar) { s.nav = n } }

func WithLogger(l *slog.Logger) Option { return func(s *Sidebar) { s.logger = l } }

// New restores the sidebar from storage. Stored data that cannot be read
// is logged and dropped; New never fails because of it.
func New(ctx context.Context, storage Storage, opts ...Option) *Sidebar {
	s := &Sidebar{
		storage: storage,
		logger:  slog.Default(),
		origin:  uuid.New().String(),
		state:   State{Mode: domain.ModeAllProjects},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore(ctx)
	return s
}

// State returns a copy of the current context.
func (s *Sidebar) State() State {
	st := s.state
	if st.SelectedProject != nil {
		p := *st.SelectedProject
		st.SelectedProject = &p
	}
	if st.SelectedCompany != nil {
		c := *st.SelectedCompany
		st.SelectedCompany = &c
	}
	return st
}

func (s *Sidebar) CurrentMode() domain.SidebarMode { return s.state.Mode }

func (s *Sidebar) SelectedProject() *domain.Project { return s.State().SelectedProject }

func (s *Sidebar) SelectedCompany() *domain.Company { return s.State().SelectedCompany }

// Origin identifies events published by this sidebar.
func (s *Sidebar) Origin() string { return s.origin }

// SetSelectedCompany stores c, or clears the selection when c is nil.
func (s *Sidebar) SetSelectedCompany(ctx context.Context, c *domain.Company) error {
	if c == nil {
		s.state.SelectedCompany = nil
		return s.remove(ctx, KeySelectedCompany)
	}
	cp := *c
	s.state.SelectedCompany = &cp
	return s.put(ctx, KeySelectedCompany, cp)
}

// SetSelectedProject stores p, or clears the selection when p is nil.
func (s *Sidebar) SetSelectedProject(ctx context.Context, p *domain.Project) error {
	if p == nil {
		s.state.SelectedProject = nil
		return s.remove(ctx, KeySelectedProject)
	}
	cp := *p
	s.state.SelectedProject = &cp
	return s.put(ctx, KeySelectedProject, cp)
}

// SetCurrentMode stores the mode as is; callers entering project mode
// should prefer SwitchToProjectMode.
func (s *Sidebar) SetCurrentMode(ctx context.Context, m domain.SidebarMode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid sidebar mode %q", m)
	}
	s.state.Mode = m
	return s.put(ctx, KeyMode, m)
}

// SwitchToProjectMode selects p, scopes views to it and navigates to the
// project summary.
func (s *Sidebar) SwitchToProjectMode(ctx context.Context, p *domain.Project) error {
	if p == nil {
		return fmt.Errorf("switching to project mode: no project given")
	}
	if err := s.SetSelectedProject(ctx, p); err != nil {
		return err
	}
	if err := s.SetCurrentMode(ctx, domain.ModeCurrentProject); err != nil {
		return err
	}
	if s.nav != nil {
		s.nav.Navigate(ctx, DestinationProjectSummary)
	}
	return nil
}

// SwitchToAllProjectsMode clears the project selection. It does not navigate.
func (s *Sidebar) SwitchToAllProjectsMode(ctx context.Context) error {
	if err := s.SetSelectedProject(ctx, nil); err != nil {
		return err
	}
	return s.SetCurrentMode(ctx, domain.ModeAllProjects)
}

// Sync reloads the context from storage, picking up changes written by
// other views sharing the same storage.
func (s *Sidebar) Sync(ctx context.Context) {
	s.state = State{Mode: domain.ModeAllProjects}
	s.restore(ctx)
}

func (s *Sidebar) restore(ctx context.Context) {
	var mode domain.SidebarMode
	if ok := s.load(ctx, KeyMode, &mode); ok {
		if mode.Valid() {
			s.state.Mode = mode
		} else {
			s.logger.WarnContext(ctx, "discarding invalid sidebar mode", "mode", string(mode))
			s.drop(ctx, KeyMode)
		}
	}

	var project domain.Project
	if ok := s.load(ctx, KeySelectedProject, &project); ok {
		if project.ID != "" {
			s.state.SelectedProject = &project
		} else {
			s.logger.WarnContext(ctx, "discarding stored project without id")
			s.drop(ctx, KeySelectedProject)
		}
	}

	var company domain.Company
	if ok := s.load(ctx, KeySelectedCompany, &company); ok {
		if company.ID != "" {
			s.state.SelectedCompany = &company
		} else {
			s.logger.WarnContext(ctx, "discarding stored company without id")
			s.drop(ctx, KeySelectedCompany)
		}
	}

	if s.state.Mode == domain.ModeCurrentProject && s.state.SelectedProject == nil {
		s.logger.WarnContext(ctx, "project mode without a project, falling back to all projects")
		s.state.Mode = domain.ModeAllProjects
		s.drop(ctx, KeyMode)
		s.drop(ctx, KeySelectedProject)
	}
}

// load decodes key into dst. It reports false when the key is missing,
// unreadable or malformed; malformed values are removed.
func (s *Sidebar) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "reading sidebar state", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt sidebar state", "key", key, "error", err)
		s.drop(ctx, key)
		return false
	}
	return true
}

func (s *Sidebar) drop(ctx context.Context, key string) {
	if err := s.storage.Remove(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "removing sidebar state", "key", key, "error", err)
	}
}

func (s *Sidebar) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.storage.Set(ctx, key, string(b)); err != nil {
		s.logger.ErrorContext(ctx, "persisting sidebar state", "key", key, "error", err)
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	s.publish(StorageEvent{Key: key, Value: string(b)})
	return nil
}

func (s *Sidebar) remove(ctx context.Context, key string) error {
	if err := s.storage.Remove(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "persisting sidebar state", "key", key, "error", err)
		return fmt.Errorf("removing %s: %w", key, err)
	}
	s.publish(StorageEvent{Key: key, Removed: true})
	return nil
}

func (s *Sidebar) publish(ev StorageEvent) {
	if s.hub == nil {
		return
	}
	ev.Origin = s.origin
	s.hub.Publish(ev)
}
