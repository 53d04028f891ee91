package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
)

// Filter selects which slice of the catalog a listing returns.
type Filter string

const (
	FilterOwned       Filter = "owned"
	FilterContributed Filter = "contributed"
	FilterStarred     Filter = "starred"
	FilterAll         Filter = "all"
)

// ParseFilter maps the query value onto a Filter, defaulting to owned.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterContributed, FilterStarred, FilterAll:
		return Filter(s)
	default:
		return FilterOwned
	}
}

// ProjectReader is the read slice of the project repository.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListOwned(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Project, error)
}

// StarStore tracks per-user stars.
type StarStore interface {
	Exists(ctx context.Context, projectID, userID string) (bool, error)
	Add(ctx context.Context, projectID, userID string) error
	Remove(ctx context.Context, projectID, userID string) error
	ProjectIDs(ctx context.Context, userID string) ([]string, error)
}

// MembershipStore answers which projects a user contributes to.
type MembershipStore interface {
	ProjectIDs(ctx context.Context, userID string) ([]string, error)
}

// ProjectView is a project annotated with the caller's star state.
type ProjectView struct {
	domain.Project
	Starred bool `json:"starred"`
}

// CatalogService serves the project read path: filtered listings and the
// star toggle.
type CatalogService struct {
	projects    ProjectReader
	stars       StarStore
	memberships MembershipStore
}

func NewCatalogService(projects ProjectReader, stars StarStore, memberships MembershipStore) *CatalogService {
	return &CatalogService{projects: projects, stars: stars, memberships: memberships}
}

// List returns the caller's projects under the given filter, newest first,
// each annotated with whether the caller starred it.
func (s *CatalogService) List(ctx context.Context, userID string, filter Filter) ([]ProjectView, error) {
	var (
		projects []domain.Project
		err      error
	)

	switch filter {
	case FilterContributed:
		projects, err = s.listByMembership(ctx, userID)
	case FilterStarred:
		var ids []string
		ids, err = s.stars.ProjectIDs(ctx, userID)
		if err == nil {
			projects, err = s.projects.ListByIDs(ctx, ids)
		}
	case FilterAll:
		projects, err = s.listAll(ctx, userID)
	default:
		projects, err = s.projects.ListOwned(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	starred, err := s.starredSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ProjectView{Project: p, Starred: starred[p.ID]})
	}
	return views, nil
}

// listAll merges owned and contributed projects, deduplicated, newest first.
func (s *CatalogService) listAll(ctx context.Context, userID string) ([]domain.Project, error) {
	owned, err := s.projects.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	contributed, err := s.listByMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(owned))
	merged := make([]domain.Project, 0, len(owned)+len(contributed))
	for _, p := range owned {
		seen[p.ID] = true
		merged = append(merged, p)
	}
	for _, p := range contributed {
		if !seen[p.ID] {
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

func (s *CatalogService) listByMembership(ctx context.Context, userID string) ([]domain.Project, error) {
	ids, err := s.memberships.ProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.projects.ListByIDs(ctx, ids)
}

func (s *CatalogService) starredSet(ctx context.Context, userID string) (map[string]bool, error) {
	ids, err := s.stars.ProjectIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stars: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// ToggleStar flips the caller's star on a project and returns the new state.
// Returns domain.ErrProjectNotFound for unknown projects.
func (s *CatalogService) ToggleStar(ctx context.Context, projectID, userID string) (bool, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return false, err
	}

	starred, err := s.stars.Exists(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check star: %w", err)
	}
	if starred {
		if err := s.stars.Remove(ctx, projectID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.stars.Add(ctx, projectID, userID); err != nil {
		return false, err
	}
	return true, nil
}
