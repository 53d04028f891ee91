// Package service aggregates the per-user dashboard: profile, contribution
// stats, XP/level progress, streak and project listings.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	dashdomain "github.com/openforge-dev/openforge-backend/internal/dashboard/domain"
	"github.com/openforge-dev/openforge-backend/internal/dashboard/xp"
	projservice "github.com/openforge-dev/openforge-backend/internal/projects/service"
	usersdomain "github.com/openforge-dev/openforge-backend/internal/users/domain"
)

// Estimated hours per activity for the time breakdown.
const (
	hoursPerContribution = 0.5
	hoursPerOwnedProject = 2.0
)

// ProfileStore is the slice of the user repository the dashboard needs.
type ProfileStore interface {
	Ensure(ctx context.Context, clerkUserID string) (*usersdomain.User, error)
	UpdateProgress(ctx context.Context, clerkUserID string, xpTotal, level int) error
	UpdateStreak(ctx context.Context, clerkUserID string, streak int, lastActive time.Time) error
}

// ContributionSource aggregates a user's contribution history.
type ContributionSource interface {
	TotalsFor(ctx context.Context, userID string) (dashdomain.Totals, error)
}

// ProjectLister serves filtered project listings.
type ProjectLister interface {
	List(ctx context.Context, userID string, filter projservice.Filter) ([]projservice.ProjectView, error)
}

// UserSummary is the profile block of the dashboard.
type UserSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	XP              int    `json:"xp"`
	Level           int    `json:"level"`
	XPToNextLevel   int    `json:"xpToNextLevel"`
	Role            string `json:"role"`
	GitHubConnected bool   `json:"githubConnected"`
}

// Stats is the contribution counters block.
type Stats struct {
	NewProjects      int `json:"newProjects"`
	JoinedProjects   int `json:"joinedProjects"`
	Commits          int `json:"commits"`
	PullRequests     int `json:"pullRequests"`
	IssuesClosed     int `json:"issuesClosed"`
	LinesOfCode      int `json:"linesOfCode"`
	TimeSavedMinutes int `json:"timeSavedMinutes"`
}

// TimeBreakdown estimates hours spent, derived from activity counts.
type TimeBreakdown struct {
	ContributingToOSS    float64 `json:"contributingToOSS"`
	WorkingOnOwnProjects float64 `json:"workingOnOwnProjects"`
}

// ProjectCard is the project subset shown on the dashboard.
type ProjectCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Starred     bool     `json:"starred"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// ProjectLists groups the caller's projects by relationship.
type ProjectLists struct {
	Owned       []ProjectCard `json:"owned"`
	Contributed []ProjectCard `json:"contributed"`
	Starred     []ProjectCard `json:"starred"`
}

// Metrics is the additional-metrics block.
type Metrics struct {
	TotalContributions int `json:"totalContributions"`
	ActiveProjects     int `json:"activeProjects"`
	Streak             int `json:"streak"`
}

// Overview is the full dashboard payload.
type Overview struct {
	User          UserSummary   `json:"user"`
	Stats         Stats         `json:"stats"`
	TimeBreakdown TimeBreakdown `json:"timeBreakdown"`
	Projects      ProjectLists  `json:"projects"`
	Metrics       Metrics       `json:"additionalMetrics"`
}

// Service assembles the dashboard from its stores.
type Service struct {
	profiles      ProfileStore
	contributions ContributionSource
	projects      ProjectLister

	now func() time.Time
}

func NewService(profiles ProfileStore, contributions ContributionSource, projects ProjectLister) *Service {
	return &Service{
		profiles:      profiles,
		contributions: contributions,
		projects:      projects,
		now:           time.Now,
	}
}

// SetNow overrides the clock. Tests use it to pin streak arithmetic.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Overview builds the caller's dashboard. Fetching it counts as activity,
// so the streak advances here. XP and level are recomputed from the
// contribution history and written back when they drifted.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	user, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	totals, err := s.contributions.TotalsFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}

	owned, err := s.projects.List(ctx, userID, projservice.FilterOwned)
	if err != nil {
		return nil, err
	}
	contributed, err := s.projects.List(ctx, userID, projservice.FilterContributed)
	if err != nil {
		return nil, err
	}
	starred, err := s.projects.List(ctx, userID, projservice.FilterStarred)
	if err != nil {
		return nil, err
	}

	// Reconcile stored progress with the contribution history.
	totalXP := totals.XPAwarded
	level := user.Level
	if totalXP != user.XP {
		level = xp.LevelForXP(totalXP)
		if err := s.profiles.UpdateProgress(ctx, userID, totalXP, level); err != nil {
			log.Printf("dashboard: failed to update progress for %s: %v", userID, err)
		}
	}

	streak := s.advanceStreak(ctx, user)

	timeSaved := 0
	for _, p := range append(append([]projservice.ProjectView{}, owned...), contributed...) {
		timeSaved += p.Metadata.TimeSavedMinutes
	}

	return &Overview{
		User: UserSummary{
			ID:              user.ClerkUserID,
			Name:            user.Name,
			Email:           user.Email,
			AvatarURL:       user.AvatarURL,
			XP:              totalXP,
			Level:           level,
			XPToNextLevel:   xp.ToNextLevel(totalXP, level),
			Role:            user.Role,
			GitHubConnected: user.GitHubConnected,
		},
		Stats: Stats{
			NewProjects:      len(owned),
			JoinedProjects:   len(contributed),
			Commits:          totals.Commits,
			PullRequests:     totals.PullRequests,
			IssuesClosed:     totals.Issues,
			LinesOfCode:      totals.NetLines(),
			TimeSavedMinutes: timeSaved,
		},
		TimeBreakdown: TimeBreakdown{
			ContributingToOSS:    float64(totals.Count) * hoursPerContribution,
			WorkingOnOwnProjects: float64(len(owned)) * hoursPerOwnedProject,
		},
		Projects: ProjectLists{
			Owned:       toCards(owned),
			Contributed: toCards(contributed),
			Starred:     toCards(starred),
		},
		Metrics: Metrics{
			TotalContributions: totals.Count,
			ActiveProjects:     len(owned) + len(contributed),
			Streak:             streak,
		},
	}, nil
}

// advanceStreak applies the daily streak rule and stores the result
// best-effort.
func (s *Service) advanceStreak(ctx context.Context, user *usersdomain.User) int {
	now := s.now()
	var lastActive time.Time
	if user.LastActiveAt != nil {
		lastActive = *user.LastActiveAt
	}

	next := xp.NextStreak(user.Streak, lastActive, now)
	if err := s.profiles.UpdateStreak(ctx, user.ClerkUserID, next, now); err != nil {
		log.Printf("dashboard: failed to update streak for %s: %v", user.ClerkUserID, err)
	}
	return next
}

func toCards(views []projservice.ProjectView) []ProjectCard {
	cards := make([]ProjectCard, 0, len(views))
	for _, v := range views {
		techStack := v.TechStack
		if techStack == nil {
			techStack = []string{}
		}
		cards = append(cards, ProjectCard{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			TechStack:   techStack,
			Starred:     v.Starred,
			CreatedAt:   v.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
		})
	}
	return cards
}
