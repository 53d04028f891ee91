// Package service implements the marketplace read path: cached discovery
// queries against GitHub, normalized into the platform's repository shapes.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/openforge-dev/openforge-backend/internal/cache"
	"github.com/openforge-dev/openforge-backend/internal/github"
)

// discoveryTopic marks repositories created through the platform.
const discoveryTopic = "openforge"

// RepositoryReader is the read slice of the GitHub client.
type RepositoryReader interface {
	SearchRepositories(ctx context.Context, query string) (*github.SearchResult, error)
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetReadme(ctx context.Context, owner, repo string) (*github.Readme, bool, error)
}

// OwnerCard is the owner slice shown on listing cards.
type OwnerCard struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// RepositoryCard is one listing entry.
type RepositoryCard struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	Topics          []string  `json:"topics"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Language        string    `json:"language"`
	Owner           OwnerCard `json:"owner"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
}

// ListResult is the listing envelope.
type ListResult struct {
	TotalCount   int              `json:"total_count"`
	Repositories []RepositoryCard `json:"repositories"`
}

// ReadmeView is decoded README content attached to a detail response.
type ReadmeView struct {
	Content string `json:"content"`
	HTMLURL string `json:"html_url"`
}

// RepositoryDetail is the detail envelope. Readme is null when the
// repository has none.
type RepositoryDetail struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	FullName        string          `json:"full_name"`
	Description     string          `json:"description"`
	HTMLURL         string          `json:"html_url"`
	Topics          []string        `json:"topics"`
	StargazersCount int             `json:"stargazers_count"`
	ForksCount      int             `json:"forks_count"`
	WatchersCount   int             `json:"watchers_count"`
	OpenIssuesCount int             `json:"open_issues_count"`
	Language        string          `json:"language"`
	License         *github.License `json:"license"`
	DefaultBranch   string          `json:"default_branch"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
	PushedAt        string          `json:"pushed_at"`
	Owner           github.Owner    `json:"owner"`
	Readme          *ReadmeView     `json:"readme"`
}

// Service serves marketplace queries cache-aside: cached payloads are
// returned verbatim, misses go upstream, get transformed once and stored.
type Service struct {
	gh    RepositoryReader
	store cache.Store
}

func NewService(gh RepositoryReader, store cache.Store) *Service {
	if store == nil {
		store = cache.Noop{}
	}
	return &Service{gh: gh, store: store}
}

// ListRepositories returns platform repositories matching the optional
// search term.
func (s *Service) ListRepositories(ctx context.Context, search string) (json.RawMessage, error) {
	search = strings.TrimSpace(search)
	key := cache.ListKey(search)

	if payload, ok := s.cacheGet(ctx, key); ok {
		return payload, nil
	}

	query := "topic:" + discoveryTopic
	if search != "" {
		query = fmt.Sprintf("%s %s in:name", query, search)
	}

	upstream, err := s.gh.SearchRepositories(ctx, query)
	if err != nil {
		return nil, err
	}

	result := ListResult{
		TotalCount:   upstream.TotalCount,
		Repositories: make([]RepositoryCard, 0, len(upstream.Items)),
	}
	for _, item := range upstream.Items {
		result.Repositories = append(result.Repositories, toCard(item))
	}

	return s.cachePut(ctx, key, result)
}

// RepositoryDetail returns one repository with its README attached when one
// exists.
func (s *Service) RepositoryDetail(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	key := cache.DetailKey(owner, repo)

	if payload, ok := s.cacheGet(ctx, key); ok {
		return payload, nil
	}

	upstream, err := s.gh.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	detail := toDetail(upstream)

	// A missing README is a normal outcome; a failed fetch is not, but the
	// detail is still served without it.
	readme, ok, err := s.gh.GetReadme(ctx, owner, repo)
	if err != nil {
		log.Printf("marketplace: failed to fetch readme for %s/%s: %v", owner, repo, err)
	} else if ok {
		detail.Readme = &ReadmeView{Content: readme.Content, HTMLURL: readme.HTMLURL}
	}

	return s.cachePut(ctx, key, detail)
}

func (s *Service) cacheGet(ctx context.Context, key string) (json.RawMessage, bool) {
	payload, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("marketplace: cache read for %q failed: %v", key, err)
		return nil, false
	}
	return payload, ok
}

// cachePut marshals the transformed result, stores it best-effort and
// returns the payload. A failed store write is logged, never surfaced.
func (s *Service) cachePut(ctx context.Context, key string, v any) (json.RawMessage, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := s.store.Put(ctx, key, payload, cache.DefaultTTL); err != nil {
		log.Printf("marketplace: cache write for %q failed: %v", key, err)
	}
	return payload, nil
}

func toCard(r github.Repository) RepositoryCard {
	return RepositoryCard{
		ID:              r.ID,
		Name:            r.Name,
		FullName:        r.FullName,
		Description:     r.Description,
		HTMLURL:         r.HTMLURL,
		Topics:          topicsOrEmpty(r.Topics),
		StargazersCount: r.StargazersCount,
		ForksCount:      r.ForksCount,
		Language:        r.Language,
		Owner:           OwnerCard{Login: r.Owner.Login, AvatarURL: r.Owner.AvatarURL},
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toDetail(r *github.Repository) *RepositoryDetail {
	return &RepositoryDetail{
		ID:              r.ID,
		Name:            r.Name,
		FullName:        r.FullName,
		Description:     r.Description,
		HTMLURL:         r.HTMLURL,
		Topics:          topicsOrEmpty(r.Topics),
		StargazersCount: r.StargazersCount,
		ForksCount:      r.ForksCount,
		WatchersCount:   r.WatchersCount,
		OpenIssuesCount: r.OpenIssuesCount,
		Language:        r.Language,
		License:         r.License,
		DefaultBranch:   r.DefaultBranch,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		PushedAt:        r.PushedAt,
		Owner:           r.Owner,
	}
}

func topicsOrEmpty(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return topics
}
