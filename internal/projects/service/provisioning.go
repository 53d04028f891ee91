// Package service coordinates repository provisioning: credential
// resolution, remote repository creation, seed files, local persistence and
// metrics, in that order.
package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/openforge-dev/openforge-backend/internal/github"
	"github.com/openforge-dev/openforge-backend/internal/projects/domain"
	"github.com/openforge-dev/openforge-backend/internal/retry"
)

// FailureReason classifies a provisioning failure for the caller.
type FailureReason string

const (
	ReasonValidation FailureReason = "validation"
	ReasonAuth       FailureReason = "auth"
	ReasonGitHubAPI  FailureReason = "github_api"
	ReasonDatabase   FailureReason = "database"
	ReasonUnknown    FailureReason = "unknown"
)

// ProvisionError is a reason-classified pipeline failure with a
// caller-facing message.
type ProvisionError struct {
	Reason  FailureReason
	Message string
	Err     error
}

func (e *ProvisionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provisioning failed (%s): %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("provisioning failed (%s): %s", e.Reason, e.Message)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// CredentialResolver yields a scope-verified GitHub credential for a caller.
type CredentialResolver interface {
	Resolve(ctx context.Context, callerID string) (github.Credential, bool)
}

// RepositoryProvisioner is the slice of the GitHub client the pipeline
// drives.
type RepositoryProvisioner interface {
	CreateRepository(ctx context.Context, token, name, description string, private bool) (*github.Repository, error)
	AddTopics(ctx context.Context, token, owner, repo string, topics []string) error
	CreateFile(ctx context.Context, token, owner, repo, path, content, message string) error
}

// ProjectStore persists the local mirror of a provisioned repository.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
}

// MetricsStore records provisioning attempts.
type MetricsStore interface {
	Record(ctx context.Context, m *domain.CreationMetrics) error
}

const (
	persistAttempts  = 3
	persistBaseDelay = time.Second
)

// ProvisioningService runs the create-project pipeline.
type ProvisioningService struct {
	resolver CredentialResolver
	gh       RepositoryProvisioner
	projects ProjectStore
	metrics  MetricsStore

	persistAttempts int
	persistDelay    time.Duration
}

func NewProvisioningService(resolver CredentialResolver, gh RepositoryProvisioner, projects ProjectStore, metrics MetricsStore) *ProvisioningService {
	return &ProvisioningService{
		resolver:        resolver,
		gh:              gh,
		projects:        projects,
		metrics:         metrics,
		persistAttempts: persistAttempts,
		persistDelay:    persistBaseDelay,
	}
}

// SetPersistBackoff overrides the persistence retry policy. Tests use it to
// avoid real backoff sleeps.
func (s *ProvisioningService) SetPersistBackoff(attempts int, delay time.Duration) {
	s.persistAttempts = attempts
	s.persistDelay = delay
}

// CreateProjectInput is the caller's provisioning request.
type CreateProjectInput struct {
	Name        string
	Description string
	TechStack   []string
	IsPrivate   bool
}

// CreateProjectResult summarizes a successfully provisioned project.
type CreateProjectResult struct {
	ProjectID    string    `json:"projectId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	RemoteRepoID string    `json:"remoteRepoId"`
	RemoteURL    string    `json:"remoteUrl"`
	TechStack    []string  `json:"techStack"`
	CreatedAt    time.Time `json:"createdAt"`
}

// attempt is the ephemeral state of one pipeline run, persisted once at the
// end as a metrics record.
type attempt struct {
	callerID   string
	name       string
	remoteID   string
	retryCount int
	startedAt  time.Time
}

// CreateProject walks the pipeline:
//
//	validate → resolve credential → create remote repo → tag topics →
//	seed files → persist locally → record metrics
//
// Topic tagging and file seeding are non-fatal decoration steps: their
// failures are logged and the pipeline proceeds. Once the remote repository
// exists, any later failure leaves an orphaned remote resource, which is
// surfaced rather than rolled back.
func (s *ProvisioningService) CreateProject(ctx context.Context, callerID string, in CreateProjectInput) (*CreateProjectResult, error) {
	att := &attempt{
		callerID:  callerID,
		name:      strings.TrimSpace(in.Name),
		startedAt: time.Now(),
	}

	// Validation happens before any remote call.
	if att.name == "" {
		return nil, s.fail(ctx, att, &ProvisionError{
			Reason:  ReasonValidation,
			Message: "Project name is required",
		})
	}

	cred, ok := s.resolver.Resolve(ctx, callerID)
	if !ok {
		return nil, s.fail(ctx, att, &ProvisionError{
			Reason:  ReasonAuth,
			Message: "No GitHub account with repository access is connected. Connect GitHub and try again.",
		})
	}

	repo, err := s.gh.CreateRepository(ctx, cred.Token, att.name, in.Description, in.IsPrivate)
	if err != nil {
		return nil, s.fail(ctx, att, classifyCreateError(err))
	}

	// Point of no return: the remote repository now exists.
	att.remoteID = strconv.FormatInt(repo.ID, 10)
	owner := repo.Owner.Login

	if err := s.gh.AddTopics(ctx, cred.Token, owner, repo.Name, topicsFor(in.TechStack)); err != nil {
		log.Printf("provisioning: failed to add topics to %s/%s: %v", owner, repo.Name, err)
	}

	readme := github.ReadmeTemplate(att.name, in.Description, in.TechStack)
	if err := s.gh.CreateFile(ctx, cred.Token, owner, repo.Name, "README.md", readme, "Initial commit: add README"); err != nil {
		log.Printf("provisioning: failed to seed README in %s/%s: %v", owner, repo.Name, err)
	}

	gitignore := github.GitignoreTemplate(in.TechStack)
	if err := s.gh.CreateFile(ctx, cred.Token, owner, repo.Name, ".gitignore", gitignore, "Add .gitignore"); err != nil {
		log.Printf("provisioning: failed to seed .gitignore in %s/%s: %v", owner, repo.Name, err)
	}

	project := &domain.Project{
		Name:                     att.name,
		Description:              in.Description,
		TechStack:                in.TechStack,
		OwnerID:                  callerID,
		GitHubRepoID:             att.remoteID,
		SetupTimeEstimateMinutes: domain.DefaultSetupTimeEstimateMinutes,
	}

	// The local insert is the one step worth retrying: it is idempotent
	// here and its failure leaves a detectable inconsistency.
	tries := 0
	_, err = retry.Do(ctx, s.persistAttempts, s.persistDelay, func(ctx context.Context) (struct{}, error) {
		tries++
		return struct{}{}, s.projects.Create(ctx, project)
	})
	att.retryCount = tries - 1
	if err != nil {
		log.Printf("ERROR: provisioning divergence: remote repository %s (%s/%s) exists but local record insert failed for user %s: %v",
			att.remoteID, owner, repo.Name, callerID, err)
		return nil, s.fail(ctx, att, &ProvisionError{
			Reason:  ReasonDatabase,
			Message: "The GitHub repository was created, but saving the project locally failed. Manual follow-up may be needed to link the repository.",
			Err:     err,
		})
	}

	s.record(ctx, att, domain.CreationSucceeded, "", "")

	return &CreateProjectResult{
		ProjectID:    project.ID,
		Name:         project.Name,
		Description:  project.Description,
		RemoteRepoID: project.GitHubRepoID,
		RemoteURL:    repo.HTMLURL,
		TechStack:    project.TechStack,
		CreatedAt:    project.CreatedAt,
	}, nil
}

// fail records the attempt and passes the error through.
func (s *ProvisioningService) fail(ctx context.Context, att *attempt, perr *ProvisionError) error {
	s.record(ctx, att, domain.CreationFailed, string(perr.Reason), perr.Message)
	return perr
}

// record writes the terminal metrics row. The write is not retried and its
// failure never surfaces: metrics are observability, not correctness.
func (s *ProvisioningService) record(ctx context.Context, att *attempt, status domain.CreationStatus, errorType, errorMessage string) {
	m := &domain.CreationMetrics{
		UserID:         att.callerID,
		RepositoryName: att.name,
		GitHubRepoID:   att.remoteID,
		Status:         status,
		ErrorType:      errorType,
		ErrorMessage:   errorMessage,
		RetryCount:     att.retryCount,
		DurationMS:     time.Since(att.startedAt).Milliseconds(),
	}
	if err := s.metrics.Record(ctx, m); err != nil {
		log.Printf("provisioning: failed to record metrics for %s: %v", att.name, err)
	}
}

// classifyCreateError maps GitHub client errors from the create step onto
// the pipeline taxonomy.
func classifyCreateError(err error) *ProvisionError {
	switch github.KindOf(err) {
	case github.KindValidation:
		return &ProvisionError{Reason: ReasonValidation, Message: "Invalid repository name. Must be 1-100 characters, alphanumeric with hyphens, underscores, or dots.", Err: err}
	case github.KindNameConflict:
		return &ProvisionError{Reason: ReasonGitHubAPI, Message: "A repository with that name already exists on your GitHub account.", Err: err}
	case github.KindScope:
		return &ProvisionError{Reason: ReasonGitHubAPI, Message: "Your GitHub connection does not grant repository access. Reconnect GitHub with the repo permission.", Err: err}
	case github.KindUnauthorized:
		return &ProvisionError{Reason: ReasonGitHubAPI, Message: "Your GitHub credentials are invalid or expired. Reconnect GitHub and try again.", Err: err}
	default:
		return &ProvisionError{Reason: ReasonGitHubAPI, Message: "GitHub did not accept the repository creation request. Try again later.", Err: err}
	}
}

// topicsFor turns the declared tech stack into GitHub topic slugs, always
// including the platform topic used by marketplace discovery.
func topicsFor(techStack []string) []string {
	topics := []string{"openforge"}
	for _, tech := range techStack {
		slug := strings.ToLower(strings.TrimSpace(tech))
		slug = strings.ReplaceAll(slug, " ", "-")
		if slug != "" && slug != "openforge" {
			topics = append(topics, slug)
		}
	}
	return topics
}
