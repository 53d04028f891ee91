package http

import (
	"time"

	"github.com/openforge-dev/openforge-backend/internal/projects/service"
)

type createProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"techStack,omitempty"`
	IsPrivate   bool     `json:"isPrivate,omitempty"`
}

type projectResponse struct {
	ID                       string           `json:"id"`
	Name                     string           `json:"name"`
	Description              string           `json:"description"`
	TechStack                []string         `json:"techStack"`
	OwnerID                  string           `json:"ownerId"`
	GitHubRepoID             string           `json:"githubRepoId,omitempty"`
	Starred                  bool             `json:"starred"`
	Metadata                 metadataResponse `json:"metadata"`
	JoinedMembers            []string         `json:"joinedMembers"`
	SetupTimeEstimateMinutes int              `json:"setupTimeEstimateMinutes"`
	CreatedAt                time.Time        `json:"createdAt"`
	UpdatedAt                time.Time        `json:"updatedAt"`
}

type metadataResponse struct {
	Commits          int `json:"commits"`
	Contributors     int `json:"contributors"`
	OpenIssues       int `json:"openIssues"`
	TimeSavedMinutes int `json:"timeSavedMinutes"`
}

func toProjectResponse(v service.ProjectView) projectResponse {
	techStack := v.TechStack
	if techStack == nil {
		techStack = []string{}
	}
	joined := v.JoinedMembers
	if joined == nil {
		joined = []string{}
	}
	return projectResponse{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		TechStack:    techStack,
		OwnerID:      v.OwnerID,
		GitHubRepoID: v.GitHubRepoID,
		Starred:      v.Starred,
		Metadata: metadataResponse{
			Commits:          v.Metadata.Commits,
			Contributors:     v.Metadata.Contributors,
			OpenIssues:       v.Metadata.OpenIssues,
			TimeSavedMinutes: v.Metadata.TimeSavedMinutes,
		},
		JoinedMembers:            joined,
		SetupTimeEstimateMinutes: v.SetupTimeEstimateMinutes,
		CreatedAt:                v.CreatedAt,
		UpdatedAt:                v.UpdatedAt,
	}
}
