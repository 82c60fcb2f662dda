package minirag

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// projectService implements the ProjectService interface
type projectService struct {
	client *Client
}

// projectEnvelope wraps single-project responses.
type projectEnvelope struct {
	Signal  string   `json:"signal"`
	Project *Project `json:"project"`
}

// Create creates a personal project
func (s *projectService) Create(ctx context.Context, params *CreateProjectParams) (*Project, error) {
	if params == nil || params.Name == "" {
		return nil, &Error{Message: "project name is required"}
	}

	var result projectEnvelope
	if err := s.client.postJSON(ctx, "/api/v1/personal-projects/", params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}
	return result.Project, nil
}

// Get retrieves a single project
func (s *projectService) Get(ctx context.Context, projectID int) (*Project, error) {
	var result projectEnvelope
	if err := s.client.get(ctx, fmt.Sprintf("/api/v1/personal-projects/%d", projectID), &result); err != nil {
		return nil, errors.Wrap(err, "failed to get project")
	}
	return result.Project, nil
}

// List retrieves the projects owned by a user
func (s *projectService) List(ctx context.Context, userID int) ([]*Project, error) {
	if userID <= 0 {
		userID = 1
	}

	var result struct {
		Signal   string     `json:"signal"`
		Projects []*Project `json:"projects"`
	}
	path := fmt.Sprintf("/api/v1/personal-projects/?user_id=%d", userID)
	if err := s.client.get(ctx, path, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}
	return result.Projects, nil
}

// Update updates a project
func (s *projectService) Update(ctx context.Context, projectID int, params *UpdateProjectParams) (*Project, error) {
	if params == nil {
		return nil, &Error{Message: "project params are required"}
	}

	var result projectEnvelope
	path := fmt.Sprintf("/api/v1/personal-projects/%d", projectID)
	if err := s.client.putJSON(ctx, path, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update project")
	}
	return result.Project, nil
}

// Delete deletes a project
func (s *projectService) Delete(ctx context.Context, projectID int) error {
	path := fmt.Sprintf("/api/v1/personal-projects/%d", projectID)
	if err := s.client.delete(ctx, path, nil); err != nil {
		return errors.Wrap(err, "failed to delete project")
	}
	return nil
}
