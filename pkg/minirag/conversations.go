package minirag

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// conversationService implements the ConversationService interface
type conversationService struct {
	client *Client
}

// conversationPayload is the wire shape shared by create and update.
type conversationPayload struct {
	Title       string `json:"conversation_title,omitempty"`
	Description string `json:"conversation_description,omitempty"`
	ProjectID   int    `json:"conversation_project_id,omitempty"`
	UserID      int    `json:"conversation_user_id,omitempty"`
}

// Create creates a conversation in the client's project scope
func (s *conversationService) Create(ctx context.Context, params *CreateConversationParams) (int, error) {
	if params == nil {
		return 0, &Error{Message: "conversation params are required"}
	}

	payload := conversationPayload{
		Title:       params.Title,
		Description: params.Description,
		ProjectID:   s.client.ProjectID(),
		UserID:      params.UserID,
	}

	var result struct {
		ConversationID int `json:"conversation_id"`
	}
	if err := s.client.postJSON(ctx, "/api/v1/conversations/", payload, &result); err != nil {
		return 0, errors.Wrap(err, "failed to create conversation")
	}
	return result.ConversationID, nil
}

// Get retrieves a single conversation
func (s *conversationService) Get(ctx context.Context, conversationID int) (*Conversation, error) {
	var result Conversation
	if err := s.client.get(ctx, fmt.Sprintf("/api/v1/conversations/%d", conversationID), &result); err != nil {
		return nil, errors.Wrap(err, "failed to get conversation")
	}
	return &result, nil
}

// List retrieves conversations for the client's project, paginated
func (s *conversationService) List(ctx context.Context, page, pageSize int) ([]*Conversation, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	path := fmt.Sprintf("/api/v1/conversations/?page=%d&page_size=%d&project_id=%d",
		page, pageSize, s.client.ProjectID())

	var result []*Conversation
	if err := s.client.get(ctx, path, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list conversations")
	}
	return result, nil
}

// Update updates a conversation
func (s *conversationService) Update(ctx context.Context, conversationID int, params *UpdateConversationParams) error {
	if params == nil {
		return &Error{Message: "conversation params are required"}
	}

	payload := conversationPayload{
		Title:       params.Title,
		Description: params.Description,
	}

	path := fmt.Sprintf("/api/v1/conversations/%d", conversationID)
	if err := s.client.putJSON(ctx, path, payload, nil); err != nil {
		return errors.Wrap(err, "failed to update conversation")
	}
	return nil
}

// Delete deletes a conversation
func (s *conversationService) Delete(ctx context.Context, conversationID int) error {
	path := fmt.Sprintf("/api/v1/conversations/%d", conversationID)
	if err := s.client.delete(ctx, path, nil); err != nil {
		return errors.Wrap(err, "failed to delete conversation")
	}
	return nil
}
