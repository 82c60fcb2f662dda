package minirag

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// messageService implements the MessageService interface
type messageService struct {
	client *Client
}

// messagePayload is the wire shape shared by create and update.
type messagePayload struct {
	Content        string `json:"message_content,omitempty"`
	Sender         string `json:"message_sender,omitempty"`
	ConversationID int    `json:"message_conversation_id,omitempty"`
	UserID         int    `json:"message_user_id,omitempty"`
}

// Create creates a message in a conversation
func (s *messageService) Create(ctx context.Context, params *CreateMessageParams) (int, error) {
	if params == nil {
		return 0, &Error{Message: "message params are required"}
	}

	payload := messagePayload{
		Content:        params.Content,
		Sender:         params.Sender,
		ConversationID: params.ConversationID,
		UserID:         params.UserID,
	}

	var result struct {
		MessageID int `json:"message_id"`
	}
	if err := s.client.postJSON(ctx, "/api/v1/messages/", payload, &result); err != nil {
		return 0, errors.Wrap(err, "failed to create message")
	}
	return result.MessageID, nil
}

// Get retrieves a single message
func (s *messageService) Get(ctx context.Context, messageID int) (*Message, error) {
	var result Message
	if err := s.client.get(ctx, fmt.Sprintf("/api/v1/messages/%d", messageID), &result); err != nil {
		return nil, errors.Wrap(err, "failed to get message")
	}
	return &result, nil
}

// List retrieves messages, optionally filtered by conversation. A
// conversationID of zero lists across conversations.
func (s *messageService) List(ctx context.Context, conversationID, page, pageSize int) ([]*Message, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if conversationID > 0 {
		query.Set("conversation_id", strconv.Itoa(conversationID))
	}

	var result []*Message
	if err := s.client.get(ctx, "/api/v1/messages/?"+query.Encode(), &result); err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}
	return result, nil
}

// Update updates a message
func (s *messageService) Update(ctx context.Context, messageID int, params *UpdateMessageParams) error {
	if params == nil {
		return &Error{Message: "message params are required"}
	}

	payload := messagePayload{
		Content: params.Content,
		Sender:  params.Sender,
	}

	path := fmt.Sprintf("/api/v1/messages/%d", messageID)
	if err := s.client.putJSON(ctx, path, payload, nil); err != nil {
		return errors.Wrap(err, "failed to update message")
	}
	return nil
}
