package minirag

import (
	"context"
	"strings"
	"testing"

	"github.com/minirag/minirag-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConversationService_Create_AttachesProjectScope(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetProjectID(2)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		body := string(req.Body)
		return req.Path == "/api/v1/conversations/" &&
			strings.Contains(body, `"conversation_title":"Audit"`) &&
			strings.Contains(body, `"conversation_project_id":2`)
	})).Return(jsonResponse(201, `{"conversation_id":7}`), nil)

	id, err := client.Conversations.Create(context.Background(), &CreateConversationParams{
		Title:  "Audit",
		UserID: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, id)
	mockTransport.AssertExpectations(t)
}

func TestConversationService_List(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	response := `[
		{"conversation_id": 1, "conversation_title": "First", "conversation_project_id": 1, "conversation_user_id": 1},
		{"conversation_id": 2, "conversation_title": "Second", "conversation_project_id": 1, "conversation_user_id": 1}
	]`

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(
		withPath("/api/v1/conversations/?page=1&page_size=20&project_id=1"))).
		Return(jsonResponse(200, response), nil)

	conversations, err := client.Conversations.List(context.Background(), 0, 0)

	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "First", conversations[0].Title)
	assert.Equal(t, 2, conversations[1].ID)
	mockTransport.AssertExpectations(t)
}

func TestConversationService_Delete(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		return req.Method == "DELETE" && req.Path == "/api/v1/conversations/7"
	})).Return(&types.Response{StatusCode: 204}, nil)

	err := client.Conversations.Delete(context.Background(), 7)

	assert.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestMessageService_CreateAndList(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		body := string(req.Body)
		return req.Path == "/api/v1/messages/" &&
			strings.Contains(body, `"message_content":"hello"`) &&
			strings.Contains(body, `"message_conversation_id":7`)
	})).Return(jsonResponse(201, `{"message_id":99}`), nil)

	id, err := client.Messages.Create(context.Background(), &CreateMessageParams{
		Content:        "hello",
		Sender:         "user",
		ConversationID: 7,
		UserID:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, 99, id)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(
		withPath("/api/v1/messages/?conversation_id=7&page=1&page_size=50"))).
		Return(jsonResponse(200, `[{"message_id":99,"message_content":"hello","message_sender":"user"}]`), nil)

	messages, err := client.Messages.List(context.Background(), 7, 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)

	mockTransport.AssertExpectations(t)
}

func TestProjectService_CreateAndList(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		return req.Path == "/api/v1/personal-projects/" &&
			strings.Contains(string(req.Body), `"nom_projet":"Refonte SI"`)
	})).Return(jsonResponse(201, `{"signal":"project_created","project":{"project_id":3,"project_uuid":"u-3","nom_projet":"Refonte SI"}}`), nil)

	project, err := client.Projects.Create(context.Background(), &CreateProjectParams{Name: "Refonte SI"})
	require.NoError(t, err)
	assert.Equal(t, 3, project.ID)
	assert.Equal(t, "Refonte SI", project.Name)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(
		withPath("/api/v1/personal-projects/?user_id=1"))).
		Return(jsonResponse(200, `{"signal":"projects_retrieved","projects":[{"project_id":3,"nom_projet":"Refonte SI"}]}`), nil)

	projects, err := client.Projects.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 3, projects[0].ID)

	mockTransport.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		body := string(req.Body)
		return req.Path == "/api/v1/auth/login" &&
			strings.Contains(body, `"email":"user@example.com"`)
	})).Return(jsonResponse(200, `{"access_token":"access-abc","refresh_token":"refresh-xyz"}`), nil)

	resp, err := client.Auth.Login(context.Background(), "user@example.com", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "access-abc", resp.AccessToken)
	assert.Equal(t, "refresh-xyz", resp.RefreshToken)
	mockTransport.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.Anything).
		Return(jsonResponse(401, `{"signal":"invalid credentials"}`), nil)

	_, err := client.Auth.Login(context.Background(), "user@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	// No refresh token held, so the 401 surfaced immediately
	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 1)
}
