package minirag

import (
	"context"
	"io"

	"github.com/minirag/minirag-go/internal/types"
)

// Transport performs a single HTTP exchange. An error return means the
// exchange never completed cleanly; such failures carry no status code
// and never trigger the refresh protocol.
type Transport interface {
	RoundTrip(ctx context.Context, req *types.Request) (*types.Response, error)
}

// RefreshListener observes the outcome of a refresh attempt. It is
// called at most once per attempt: with the new access token on
// success, or with an empty string when the refresh failed and the
// session must be torn down.
type RefreshListener interface {
	OnTokenRefreshed(newToken string)
}

// AuthService handles the unauthenticated endpoints. These calls do not
// install tokens on the client; that is the Coordinator's job.
type AuthService interface {
	// Register creates an account and returns its initial token pair
	Register(ctx context.Context, params *RegisterParams) (*RegisterResponse, error)

	// Login exchanges credentials for a token pair
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// Refresh mints a new access token from a refresh token
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
}

// DataService handles document upload and asset management for the
// client's project scope.
type DataService interface {
	// Upload uploads a document as multipart form data
	Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error)

	// Process chunks uploaded documents, optionally a single file
	Process(ctx context.Context, params *ProcessParams) (*ProcessResult, error)

	// ListAssets lists uploaded documents
	ListAssets(ctx context.Context) ([]*Asset, error)

	// DeleteAsset deletes a document by name
	DeleteAsset(ctx context.Context, assetName string) (*DeleteAssetResult, error)
}

// NLPService handles vector indexing and RAG answering.
type NLPService interface {
	// PushIndex pushes processed chunks into the vector index
	PushIndex(ctx context.Context, doReset bool) (*PushIndexResult, error)

	// Answer runs retrieval-augmented answering over the index
	Answer(ctx context.Context, params *AnswerParams) (*AnswerResult, error)
}

// ConversationService handles chat threads.
type ConversationService interface {
	// Create creates a conversation in the client's project scope
	Create(ctx context.Context, params *CreateConversationParams) (int, error)

	// Get retrieves a single conversation
	Get(ctx context.Context, conversationID int) (*Conversation, error)

	// List retrieves conversations for the client's project, paginated
	List(ctx context.Context, page, pageSize int) ([]*Conversation, error)

	// Update updates a conversation
	Update(ctx context.Context, conversationID int, params *UpdateConversationParams) error

	// Delete deletes a conversation
	Delete(ctx context.Context, conversationID int) error
}

// MessageService handles chat messages.
type MessageService interface {
	// Create creates a message in a conversation
	Create(ctx context.Context, params *CreateMessageParams) (int, error)

	// Get retrieves a single message
	Get(ctx context.Context, messageID int) (*Message, error)

	// List retrieves messages, optionally filtered by conversation
	List(ctx context.Context, conversationID, page, pageSize int) ([]*Message, error)

	// Update updates a message
	Update(ctx context.Context, messageID int, params *UpdateMessageParams) error
}

// ProjectService handles personal project records.
type ProjectService interface {
	// Create creates a personal project
	Create(ctx context.Context, params *CreateProjectParams) (*Project, error)

	// Get retrieves a single project
	Get(ctx context.Context, projectID int) (*Project, error)

	// List retrieves the projects owned by a user
	List(ctx context.Context, userID int) ([]*Project, error)

	// Update updates a project
	Update(ctx context.Context, projectID int, params *UpdateProjectParams) (*Project, error)

	// Delete deletes a project
	Delete(ctx context.Context, projectID int) error
}
