package minirag

import "encoding/json"

// User identifies the authenticated account.
type User struct {
	ID    int    `json:"user_id"`
	Email string `json:"email"`
}

// Credential is the session state owned by the Coordinator. Clients
// receive copies of the token fields through explicit pushes and never
// read or write the persisted store themselves.
type Credential struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Empty reports whether no field of the credential is set.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.User == nil
}

// SessionState is the coordinator's three-valued readiness. Consumers
// must not treat a session as anonymous before the persisted state has
// been read once; SessionStateUnknown makes that window explicit.
type SessionState int

const (
	// SessionStateUnknown means Hydrate has not completed yet
	SessionStateUnknown SessionState = iota

	// SessionStateAuthenticated means a persisted access token was found
	SessionStateAuthenticated

	// SessionStateAnonymous means the store was read and holds no token
	SessionStateAnonymous
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case SessionStateAuthenticated:
		return "authenticated"
	case SessionStateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// RegisterParams are the fields for account creation.
type RegisterParams struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// RegisterResponse is returned by the register endpoint.
type RegisterResponse struct {
	UserID       int    `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by the refresh endpoint.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UploadResult is returned after a file upload.
type UploadResult struct {
	Signal    string `json:"signal"`
	FileID    string `json:"file_id"`
	AssetName string `json:"asset_name"`
}

// ProcessParams controls document chunking.
type ProcessParams struct {
	ChunkSize   int    `json:"chunk_size"`
	OverlapSize int    `json:"overlap_size"`
	DoReset     int    `json:"do_reset"`
	FileID      string `json:"file_id,omitempty"`
}

// ProcessResult is returned after chunk processing.
type ProcessResult struct {
	Signal         string `json:"signal"`
	InsertedChunks int    `json:"inserted_chunks"`
	ProcessedFiles int    `json:"processed_files"`
}

// PushIndexResult is returned after pushing chunks into the vector index.
type PushIndexResult struct {
	Signal             string `json:"signal"`
	InsertedItemsCount int    `json:"inserted_items_count"`
}

// AnswerParams configures a RAG answer request.
type AnswerParams struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

// AnswerResult is a RAG answer with its supporting context.
type AnswerResult struct {
	Signal      string          `json:"signal"`
	Answer      string          `json:"answer"`
	FullPrompt  string          `json:"full_prompt"`
	ChatHistory json.RawMessage `json:"chat_history"`
}

// Asset is an uploaded document.
type Asset struct {
	AssetID   int    `json:"asset_id"`
	AssetName string `json:"asset_name"`
	AssetSize int64  `json:"asset_size"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DeleteAssetResult confirms an asset deletion.
type DeleteAssetResult struct {
	Signal    string `json:"signal"`
	AssetName string `json:"asset_name"`
}

// Conversation is a chat thread scoped to a project.
type Conversation struct {
	ID          int    `json:"conversation_id"`
	Title       string `json:"conversation_title"`
	Description string `json:"conversation_description"`
	ProjectID   int    `json:"conversation_project_id"`
	UserID      int    `json:"conversation_user_id"`
}

// CreateConversationParams are the fields for a new conversation. The
// project scope is taken from the client instance.
type CreateConversationParams struct {
	Title       string
	Description string
	UserID      int
}

// UpdateConversationParams are the mutable conversation fields.
type UpdateConversationParams struct {
	Title       string
	Description string
}

// Message is a single chat message.
type Message struct {
	ID             int    `json:"message_id"`
	Content        string `json:"message_content"`
	Sender         string `json:"message_sender"`
	ConversationID int    `json:"message_conversation_id"`
	UserID         int    `json:"message_user_id"`
}

// CreateMessageParams are the fields for a new message.
type CreateMessageParams struct {
	Content        string
	Sender         string
	ConversationID int
	UserID         int
}

// UpdateMessageParams are the mutable message fields.
type UpdateMessageParams struct {
	Content string
	Sender  string
}

// Project is a personal project record.
type Project struct {
	ID          int    `json:"project_id"`
	UUID        string `json:"project_uuid"`
	Name        string `json:"nom_projet"`
	Description string `json:"description_projet"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// CreateProjectParams are the fields for a new personal project.
type CreateProjectParams struct {
	Name        string `json:"nom_projet"`
	Description string `json:"description_projet"`
	UserID      int    `json:"user_id,omitempty"`
}

// UpdateProjectParams are the mutable project fields.
type UpdateProjectParams struct {
	Name        string `json:"nom_projet,omitempty"`
	Description string `json:"description_projet,omitempty"`
}
