package minirag

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/minirag/minirag-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport mocks the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) RoundTrip(ctx context.Context, req *types.Request) (*types.Response, error) {
	args := m.Called(ctx, req)
	var resp *types.Response
	if r := args.Get(0); r != nil {
		resp = r.(*types.Response)
	}
	return resp, args.Error(1)
}

// recordingListener records every refresh notification it receives.
type recordingListener struct {
	tokens []string
}

func (l *recordingListener) OnTokenRefreshed(newToken string) {
	l.tokens = append(l.tokens, newToken)
}

func newTestClient(mt *MockTransport) *Client {
	client := &Client{
		baseURL:   "https://api.test.com",
		transport: mt,
		options:   &ClientOptions{},
		projectID: 1,
	}
	client.initServices()
	return client
}

func jsonResponse(status int, body string) *types.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return &types.Response{StatusCode: status, Header: header, Body: []byte(body)}
}

func textResponse(status int, body string) *types.Response {
	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	return &types.Response{StatusCode: status, Header: header, Body: []byte(body)}
}

func withBearer(token string) func(*types.Request) bool {
	return func(req *types.Request) bool {
		return req.Header.Get("Authorization") == "Bearer "+token
	}
}

func withPath(path string) func(*types.Request) bool {
	return func(req *types.Request) bool {
		return req.Path == path
	}
}

func TestClient_Do_Success(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("valid-token")

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withBearer("valid-token"))).
		Return(jsonResponse(200, `{"x":1}`), nil)

	var result map[string]int
	err := client.get(context.Background(), "/api/v1/data/assets/1", &result)

	assert.NoError(t, err)
	assert.Equal(t, 1, result["x"])
	mockTransport.AssertExpectations(t)
}

func TestClient_Do_NoTokenSendsNoHeader(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		_, present := req.Header["Authorization"]
		return !present
	})).Return(jsonResponse(200, `{}`), nil)

	err := client.get(context.Background(), "/api/v1/data/assets/1", nil)

	assert.NoError(t, err)
	mockTransport.AssertExpectations(t)
}

func TestClient_Do_RefreshAndRetry(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("stale-token")
	client.SetRefreshToken("refresh-token")

	listener := &recordingListener{}
	client.SetRefreshListener(listener)

	// Original call with the stale token is rejected
	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withBearer("stale-token"))).
		Return(jsonResponse(401, `{"signal":"token expired"}`), nil).Once()

	// Refresh succeeds
	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withPath("/api/v1/auth/refresh"))).
		Return(jsonResponse(200, `{"access_token":"fresh-token"}`), nil).Once()

	// Retry with the freshly installed token succeeds
	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withBearer("fresh-token"))).
		Return(jsonResponse(200, `{"x":2}`), nil).Once()

	var result map[string]int
	err := client.get(context.Background(), "/api/v1/data/assets/1", &result)

	assert.NoError(t, err)
	assert.Equal(t, 2, result["x"])
	assert.Equal(t, "fresh-token", client.AccessToken())
	assert.Equal(t, []string{"fresh-token"}, listener.tokens)
	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 3)
	mockTransport.AssertExpectations(t)
}

func TestClient_Do_RefreshFailureIsTerminal(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("stale-token")
	client.SetRefreshToken("refresh-token")

	listener := &recordingListener{}
	client.SetRefreshListener(listener)

	// Server answers 401 to everything, including the refresh endpoint.
	// The pipeline must terminate after original + refresh.
	mockTransport.On("RoundTrip", mock.Anything, mock.Anything).
		Return(jsonResponse(401, `{"signal":"unauthorized"}`), nil)

	var result map[string]int
	err := client.get(context.Background(), "/api/v1/data/assets/1", &result)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 401, StatusOf(err))
	assert.Contains(t, err.Error(), "session expired")

	// Listener fired exactly once, with the failure signal
	assert.Equal(t, []string{""}, listener.tokens)

	// Stale token copy is untouched by the failed refresh
	assert.Equal(t, "stale-token", client.AccessToken())

	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 2)
}

func TestClient_Do_RetryFailureDoesNotRefreshTwice(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("stale-token")
	client.SetRefreshToken("refresh-token")

	listener := &recordingListener{}
	client.SetRefreshListener(listener)

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withBearer("stale-token"))).
		Return(jsonResponse(401, `{}`), nil).Once()
	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withPath("/api/v1/auth/refresh"))).
		Return(jsonResponse(200, `{"access_token":"fresh-token"}`), nil).Once()
	// Adversarial server: the retry is rejected too
	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withBearer("fresh-token"))).
		Return(jsonResponse(401, `{"signal":"still unauthorized"}`), nil).Once()

	err := client.get(context.Background(), "/api/v1/data/assets/1", nil)

	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	assert.Contains(t, err.Error(), "still unauthorized")

	// One refresh, one retry, then done: three exchanges total
	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 3)
	assert.Equal(t, []string{"fresh-token"}, listener.tokens)
	mockTransport.AssertExpectations(t)
}

func TestClient_Do_401WithoutRefreshToken(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("stale-token")

	mockTransport.On("RoundTrip", mock.Anything, mock.Anything).
		Return(jsonResponse(401, `{"signal":"unauthorized"}`), nil).Once()

	err := client.get(context.Background(), "/api/v1/data/assets/1", nil)

	require.Error(t, err)
	assert.Equal(t, 401, StatusOf(err))
	assert.Contains(t, err.Error(), "unauthorized")

	// No refresh attempt at all
	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 1)
}

func TestClient_Do_TransportErrorNeverRefreshes(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("valid-token")
	client.SetRefreshToken("refresh-token")

	mockTransport.On("RoundTrip", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()

	err := client.get(context.Background(), "/api/v1/data/assets/1", nil)

	require.Error(t, err)
	// Local failure carries no HTTP status
	assert.Equal(t, 0, StatusOf(err))
	assert.ErrorIs(t, err, assert.AnError)

	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 1)
}

func TestClient_Refresh_NoTokenIsLocalError(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	err := client.refreshAccessToken(context.Background())

	assert.ErrorIs(t, err, ErrNoRefreshToken)
	mockTransport.AssertNumberOfCalls(t, "RoundTrip", 0)
}

func TestClient_Do_NonJSONErrorBody(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("RoundTrip", mock.Anything, mock.Anything).
		Return(textResponse(500, "internal server error"), nil).Once()

	err := client.get(context.Background(), "/api/v1/data/assets/1", nil)

	require.Error(t, err)
	assert.Equal(t, 500, StatusOf(err))
	assert.Contains(t, err.Error(), "internal server error")
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		resp *types.Response
		want string
	}{
		{
			name: "signal field wins",
			resp: jsonResponse(422, `{"signal":"file type not supported","message":"other"}`),
			want: "file type not supported",
		},
		{
			name: "message field second",
			resp: jsonResponse(400, `{"message":"bad request"}`),
			want: "bad request",
		},
		{
			name: "json without known fields falls back to raw body",
			resp: jsonResponse(400, `{"detail":"nope"}`),
			want: `{"detail":"nope"}`,
		},
		{
			name: "plain text body",
			resp: textResponse(502, "bad gateway"),
			want: "bad gateway",
		},
		{
			name: "empty body falls back to generic message",
			resp: textResponse(500, ""),
			want: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorMessage(tt.resp))
		})
	}
}

func TestClient_Do_RetryReusesMethodAndBody(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)
	client.SetAccessToken("stale-token")
	client.SetRefreshToken("refresh-token")

	isOriginal := func(req *types.Request) bool {
		return req.Path == "/api/v1/nlp/index/answer/1" &&
			req.Method == http.MethodPost &&
			strings.Contains(string(req.Body), `"text":"hello"`)
	}

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		return isOriginal(req) && req.Header.Get("Authorization") == "Bearer stale-token"
	})).Return(jsonResponse(401, `{}`), nil).Once()

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(withPath("/api/v1/auth/refresh"))).
		Return(jsonResponse(200, `{"access_token":"fresh-token"}`), nil).Once()

	mockTransport.On("RoundTrip", mock.Anything, mock.MatchedBy(func(req *types.Request) bool {
		return isOriginal(req) && req.Header.Get("Authorization") == "Bearer fresh-token"
	})).Return(jsonResponse(200, `{"signal":"ok","answer":"hi"}`), nil).Once()

	answer, err := client.NLP.Answer(context.Background(), &AnswerParams{Text: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hi", answer.Answer)
	mockTransport.AssertExpectations(t)
}
