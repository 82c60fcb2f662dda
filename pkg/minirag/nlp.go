package minirag

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// nlpService implements the NLPService interface
type nlpService struct {
	client *Client
}

// PushIndex pushes processed chunks into the vector index
func (s *nlpService) PushIndex(ctx context.Context, doReset bool) (*PushIndexResult, error) {
	path := fmt.Sprintf("/api/v1/nlp/index/push/%d", s.client.ProjectID())
	payload := map[string]bool{"do_reset": doReset}

	var result PushIndexResult
	if err := s.client.postJSON(ctx, path, payload, &result); err != nil {
		return nil, errors.Wrap(err, "failed to push index")
	}
	return &result, nil
}

// Answer runs retrieval-augmented answering over the index
func (s *nlpService) Answer(ctx context.Context, params *AnswerParams) (*AnswerResult, error) {
	if params == nil || params.Text == "" {
		return nil, &Error{Message: "answer text is required"}
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}

	path := fmt.Sprintf("/api/v1/nlp/index/answer/%d", s.client.ProjectID())

	var result AnswerResult
	if err := s.client.postJSON(ctx, path, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to answer")
	}
	return &result, nil
}
