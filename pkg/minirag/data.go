package minirag

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// dataService implements the DataService interface
type dataService struct {
	client *Client
}

// Upload uploads a document as multipart form data
func (s *dataService) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	// Build multipart form
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create form file")
	}

	if _, err := io.Copy(part, content); err != nil {
		return nil, errors.Wrap(err, "failed to write file data")
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close multipart writer")
	}

	path := fmt.Sprintf("/api/v1/data/upload/%d", s.client.ProjectID())

	var result UploadResult
	if err := s.client.do(ctx, http.MethodPost, path, writer.FormDataContentType(), buf.Bytes(), &result, 0); err != nil {
		return nil, errors.Wrap(err, "failed to upload file")
	}
	return &result, nil
}

// Process chunks uploaded documents, optionally a single file
func (s *dataService) Process(ctx context.Context, params *ProcessParams) (*ProcessResult, error) {
	if params == nil {
		params = &ProcessParams{}
	}

	path := fmt.Sprintf("/api/v1/data/process/%d", s.client.ProjectID())

	var result ProcessResult
	if err := s.client.postJSON(ctx, path, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to process files")
	}
	return &result, nil
}

// ListAssets lists uploaded documents
func (s *dataService) ListAssets(ctx context.Context) ([]*Asset, error) {
	path := fmt.Sprintf("/api/v1/data/assets/%d", s.client.ProjectID())

	var result struct {
		Signal string   `json:"signal"`
		Assets []*Asset `json:"assets"`
	}
	if err := s.client.get(ctx, path, &result); err != nil {
		return nil, errors.Wrap(err, "failed to list assets")
	}
	return result.Assets, nil
}

// DeleteAsset deletes a document by name
func (s *dataService) DeleteAsset(ctx context.Context, assetName string) (*DeleteAssetResult, error) {
	path := fmt.Sprintf("/api/v1/data/asset/%d/%s", s.client.ProjectID(), url.PathEscape(assetName))

	var result DeleteAssetResult
	if err := s.client.delete(ctx, path, &result); err != nil {
		return nil, errors.Wrap(err, "failed to delete asset")
	}
	return &result, nil
}
