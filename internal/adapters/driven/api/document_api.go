package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driven"
)

// ListDocuments implements driven.DocumentAPI.
func (c *Client) ListDocuments(ctx context.Context, classID string) ([]domain.Document, error) {
	endpoint := c.ingestionURL + "/api/documents?class_id=" + url.QueryEscape(classID)
	var docs []domain.Document
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument implements driven.DocumentAPI.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete,
		c.ingestionURL+"/api/documents/"+url.PathEscape(id), nil, nil)
}

// PresignBatch implements driven.DocumentAPI. Ids the backend cannot
// presign come back as JSON null and map to an empty string.
func (c *Client) PresignBatch(ctx context.Context, ids []string) (map[string]string, error) {
	req := struct {
		DocumentIDs []string `json:"document_ids"`
	}{DocumentIDs: ids}

	var raw map[string]*string
	err := c.doJSON(ctx, http.MethodPost, c.ingestionURL+"/api/presign/batch", req, &raw)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(raw))
	for id, u := range raw {
		if u != nil {
			urls[id] = *u
		} else {
			urls[id] = ""
		}
	}
	return urls, nil
}

// Upload implements driven.DocumentAPI with a single multipart request
// carrying the class id and every file.
func (c *Client) Upload(
	ctx context.Context, classID string, files []driven.UploadFile,
) (*driven.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("class_id", classID); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("building upload request: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.ingestionURL+"/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result driven.UploadResult
	if err := c.finish(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
