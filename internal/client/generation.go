package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ignite/internal/api"
)

// Generate starts a new generation run.
func (c *Client) Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return api.GenerateResponse{}, errors.New("client: prompt is required")
	}
	var resp api.GenerateResponse
	if err := c.postJSON(ctx, "api/generate", req, &resp); err != nil {
		return api.GenerateResponse{}, err
	}
	if resp.RunID == "" {
		return api.GenerateResponse{}, errors.New("client: generate response missing run_id")
	}
	return resp, nil
}

// Upload sends a product image and returns the server-side path to reference
// in a subsequent Generate call.
func (c *Client) Upload(ctx context.Context, filePath string) (api.UploadResponse, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("client: open upload: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "api/upload", pr)
	if err != nil {
		return api.UploadResponse{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp api.UploadResponse
	if err := c.doJSON(req, &resp); err != nil {
		return api.UploadResponse{}, err
	}
	if resp.Path == "" {
		return api.UploadResponse{}, errors.New("client: upload response missing path")
	}
	return resp, nil
}

// Status fetches the current state of a run.
func (c *Client) Status(ctx context.Context, runID string) (api.StatusResponse, error) {
	if strings.TrimSpace(runID) == "" {
		return api.StatusResponse{}, errors.New("client: run id is required")
	}
	var resp api.StatusResponse
	if err := c.getJSON(ctx, "api/status/"+runID, nil, &resp); err != nil {
		return api.StatusResponse{}, err
	}
	if resp.RunID == "" {
		resp.RunID = runID
	}
	return resp, nil
}

// RegenerateScene asks the server to redo one scene of a completed run.
func (c *Client) RegenerateScene(ctx context.Context, runID, sceneID string, req api.RegenerateSceneRequest) (api.GenerateResponse, error) {
	if strings.TrimSpace(runID) == "" || strings.TrimSpace(sceneID) == "" {
		return api.GenerateResponse{}, errors.New("client: run id and scene id are required")
	}
	var resp api.GenerateResponse
	if err := c.postJSON(ctx, "api/regenerate-scene/"+runID+"/"+sceneID, req, &resp); err != nil {
		return api.GenerateResponse{}, err
	}
	if resp.RunID == "" {
		resp.RunID = runID
	}
	return resp, nil
}

// DownloadVideo streams the final video of a run into destPath. It writes to
// a temp file first so an interrupted transfer never leaves a partial video
// at the destination.
func (c *Client) DownloadVideo(ctx context.Context, runID, destPath string) (written int64, err error) {
	if strings.TrimSpace(runID) == "" {
		return 0, errors.New("client: run id is required")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "api/download/"+runID, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "video/mp4, application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("client: download %s: %w", runID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, decodeStatusError(resp)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, fmt.Errorf("client: create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".ignite-download-*")
	if err != nil {
		return 0, fmt.Errorf("client: create temp download: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	written, err = io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("client: write download: %w", err)
	}
	if err = os.Rename(tmpName, destPath); err != nil {
		return 0, fmt.Errorf("client: finalize download: %w", err)
	}
	return written, nil
}
