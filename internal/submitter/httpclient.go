package submitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// DefaultRPCTimeout is the per-call timeout for the external platform
// RPCs, per spec §6 ("all three have timeouts, default 60 min").
const DefaultRPCTimeout = 60 * time.Minute

// HTTPPlatformClient implements JobsService and PayloadsService against
// an HTTP job-submission platform. The platform itself is external and
// unspecified by the spec beyond its three RPC shapes; no pipeline-SDK
// equivalent exists anywhere in the example pack, so this is a direct
// net/http JSON/multipart client rather than a generic wrapper.
type HTTPPlatformClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPPlatformClient creates a client targeting baseURL.
func NewHTTPPlatformClient(baseURL string) *HTTPPlatformClient {
	return &HTTPPlatformClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultRPCTimeout},
	}
}

type createJobRequest struct {
	PipelineID string         `json:"pipelineId"`
	JobName    string         `json:"jobName"`
	Priority   model.Priority `json:"priority"`
}

type createJobResponse struct {
	JobID     string `json:"jobId"`
	PayloadID string `json:"payloadId"`
}

// CreateJob implements JobsService.
func (c *HTTPPlatformClient) CreateJob(ctx context.Context, pipelineID, jobName string, priority model.Priority) (model.JobReceipt, error) {
	body, err := json.Marshal(createJobRequest{PipelineID: pipelineID, JobName: jobName, Priority: priority})
	if err != nil {
		return model.JobReceipt{}, fmt.Errorf("encode createJob request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return model.JobReceipt{}, fmt.Errorf("build createJob request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.JobReceipt{}, fmt.Errorf("createJob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return model.JobReceipt{}, fmt.Errorf("createJob: unexpected status %d", resp.StatusCode)
	}

	var out createJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.JobReceipt{}, fmt.Errorf("decode createJob response: %w", err)
	}

	return model.JobReceipt{JobID: out.JobID, PayloadID: out.PayloadID}, nil
}

// StartJob implements JobsService.
func (c *HTTPPlatformClient) StartJob(ctx context.Context, receipt model.JobReceipt) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs/"+receipt.JobID+"/start", nil)
	if err != nil {
		return fmt.Errorf("build startJob request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("startJob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("startJob: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UploadPayload implements PayloadsService, streaming each file as a
// multipart form part.
func (c *HTTPPlatformClient) UploadPayload(ctx context.Context, payloadID string, files []string) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		errCh <- writeMultipartFiles(mw, pw, files)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/payloads/"+payloadID, pr)
	if err != nil {
		return fmt.Errorf("build uploadPayload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if werr := <-errCh; werr != nil {
		return fmt.Errorf("write payload %s: %w", payloadID, werr)
	}
	if err != nil {
		return fmt.Errorf("uploadPayload %s: %w", payloadID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("uploadPayload %s: unexpected status %d", payloadID, resp.StatusCode)
	}
	return nil
}

// writeMultipartFiles writes each file as a form part and closes both
// the multipart writer and the pipe, so the HTTP request body reaches
// EOF once every file has been streamed.
func writeMultipartFiles(mw *multipart.Writer, pw *io.PipeWriter, files []string) error {
	for _, path := range files {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			_ = pw.CloseWithError(err)
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			_ = pw.CloseWithError(err)
			return err
		}
		_, copyErr := io.Copy(part, f)
		_ = f.Close()
		if copyErr != nil {
			_ = pw.CloseWithError(copyErr)
			return copyErr
		}
	}
	if err := mw.Close(); err != nil {
		_ = pw.CloseWithError(err)
		return err
	}
	return pw.Close()
}
