// Package client is the HTTP client used to submit wrapped models to a
// registry server. It drives the same JSON API the handler package serves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"neutone-sdk/internal/domain"
	"neutone-sdk/internal/dto"
	"neutone-sdk/internal/wrapper"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL + "/api/v1/registry",
	}
}

// GetModelByName fetches a model by its exact name.
func (c *Client) GetModelByName(ctx context.Context, name string) (*dto.ModelResponse, error) {
	var out dto.ModelResponse
	path := "/model?name=" + url.QueryEscape(name)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	var out dto.ModelResponse
	if err := c.doJSON(ctx, http.MethodPost, "/models", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnsureModel returns the registered model with the given name, creating it
// when it does not exist yet.
func (c *Client) EnsureModel(ctx context.Context, req dto.CreateModelRequest) (*dto.ModelResponse, error) {
	model, err := c.GetModelByName(ctx, req.Name)
	if err == nil {
		return model, nil
	}
	if !errors.Is(err, domain.ErrModelNotFound) {
		return nil, err
	}

	log.WithField("model", req.Name).Info("model not registered yet, creating it")
	return c.CreateModel(ctx, req)
}

func (c *Client) CreateVersion(ctx context.Context, modelID string, req dto.CreateModelVersionRequest) (*dto.ModelVersionResponse, error) {
	var out dto.ModelVersionResponse
	path := fmt.Sprintf("/models/%s/versions", modelID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadArtifact streams a model file to the registry as a multipart upload.
// When progress is non-nil every uploaded chunk is mirrored to it, which is
// how the CLI drives its progress bar.
func (c *Client) UploadArtifact(ctx context.Context, modelID, version, path string, progress io.Writer) (*dto.ModelVersionResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if progress != nil {
		src = io.TeeReader(f, progress)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(fw, src)
		}
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	uploadURL := fmt.Sprintf("%s/models/%s/versions/%s/artifact", c.baseURL, modelID, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}
	defer resp.Body.Close()

	var out dto.ModelVersionResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit registers a wrapped model end to end: ensure the model exists,
// create the version described by the card, then upload the artifact.
func (c *Client) Submit(ctx context.Context, card *wrapper.Metadata, artifactPath string, progress io.Writer) (*dto.ModelVersionResponse, error) {
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("model card: %w", err)
	}

	model, err := c.EnsureModel(ctx, dto.CreateModelRequest{
		Name:             card.Name,
		Authors:          card.Authors,
		ShortDescription: card.ShortDescription,
		LongDescription:  card.LongDescription,
		Tags:             card.Tags,
		IsExperimental:   card.IsExperimental,
	})
	if err != nil {
		return nil, err
	}

	params := make([]dto.ParamSpecDTO, 0, len(card.Parameters))
	for _, p := range card.Parameters {
		params = append(params, dto.ParamSpecDTO{
			Name:        p.Name,
			Description: p.Description,
			Default:     p.Default,
			Used:        p.Used,
		})
	}

	version, err := c.CreateVersion(ctx, model.ID.String(), dto.CreateModelVersionRequest{
		Version:           card.Version,
		SDKVersion:        card.SDKVersion,
		IsInputMono:       card.IsInputMono,
		IsOutputMono:      card.IsOutputMono,
		NativeSampleRates: card.NativeSampleRates,
		NativeBufferSizes: card.NativeBufferSizes,
		MinDelaySamples:   card.MinDelaySamples,
		Parameters:        params,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"model":   card.Name,
		"version": version.Version,
	}).Info("version registered, uploading artifact")

	return c.UploadArtifact(ctx, model.ID.String(), version.Version, artifactPath, progress)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrModelNotFound
	case http.StatusConflict:
		return domain.ErrVersionConflict
	default:
		if apiErr.Error != "" {
			return fmt.Errorf("registry: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("registry: unexpected status %d", resp.StatusCode)
	}
}
