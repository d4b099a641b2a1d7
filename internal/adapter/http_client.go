package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/takhirov/menukeeper/internal/logger"
	"github.com/takhirov/menukeeper/models"
)

type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpMenuAdapter struct {
	client *resty.Client
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPMenuAdapter constructs the HTTP/REST implementation of
// RemoteMenuAPI. The timeout applies per call, so one stuck request cannot
// stall a whole sync pass.
func NewHTTPMenuAdapter(cfg HTTPClientConfig, log *logger.Logger) RemoteMenuAPI {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpMenuAdapter{client: cli, logger: log}
}

func (h *httpMenuAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpMenuAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpMenuAdapter) SessionValid() bool {
	token := h.Token()
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		// tokens without an expiry stay valid until the origin says otherwise
		return true
	}
	return exp.After(time.Now())
}

func (h *httpMenuAdapter) CreateItem(ctx context.Context, upload models.MenuItemUpload) (string, error) {
	req := h.authedRequest(ctx)

	payload, err := json.Marshal(upload)
	if err != nil {
		return "", fmt.Errorf("encode create payload: %w", err)
	}
	req.SetMultipartField("payload", "", "application/json", strings.NewReader(string(payload)))
	files := h.attachImages(req, upload.Images)
	defer closeFiles(files)

	resp, err := req.Post("/api/menu/items")
	if err != nil {
		return "", fmt.Errorf("create item request: %w", err)
	}
	if err = mapAPIError(resp); err != nil {
		return "", err
	}

	var cr models.CreateItemResponse
	if err = json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if !cr.Success {
		return "", fmt.Errorf("%w: %s", ErrRemoteRejected, cr.Message)
	}
	if cr.Data.ID == "" {
		return "", fmt.Errorf("create response carried no remote identifier")
	}

	return cr.Data.ID, nil
}

func (h *httpMenuAdapter) UpdateItem(ctx context.Context, upload models.MenuItemUpload) error {
	if upload.ServerID == "" {
		return fmt.Errorf("update requires a server identifier")
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(upload).
		Put("/api/menu/items/" + upload.ServerID)
	if err != nil {
		return fmt.Errorf("update item request: %w", err)
	}
	if err = mapAPIError(resp); err != nil {
		return err
	}

	return checkEnvelope(resp.Body())
}

func (h *httpMenuAdapter) DeleteItem(ctx context.Context, ownerID, serverID string) error {
	if serverID == "" {
		return fmt.Errorf("delete requires a server identifier")
	}

	resp, err := h.authedRequest(ctx).
		SetQueryParam("owner_id", ownerID).
		Delete("/api/menu/items/" + serverID)
	if err != nil {
		return fmt.Errorf("delete item request: %w", err)
	}
	if err = mapAPIError(resp); err != nil {
		return err
	}

	return checkEnvelope(resp.Body())
}

func (h *httpMenuAdapter) FetchCategories(ctx context.Context, ownerID string) ([]models.CategoryCacheEntry, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("owner_id", ownerID).
		Get("/api/menu/categories")
	if err != nil {
		return nil, fmt.Errorf("fetch categories request: %w", err)
	}
	if err = mapAPIError(resp); err != nil {
		return nil, err
	}

	var cr models.CategoriesResponse
	if err = json.Unmarshal(resp.Body(), &cr); err != nil {
		return nil, fmt.Errorf("decode categories response: %w", err)
	}
	if !cr.Success {
		return nil, fmt.Errorf("%w: %s", ErrRemoteRejected, cr.Message)
	}

	return cr.Data, nil
}

func (h *httpMenuAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// attachImages adds each readable image file as a multipart part. A missing
// file is skipped rather than failing the whole upload: the row syncs now
// and the image follows once the file reappears locally.
//
// resty never closes readers handed to SetFileReader, so the opened files
// are returned and the caller closes them once the request has finished.
func (h *httpMenuAdapter) attachImages(req *resty.Request, images []models.ImageUpload) []*os.File {
	var files []*os.File
	for i, img := range images {
		f, err := os.Open(img.Ref)
		if err != nil {
			h.logger.Warn().Err(err).
				Str("func", "httpMenuAdapter.attachImages").
				Str("ref", img.Ref).
				Msg("skipping unreadable image attachment")
			continue
		}
		files = append(files, f)
		field := fmt.Sprintf("image_%d", i)
		req.SetFileReader(field, filepath.Base(img.Ref), f)
	}
	return files
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

func mapAPIError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

// checkEnvelope inspects the structured status flag the origin responds
// with. A 2xx with success=false is still a rejected call.
func checkEnvelope(body []byte) error {
	var env models.APIResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrRemoteRejected, env.Message)
	}
	return nil
}
