package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const imgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgBB uploads images through the ImgBB hosting API.
type ImgBB struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewImgBB(apiKey string) *ImgBB {
	return &ImgBB{
		apiKey:   apiKey,
		endpoint: imgbbEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		DisplayURL string `json:"display_url"`
		URL        string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (i *ImgBB) Put(ctx context.Context, f File) (string, error) {
	form := url.Values{}
	form.Set("key", i.apiKey)
	form.Set("name", SanitizeFilename(f.Filename))
	form.Set("image", base64.StdEncoding.EncodeToString(f.Data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid provider response", ErrUploadFailed)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		msg := parsed.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	if parsed.Data.DisplayURL == "" {
		return "", fmt.Errorf("%w: provider returned no url", ErrUploadFailed)
	}
	return parsed.Data.DisplayURL, nil
}

// Delete is a no-op: ImgBB exposes no API deletion, only a web delete
// page. The stored URL simply becomes unreferenced.
func (i *ImgBB) Delete(_ context.Context, url string) error {
	slog.Warn("imgbb does not support API deletion, skipping", "url", url)
	return nil
}
