package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const cloudinaryBase = "https://api.cloudinary.com/v1_1"

// Cloudinary uploads PDFs and other documents via Cloudinary's signed
// upload API. The sanitized filename becomes the public_id so download
// links stay readable.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	endpoint  string
	client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		endpoint:  cloudinaryBase,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (cl *Cloudinary) Put(ctx context.Context, f File) (string, error) {
	publicID := SanitizeFilename(f.Filename)
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := cl.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", f.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	_ = w.WriteField("public_id", publicID)
	_ = w.WriteField("timestamp", timestamp)
	_ = w.WriteField("api_key", cl.apiKey)
	_ = w.WriteField("signature", signature)
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	uploadURL := fmt.Sprintf("%s/%s/auto/upload", cl.endpoint, cl.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := cl.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	var parsed cloudinaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid provider response", ErrUploadFailed)
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("%w: provider returned no url", ErrUploadFailed)
	}
	return parsed.SecureURL, nil
}

// publicIDPattern extracts the object key from a Cloudinary delivery URL:
// .../upload/v12345/some-key.pdf -> some-key
var publicIDPattern = regexp.MustCompile(`/upload/(?:v\d+/)?([^/]+?)(?:\.[a-zA-Z0-9]+)?$`)

// Delete destroys the remote object derived from the stored URL. A URL
// that does not match the delivery pattern is logged and skipped.
func (cl *Cloudinary) Delete(ctx context.Context, fileURL string) error {
	m := publicIDPattern.FindStringSubmatch(fileURL)
	if m == nil {
		slog.Warn("cloudinary delete: url not recognized, skipping", "url", fileURL)
		return nil
	}
	publicID := m[1]

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := cl.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	})

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", cl.apiKey)
	form.Set("signature", signature)

	destroyURL := fmt.Sprintf("%s/%s/image/destroy", cl.endpoint, cl.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destroyURL, strings.NewReader(form.Encode()))
	if err != nil {
		slog.Warn("cloudinary delete failed", "url", fileURL, "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := cl.client.Do(req)
	if err != nil {
		slog.Warn("cloudinary delete failed", "url", fileURL, "error", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("cloudinary delete returned non-200", "url", fileURL, "status", resp.StatusCode)
	}
	return nil
}

// sign builds Cloudinary's request signature: sha1 over the sorted
// key=value pairs joined by & with the API secret appended.
func (cl *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + cl.apiSecret))
	return fmt.Sprintf("%x", sum)
}
