package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/spec-kit/it-helpdesk/internal/config"
	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// cloudinaryUploader posts unsigned multipart uploads to a Cloudinary-style
// endpoint, one request per file.
type cloudinaryUploader struct {
	url    string
	preset string
	client *http.Client
}

// NewCloudinaryUploader builds the HTTP uploader from config.
func NewCloudinaryUploader(cfg config.UploadConfig) Uploader {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &cloudinaryUploader{
		url:    cfg.URL,
		preset: cfg.Preset,
		client: &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

func (u *cloudinaryUploader) Upload(ctx context.Context, files []*multipart.FileHeader) ([]domain.Attachment, error) {
	attachments := make([]domain.Attachment, 0, len(files))
	for _, fh := range files {
		attachment, err := u.uploadOne(ctx, fh)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

func (u *cloudinaryUploader) uploadOne(ctx context.Context, fh *multipart.FileHeader) (domain.Attachment, error) {
	file, err := fh.Open()
	if err != nil {
		return domain.Attachment{}, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fh.Filename)
	if err != nil {
		return domain.Attachment{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.Attachment{}, err
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return domain.Attachment{}, err
	}
	if err := writer.WriteField("resource_type", "image"); err != nil {
		return domain.Attachment{}, err
	}
	if err := writer.Close(); err != nil {
		return domain.Attachment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, &body)
	if err != nil {
		return domain.Attachment{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.Attachment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Attachment{}, fmt.Errorf("upload service returned status %d", resp.StatusCode)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.Attachment{}, err
	}

	return domain.Attachment{
		FileName:   fh.Filename,
		SizeBytes:  fh.Size,
		URL:        parsed.SecureURL,
		UploadedAt: time.Now().UTC(),
	}, nil
}
