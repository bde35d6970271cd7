package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-helpdesk/internal/config"
)

// buildFileHeaders produces openable multipart file headers the way a real
// form submission would.
func buildFileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := writer.CreateFormFile("attachments", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["attachments"]
}

func TestUploadPostsEachFile(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "test-preset", r.FormValue("upload_preset"))
		assert.Equal(t, "image", r.FormValue("resource_type"))
		require.Len(t, r.MultipartForm.File["file"], 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/img.png","public_id":"img"}`))
	}))
	defer server.Close()

	uploader := NewCloudinaryUploader(config.UploadConfig{
		URL:            server.URL,
		Preset:         "test-preset",
		TimeoutSeconds: 5,
	})

	files := buildFileHeaders(t, "screen.png", "error.jpg")
	attachments, err := uploader.Upload(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	require.Len(t, attachments, 2)
	assert.Equal(t, "screen.png", attachments[0].FileName)
	assert.Equal(t, "https://cdn.example.com/img.png", attachments[0].URL)
	assert.NotZero(t, attachments[0].SizeBytes)
	assert.False(t, attachments[0].UploadedAt.IsZero())
}

func TestUploadAbortsOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	uploader := NewCloudinaryUploader(config.UploadConfig{URL: server.URL, Preset: "p", TimeoutSeconds: 5})
	files := buildFileHeaders(t, "screen.png")

	_, err := uploader.Upload(context.Background(), files)
	assert.Error(t, err)
}
