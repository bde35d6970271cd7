package upload

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestIsValidImage(t *testing.T) {
	assert.True(t, IsValidImage("screen.png"))
	assert.True(t, IsValidImage("photo.JPG"))
	assert.True(t, IsValidImage("anim.webp"))
	assert.False(t, IsValidImage("notes.pdf"))
	assert.False(t, IsValidImage("archive.tar.gz"))
	assert.False(t, IsValidImage("noextension"))
}

func TestValidateAcceptsImageBatch(t *testing.T) {
	files := []*multipart.FileHeader{
		header("a.png", 1024),
		header("b.jpeg", 2048),
	}
	assert.NoError(t, Validate(files, 5, 2*1024*1024))
}

func TestValidateRejectsTooManyFiles(t *testing.T) {
	files := []*multipart.FileHeader{
		header("a.png", 1), header("b.png", 1), header("c.png", 1),
	}
	err := Validate(files, 2, 2*1024*1024)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestValidateRejectsNonImages(t *testing.T) {
	files := []*multipart.FileHeader{header("malware.exe", 1024)}
	err := Validate(files, 5, 2*1024*1024)
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "invalid_files")
}

func TestValidateRejectsOversizedFiles(t *testing.T) {
	files := []*multipart.FileHeader{header("huge.png", 3*1024*1024)}
	err := Validate(files, 5, 2*1024*1024)
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "oversized_files")
}
