// Package upload validates and pushes requester-submitted images to the
// hosting provider before a ticket is persisted.
package upload

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/spec-kit/it-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Uploader uploads a validated set of image files and returns hosted
// attachment metadata. An upload failure aborts the whole submission.
type Uploader interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]domain.Attachment, error)
}

// IsValidImage reports whether the file name carries a supported image
// extension.
func IsValidImage(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	_, ok := imageExtensions[ext]
	return ok
}

// Validate rejects non-image files, oversized files, and oversized batches.
// It runs before any network write.
func Validate(files []*multipart.FileHeader, maxFiles int, maxFileBytes int64) error {
	if len(files) > maxFiles {
		return apperrors.NewValidationError(
			fmt.Sprintf("too many attachments (max %d)", maxFiles),
			map[string]any{"attachments": len(files)},
		)
	}

	var invalid, oversized []string
	for _, fh := range files {
		if !IsValidImage(fh.Filename) {
			invalid = append(invalid, fh.Filename)
		}
		if fh.Size > maxFileBytes {
			oversized = append(oversized, fh.Filename)
		}
	}
	if len(invalid) > 0 {
		return apperrors.NewValidationError(
			"only image files (jpg, jpeg, png, gif, webp) are allowed",
			map[string]any{"invalid_files": strings.Join(invalid, ", ")},
		)
	}
	if len(oversized) > 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("files exceed %dMB limit", maxFileBytes/(1024*1024)),
			map[string]any{"oversized_files": strings.Join(oversized, ", ")},
		)
	}
	return nil
}
