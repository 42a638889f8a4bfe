package upload

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"main/utils"
)

// MaxFileSize is the per-file ceiling for every upload folder.
const MaxFileSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Policy describes what an intake accepts for one logical folder.
type Policy struct {
	Folder      string
	MaxFileSize int64
	MaxFiles    int
}

func NoteImages() Policy {
	return Policy{Folder: "notes", MaxFileSize: MaxFileSize, MaxFiles: 10}
}

func ProfilePicture() Policy {
	return Policy{Folder: "profiles", MaxFileSize: MaxFileSize, MaxFiles: 1}
}

// CheckHeader validates a file's declared extension, MIME type and size
// against the policy. Only the multipart header is inspected, never content.
func (p Policy) CheckHeader(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return utils.FileRejectedError(fmt.Sprintf("invalid file type: %s (only jpg, jpeg, png, gif, webp allowed)", fh.Filename))
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !allowedMIMETypes[ct] {
		return utils.FileRejectedError(fmt.Sprintf("invalid file type: %s (only jpg, jpeg, png, gif, webp allowed)", fh.Filename))
	}
	if fh.Size > p.MaxFileSize {
		return utils.FileRejectedError(fmt.Sprintf("file too large: %s", fh.Filename))
	}
	return nil
}

// FilesForField extracts the uploads for a named field, rejecting requests
// that attach files under any other field name.
func FilesForField(form *multipart.Form, field string) ([]*multipart.FileHeader, error) {
	if form == nil {
		return nil, nil
	}
	for name, headers := range form.File {
		if name != field && len(headers) > 0 {
			return nil, utils.UploadError("unexpected file field: " + name)
		}
	}
	return form.File[field], nil
}
