package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"main/filestore"
	"main/utils"

	"github.com/google/uuid"
)

// Intake writes accepted multipart files into the blob store under generated
// unique names. A batch is all-or-nothing: when any file is rejected, files
// already written for the batch are removed before the error is returned.
//
// Generated names are a random UUID plus the original extension, so
// concurrent uploads cannot collide on user-supplied names and there is no
// path traversal surface. There is no collision-detect retry; the collision
// probability is treated as negligible.
type Intake struct {
	Store  *filestore.Store
	Policy Policy
}

// File is one stored upload.
type File struct {
	Name string // generated filename: uuid + original extension
	Ref  string // public path recorded on documents
}

func NewIntake(store *filestore.Store, policy Policy) *Intake {
	return &Intake{Store: store, Policy: policy}
}

// SaveAll validates and stores a batch of files, returning them in input
// order. The count check runs before anything is durably written.
func (in *Intake) SaveAll(files []*multipart.FileHeader) ([]File, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > in.Policy.MaxFiles {
		return nil, utils.UploadError(fmt.Sprintf("too many files: at most %d allowed", in.Policy.MaxFiles))
	}

	saved := make([]File, 0, len(files))
	for _, fh := range files {
		if err := in.Policy.CheckHeader(fh); err != nil {
			in.Discard(saved)
			return nil, err
		}

		f, err := in.write(fh)
		if err != nil {
			in.Discard(saved)
			return nil, err
		}
		saved = append(saved, f)
	}

	utils.TrackUpload(in.Policy.Folder, len(saved))
	return saved, nil
}

// SaveOne stores a single-file field.
func (in *Intake) SaveOne(fh *multipart.FileHeader) (File, error) {
	files, err := in.SaveAll([]*multipart.FileHeader{fh})
	if err != nil {
		return File{}, err
	}
	return files[0], nil
}

// Discard best-effort deletes files stored by an earlier SaveAll.
func (in *Intake) Discard(files []File) {
	for _, f := range files {
		in.Store.Delete(in.Store.PhysicalPath(in.Policy.Folder, f.Name))
	}
}

// DiscardRefs best-effort deletes stored files by their public references.
func (in *Intake) DiscardRefs(refs []string) {
	for _, ref := range refs {
		in.Store.DeleteRef(in.Policy.Folder, ref)
	}
}

func (in *Intake) write(fh *multipart.FileHeader) (File, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dest := in.Store.PhysicalPath(in.Policy.Folder, name)

	src, err := fh.Open()
	if err != nil {
		return File{}, utils.UploadError("file upload error: " + err.Error())
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return File{}, utils.UploadError("file upload error: " + err.Error())
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		in.Store.Delete(dest)
		return File{}, utils.UploadError("file upload error: " + err.Error())
	}
	if err := dst.Close(); err != nil {
		in.Store.Delete(dest)
		return File{}, utils.UploadError("file upload error: " + err.Error())
	}

	return File{Name: name, Ref: in.Store.PublicPath(in.Policy.Folder, name)}, nil
}
