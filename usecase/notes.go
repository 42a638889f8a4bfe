package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"main/model"
	"main/repository"
	"main/upload"
	"main/utils"

	"github.com/google/uuid"
)

const maxTitleLength = 100

// NotesRepository is the persistence surface NoteService depends on.
type NotesRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, noteID, userID string) (*model.Note, error)
	FindNotes(ctx context.Context, q repository.NoteQuery) ([]*model.Note, int64, error)
	UpdateNote(ctx context.Context, noteID, userID string, updates *model.Note) error
	DeleteNote(ctx context.Context, noteID, userID string) error
}

// NoteService owns the note lifecycle. It couples the multipart intake, the
// blob store and the notes collection so that a failed write never leaves a
// persisted blob reference pointing at a missing file: every path that fails
// after files have landed on disk deletes those files before returning.
type NoteService struct {
	Repo   NotesRepository
	Intake *upload.Intake
}

// NoteInput carries the form fields of a create or update request.
type NoteInput struct {
	Title   string
	Content string
	Keep    []string // refs the client wants to retain (update only)
	Files   []*multipart.FileHeader
}

// NoteListOptions narrows a list request.
type NoteListOptions struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// CreateNote validates, stores uploads and persists a new note. Field
// validation runs before any file is written; once files have landed, any
// later failure rolls them back.
func (svc *NoteService) CreateNote(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}

	saved, err := svc.Intake.SaveAll(in.Files)
	if err != nil {
		return nil, err
	}

	// Defense in depth: re-check the batch now that the files are on disk.
	// Uploads can bypass the multipart-layer checks, and this is the last
	// point where cleanup is still contained to this request.
	if err := svc.recheck(in.Files); err != nil {
		svc.Intake.Discard(saved)
		return nil, err
	}

	now := time.Now()
	note := &model.Note{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    strings.TrimSpace(in.Content),
		Images:     refsOf(saved),
		CreatedBy:  userID,
		ModifiedBy: userID,
		Status:     model.NoteStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := svc.Repo.CreateNote(ctx, note); err != nil {
		// Files are on disk but the commit failed: roll them back.
		svc.Intake.Discard(saved)
		return nil, utils.PersistenceError(err)
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

// UpdateNote reconciles three image sets: the images stored on the note
// (existing), the refs the client wants to retain (keep) and the freshly
// uploaded files (incoming). Dropped images are deleted before the save;
// a save failure cleans up the incoming files but does not restore what was
// already deleted. That window is a documented limitation of this design.
func (svc *NoteService) UpdateNote(ctx context.Context, noteID, userID string, in NoteInput) (*model.Note, error) {
	note, err := svc.Repo.GetNote(ctx, noteID, userID)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	if note == nil {
		return nil, utils.NotFoundError("note not found or unauthorized")
	}

	// Field validation before any file I/O. An absent title keeps the old
	// one; a present-but-blank or over-length title is rejected.
	if in.Title != "" {
		title, err := validateTitle(in.Title)
		if err != nil {
			return nil, err
		}
		note.Title = title
	}
	if in.Content != "" {
		note.Content = strings.TrimSpace(in.Content)
	}

	saved, err := svc.Intake.SaveAll(in.Files)
	if err != nil {
		return nil, err
	}
	if err := svc.recheck(in.Files); err != nil {
		svc.Intake.Discard(saved)
		return nil, err
	}

	keep := normalizeRefs(in.Keep)
	incoming := refsOf(saved)

	svc.Intake.DiscardRefs(diffRefs(note.Images, keep))

	note.Images = mergeImages(keep, incoming)
	note.ModifiedBy = userID

	if err := svc.Repo.UpdateNote(ctx, noteID, userID, note); err != nil {
		svc.Intake.Discard(saved)
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, utils.NotFoundError("note not found or unauthorized")
		}
		return nil, utils.PersistenceError(err)
	}

	utils.TrackNoteOperation("update")
	return note, nil
}

// DeleteNote removes every referenced blob, then the document. Blob deletion
// is best-effort and order-independent; files already gone are not errors.
// If the document removal fails after the blobs are deleted, the dangling
// references are treated as self-healing garbage.
func (svc *NoteService) DeleteNote(ctx context.Context, noteID, userID string) error {
	note, err := svc.Repo.GetNote(ctx, noteID, userID)
	if err != nil {
		return utils.PersistenceError(err)
	}
	if note == nil {
		return utils.NotFoundError("note not found or unauthorized")
	}

	svc.Intake.DiscardRefs(note.Images)

	if err := svc.Repo.DeleteNote(ctx, noteID, userID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return utils.NotFoundError("note not found or unauthorized")
		}
		return utils.PersistenceError(err)
	}

	utils.TrackNoteOperation("delete")
	return nil
}

// GetNote fetches a single owned note.
func (svc *NoteService) GetNote(ctx context.Context, noteID, userID string) (*model.Note, error) {
	note, err := svc.Repo.GetNote(ctx, noteID, userID)
	if err != nil {
		return nil, utils.PersistenceError(err)
	}
	if note == nil {
		return nil, utils.NotFoundError("note not found or unauthorized")
	}
	return note, nil
}

// ListNotes returns one page of the user's notes and the total match count.
func (svc *NoteService) ListNotes(ctx context.Context, userID string, opts NoteListOptions) ([]*model.Note, int64, error) {
	notes, total, err := svc.Repo.FindNotes(ctx, repository.NoteQuery{
		UserID:    userID,
		Status:    opts.Status,
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		SortOrder: opts.SortOrder,
		Page:      opts.Page,
		Limit:     opts.Limit,
	})
	if err != nil {
		return nil, 0, utils.PersistenceError(err)
	}
	return notes, total, nil
}

// helpers

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", utils.ValidationError("title cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", utils.ValidationError("title must be under 100 characters")
	}
	return trimmed, nil
}

func (svc *NoteService) recheck(files []*multipart.FileHeader) error {
	for _, fh := range files {
		if err := svc.Intake.Policy.CheckHeader(fh); err != nil {
			return err
		}
	}
	return nil
}

func refsOf(files []upload.File) []string {
	refs := make([]string, 0, len(files))
	for _, f := range files {
		refs = append(refs, f.Ref)
	}
	return refs
}

// normalizeRefs flattens the client-supplied keep list: empty values are
// dropped and absolute URLs are reduced to the stored public path.
func normalizeRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		r = strings.TrimSpace(r)
		if i := strings.Index(r, "/uploads/"); i > 0 {
			r = r[i:]
		}
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// diffRefs returns the elements of a that are not in b, preserving order.
func diffRefs(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, ref := range a {
		if !containsRef(b, ref) {
			out = append(out, ref)
		}
	}
	return out
}

// mergeImages builds the final image list: (keep − incoming) in keep order,
// then the incoming uploads appended, deduplicated by reference equality.
func mergeImages(keep, incoming []string) []string {
	final := make([]string, 0, len(keep)+len(incoming))
	seen := make(map[string]bool, len(keep)+len(incoming))

	for _, ref := range keep {
		if containsRef(incoming, ref) || seen[ref] {
			continue
		}
		seen[ref] = true
		final = append(final, ref)
	}
	for _, ref := range incoming {
		if seen[ref] {
			continue
		}
		seen[ref] = true
		final = append(final, ref)
	}

	return final
}

func containsRef(refs []string, ref string) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
