package dto

import (
	"time"

	"main/model"
)

// NoteResponse is the outward shape of a note. Image refs are stored as
// public paths and projected to absolute URLs here.
type NoteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Images     []string  `json:"images"`
	CreatedBy  string    `json:"created_by"`
	ModifiedBy string    `json:"modified_by"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToNoteResponse(note *model.Note, baseURL string) NoteResponse {
	images := make([]string, 0, len(note.Images))
	for _, ref := range note.Images {
		images = append(images, baseURL+ref)
	}
	return NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		Images:     images,
		CreatedBy:  note.CreatedBy,
		ModifiedBy: note.ModifiedBy,
		Status:     note.Status,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

func ToNoteResponses(notes []*model.Note, baseURL string) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, ToNoteResponse(n, baseURL))
	}
	return out
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type NotesPageResponse struct {
	Notes      []NoteResponse `json:"notes"`
	Pagination Pagination     `json:"pagination"`
}

func NewNotesPageResponse(notes []*model.Note, baseURL string, page, limit int, total int64) NotesPageResponse {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return NotesPageResponse{
		Notes: ToNoteResponses(notes, baseURL),
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
