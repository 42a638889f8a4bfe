package handler

import (
	"strconv"

	"main/config"
	"main/dto"
	"main/middleware"
	"main/upload"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	Notes *usecase.NoteService
	Cfg   *config.Config
}

// Create makes a new note from a multipart form. Image uploads travel under
// the "images" field, at most ten per request.
func (h *NoteHandler) Create(c *gin.Context) {
	in, err := noteInput(c)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	note, err := h.Notes.CreateNote(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Created(c, dto.ToNoteResponse(note, h.Cfg.APIBaseURL))
}

// List returns one page of the user's notes.
func (h *NoteHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	notes, total, err := h.Notes.ListNotes(c.Request.Context(), middleware.UserID(c), usecase.NoteListOptions{
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Success(c, dto.NewNotesPageResponse(notes, h.Cfg.APIBaseURL, page, limit, total))
}

// Get returns a single owned note.
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.Notes.GetNote(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	utils.Success(c, dto.ToNoteResponse(note, h.Cfg.APIBaseURL))
}

// Update edits a note. The "images" field does double duty: its text values
// name the existing refs to keep, its file parts are new uploads. Existing
// images absent from the keep list are deleted.
func (h *NoteHandler) Update(c *gin.Context) {
	in, err := noteInput(c)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	note, err := h.Notes.UpdateNote(c.Request.Context(), c.Param("id"), middleware.UserID(c), in)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note, h.Cfg.APIBaseURL))
}

// Delete removes a note and its image blobs.
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Notes.DeleteNote(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		utils.WriteError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "note deleted successfully"})
}

func noteInput(c *gin.Context) (usecase.NoteInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return usecase.NoteInput{}, utils.UploadError("invalid multipart form: " + err.Error())
	}

	files, err := upload.FilesForField(form, "images")
	if err != nil {
		return usecase.NoteInput{}, err
	}

	return usecase.NoteInput{
		Title:   formValue(form, "title"),
		Content: formValue(form, "content"),
		Keep:    form.Value["images"],
		Files:   files,
	}, nil
}
