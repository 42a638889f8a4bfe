package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"main/config"
	"main/filestore"
	"main/model"
	"main/repository"
	"main/upload"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
	os.Exit(m.Run())
}

type fakeNotesRepo struct {
	notes map[string]*model.Note
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{notes: make(map[string]*model.Note)}
}

func (r *fakeNotesRepo) CreateNote(_ context.Context, note *model.Note) error {
	cp := *note
	r.notes[note.ID] = &cp
	return nil
}

func (r *fakeNotesRepo) GetNote(_ context.Context, noteID, userID string) (*model.Note, error) {
	note, ok := r.notes[noteID]
	if !ok || note.CreatedBy != userID {
		return nil, nil
	}
	cp := *note
	return &cp, nil
}

func (r *fakeNotesRepo) FindNotes(_ context.Context, q repository.NoteQuery) ([]*model.Note, int64, error) {
	var out []*model.Note
	for _, n := range r.notes {
		if n.CreatedBy == q.UserID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotesRepo) UpdateNote(_ context.Context, noteID, userID string, updates *model.Note) error {
	note, ok := r.notes[noteID]
	if !ok || note.CreatedBy != userID {
		return repository.ErrNoteNotFound
	}
	cp := *updates
	cp.ID = noteID
	cp.CreatedBy = note.CreatedBy
	r.notes[noteID] = &cp
	return nil
}

func (r *fakeNotesRepo) DeleteNote(_ context.Context, noteID, userID string) error {
	note, ok := r.notes[noteID]
	if !ok || note.CreatedBy != userID {
		return repository.ErrNoteNotFound
	}
	delete(r.notes, noteID)
	return nil
}

// fakeAuth stands in for the JWT middleware on protected routes.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

type notesFixture struct {
	router *gin.Engine
	repo   *fakeNotesRepo
	store  *filestore.Store
}

func newNotesFixture(t *testing.T, userID string) *notesFixture {
	t.Helper()

	cfg := &config.Config{APIBaseURL: "http://localhost:3001"}
	store := filestore.New(t.TempDir())
	if err := store.EnsureCollection("notes"); err != nil {
		t.Fatal(err)
	}

	repo := newFakeNotesRepo()
	h := &NoteHandler{
		Notes: &usecase.NoteService{Repo: repo, Intake: upload.NewIntake(store, upload.NoteImages())},
		Cfg:   cfg,
	}

	r := gin.New()
	notes := r.Group("/notes", fakeAuth(userID))
	notes.POST("", h.Create)
	notes.GET("", h.List)
	notes.GET("/:id", h.Get)
	notes.PUT("/:id", h.Update)
	notes.DELETE("/:id", h.Delete)

	return &notesFixture{router: r, repo: repo, store: store}
}

type filePart struct {
	field, name, ctype string
	data               []byte
}

func multipartRequest(t *testing.T, method, url string, fields map[string][]string, files []filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for field, values := range fields {
		for _, v := range values {
			if err := w.WriteField(field, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		h.Set("Content-Type", f.ctype)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeData(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatal(err)
	}
}

func countNoteBlobs(t *testing.T, store *filestore.Store) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(store.BaseDir(), "notes"))
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestCreateNoteEndpoint(t *testing.T) {
	fx := newNotesFixture(t, "user-1")

	req := multipartRequest(t, http.MethodPost, "/notes",
		map[string][]string{"title": {"shopping list"}, "content": {"milk, eggs"}},
		[]filePart{{"images", "receipt.png", "image/png", []byte("png")}},
	)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var note struct {
		ID     string   `json:"id"`
		Title  string   `json:"title"`
		Images []string `json:"images"`
	}
	decodeData(t, w.Body, &note)

	if note.Title != "shopping list" {
		t.Errorf("title = %q", note.Title)
	}
	if len(note.Images) != 1 {
		t.Fatalf("images = %v", note.Images)
	}
	if !strings.HasPrefix(note.Images[0], "http://localhost:3001/uploads/notes/") {
		t.Errorf("image not projected to absolute URL: %q", note.Images[0])
	}
	if _, ok := fx.repo.notes[note.ID]; !ok {
		t.Error("note not persisted")
	}
}

func TestCreateNoteEndpointRejectsUnexpectedField(t *testing.T) {
	fx := newNotesFixture(t, "user-1")

	req := multipartRequest(t, http.MethodPost, "/notes",
		map[string][]string{"title": {"note"}},
		[]filePart{{"attachments", "a.png", "image/png", []byte("png")}},
	)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(fx.repo.notes) != 0 {
		t.Error("rejected request persisted a note")
	}
	if n := countNoteBlobs(t, fx.store); n != 0 {
		t.Errorf("rejected request left %d blobs", n)
	}
}

func TestCreateNoteEndpointRejectsBadFile(t *testing.T) {
	fx := newNotesFixture(t, "user-1")

	req := multipartRequest(t, http.MethodPost, "/notes",
		map[string][]string{"title": {"note"}},
		[]filePart{{"images", "script.exe", "application/octet-stream", []byte("x")}},
	)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if n := countNoteBlobs(t, fx.store); n != 0 {
		t.Errorf("rejected file left %d blobs", n)
	}
}

func TestUpdateNoteEndpointReconciliation(t *testing.T) {
	fx := newNotesFixture(t, "user-1")

	// Seed a note with two blobs on disk
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(fx.store.PhysicalPath("notes", name), []byte("blob"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fx.repo.notes["note-1"] = &model.Note{
		ID:        "note-1",
		Title:     "note",
		Images:    []string{"/uploads/notes/a.png", "/uploads/notes/b.png"},
		CreatedBy: "user-1",
		Status:    model.NoteStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Keep b (as text value), upload c: the "images" field carries both
	req := multipartRequest(t, http.MethodPut, "/notes/note-1",
		map[string][]string{"images": {"/uploads/notes/b.png"}},
		[]filePart{{"images", "c.png", "image/png", []byte("c")}},
	)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var note struct {
		Images []string `json:"images"`
	}
	decodeData(t, w.Body, &note)

	if len(note.Images) != 2 {
		t.Fatalf("images = %v", note.Images)
	}
	if note.Images[0] != "http://localhost:3001/uploads/notes/b.png" {
		t.Errorf("kept image = %q", note.Images[0])
	}

	if _, err := os.Stat(fx.store.PhysicalPath("notes", "a.png")); !os.IsNotExist(err) {
		t.Error("dropped blob a.png still on disk")
	}
	if _, err := os.Stat(fx.store.PhysicalPath("notes", "b.png")); err != nil {
		t.Error("kept blob b.png missing")
	}
	if n := countNoteBlobs(t, fx.store); n != 2 {
		t.Errorf("expected 2 blobs on disk, found %d", n)
	}
}

func TestGetNoteEndpointOwnership(t *testing.T) {
	fx := newNotesFixture(t, "intruder")
	fx.repo.notes["note-1"] = &model.Note{ID: "note-1", Title: "note", CreatedBy: "user-1"}

	req := httptest.NewRequest(http.MethodGet, "/notes/note-1", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteNoteEndpoint(t *testing.T) {
	fx := newNotesFixture(t, "user-1")

	if err := os.WriteFile(fx.store.PhysicalPath("notes", "a.png"), []byte("blob"), 0o644); err != nil {
		t.Fatal(err)
	}
	fx.repo.notes["note-1"] = &model.Note{
		ID:        "note-1",
		Title:     "note",
		Images:    []string{"/uploads/notes/a.png"},
		CreatedBy: "user-1",
	}

	req := httptest.NewRequest(http.MethodDelete, "/notes/note-1", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(fx.repo.notes) != 0 {
		t.Error("note still persisted")
	}
	if n := countNoteBlobs(t, fx.store); n != 0 {
		t.Errorf("expected no blobs, found %d", n)
	}
}

func TestListNotesEndpoint(t *testing.T) {
	fx := newNotesFixture(t, "user-1")
	fx.repo.notes["note-1"] = &model.Note{ID: "note-1", Title: "mine", CreatedBy: "user-1"}
	fx.repo.notes["note-2"] = &model.Note{ID: "note-2", Title: "theirs", CreatedBy: "user-2"}

	req := httptest.NewRequest(http.MethodGet, "/notes?page=1&limit=10", nil)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var page struct {
		Notes []struct {
			Title string `json:"title"`
		} `json:"notes"`
		Pagination struct {
			Page  int   `json:"page"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decodeData(t, w.Body, &page)

	if len(page.Notes) != 1 || page.Notes[0].Title != "mine" {
		t.Errorf("notes = %+v", page.Notes)
	}
	if page.Pagination.Page != 1 || page.Pagination.Total != 1 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}
