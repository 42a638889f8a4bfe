package repository

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNoteNotFound = errors.New("note not found")

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client, dbName string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection("notes"),
	}
}

// NoteQuery describes a list request. Results are always scoped to the owner.
type NoteQuery struct {
	UserID    string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// CreateNote inserts a new note document
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	return err
}

// GetNote retrieves a note scoped to its owner. A missing note and another
// user's note are indistinguishable: both return (nil, nil).
func (r *NotesRepo) GetNote(ctx context.Context, noteID, userID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"_id": noteID, "created_by": userID}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// FindNotes returns one page of a user's notes plus the total match count.
func (r *NotesRepo) FindNotes(ctx context.Context, q NoteQuery) ([]*model.Note, int64, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"created_by": q.UserID}

	status := q.Status
	if status == "" {
		status = model.NoteStatusActive
	}
	filter["status"] = status

	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q.Search, "$options": "i"}},
			{"content": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	sortBy := q.SortBy
	switch sortBy {
	case "title", "created_at", "updated_at":
	default:
		sortBy = "created_at"
	}
	order := -1
	if q.SortOrder == "asc" {
		order = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, 0, err
	}

	total, err := r.MongoCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// UpdateNote persists the mutable fields of an owned note.
func (r *NotesRepo) UpdateNote(ctx context.Context, noteID, userID string, updates *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	updates.UpdatedAt = time.Now()

	filter := bson.M{
		"_id":        noteID,
		"created_by": userID,
	}

	update := bson.M{
		"$set": bson.M{
			"title":       updates.Title,
			"content":     updates.Content,
			"images":      updates.Images,
			"modified_by": updates.ModifiedBy,
			"updated_at":  updates.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote hard-deletes an owned note document.
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{
		"_id":        noteID,
		"created_by": userID,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}

	return nil
}
