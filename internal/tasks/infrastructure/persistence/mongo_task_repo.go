package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/taskboard/internal/tasks/domain/task"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository implements task.Repository over a MongoDB collection.
// Documents are stored as {_id, title, description, dueDate}.
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a repository over an already connected collection.
func NewMongoTaskRepository(coll *mongo.Collection) *MongoTaskRepository {
	return &MongoTaskRepository{coll: coll}
}

// GetTasks runs a skip/limit find and an independent count. Writes landing
// between the two may leave total out of step with the returned page.
func (r *MongoTaskRepository) GetTasks(ctx context.Context, page, limit int) ([]task.Task, int64, error) {
	if err := task.CheckPage(page, limit); err != nil {
		return nil, 0, err
	}

	tasks := make([]task.Task, 0)
	if offset, ok := task.Offset(page, limit); ok {
		opts := options.Find().
			SetSkip(int64(offset)).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "_id", Value: 1}})

		cursor, err := r.coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return nil, 0, task.NewStorageError("get tasks", err)
		}
		if err := cursor.All(ctx, &tasks); err != nil {
			return nil, 0, task.NewStorageError("get tasks", err)
		}
	}

	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, task.NewStorageError("count tasks", err)
	}

	return tasks, total, nil
}

// CreateTask inserts t as a new document.
func (r *MongoTaskRepository) CreateTask(ctx context.Context, t task.Task) error {
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return task.NewStorageError("create task", fmt.Errorf("%w: %s", task.ErrDuplicateTask, t.ID))
		}
		return task.NewStorageError("create task", err)
	}
	return nil
}

// UpdateTask sets the mutable fields of id and reports whether a document matched.
func (r *MongoTaskRepository) UpdateTask(ctx context.Context, id string, t task.Task) (bool, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: t.Title},
		{Key: "description", Value: t.Description},
		{Key: "dueDate", Value: t.DueDate},
	}}}

	result, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return false, task.NewStorageError("update task", err)
	}
	return result.MatchedCount > 0, nil
}

// DeleteTask removes the document for id and reports whether one was deleted.
func (r *MongoTaskRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, task.NewStorageError("delete task", err)
	}
	return result.DeletedCount > 0, nil
}
