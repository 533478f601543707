package docstore

import (
	"context"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type exerciseDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	UserID       string        `bson:"user_id"`
	Day          string        `bson:"day"`
	ExerciseName string        `bson:"exercise_name"`
	CompletedAt  time.Time     `bson:"completed_at"`
}

type ExerciseRepo struct {
	collection *mongo.Collection
}

func NewExerciseRepo(db *mongo.Database) *ExerciseRepo {
	return &ExerciseRepo{collection: db.Collection("completed_exercises")}
}

// Toggle deletes the matching document or, when there was none, inserts it.
// It returns true when a document was inserted.
func (r *ExerciseRepo) Toggle(ctx context.Context, userID, day, name string, at time.Time) (bool, error) {
	filter := bson.M{"user_id": userID, "day": day, "exercise_name": name}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	if result.DeletedCount > 0 {
		return false, nil
	}

	_, err = r.collection.InsertOne(ctx, exerciseDocument{
		UserID:       userID,
		Day:          day,
		ExerciseName: name,
		CompletedAt:  at.UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ExerciseRepo) ListByUserID(ctx context.Context, userID string) ([]models.CompletedExercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var docs []exerciseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	exercises := make([]models.CompletedExercise, 0, len(docs))
	for _, doc := range docs {
		exercises = append(exercises, models.CompletedExercise{
			ID:           doc.ID.Hex(),
			UserID:       doc.UserID,
			Day:          doc.Day,
			ExerciseName: doc.ExerciseName,
			CompletedAt:  doc.CompletedAt,
		})
	}
	return exercises, nil
}

// EnsureIndexes creates necessary indexes for the completed_exercises collection
func (r *ExerciseRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "day", Value: 1},
			{Key: "exercise_name", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
