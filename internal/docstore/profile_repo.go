package docstore

import (
	"context"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProfileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) *ProfileRepo {
	return &ProfileRepo{collection: db.Collection("profiles")}
}

// FindByUserID returns nil, nil when the user has no profile document.
func (r *ProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) ListByUserID(ctx context.Context, userID string) ([]models.UserProfile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	profiles := []models.UserProfile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// CreateEmpty inserts a basic-plan document unless one already exists.
func (r *ProfileRepo) CreateEmpty(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$setOnInsert": bson.M{
			"user_id":           userID,
			"subscription_plan": string(models.PlanBasic),
			"created_at":        now,
			"updated_at":        now,
		},
	}, options.UpdateOne().SetUpsert(true))
	return err
}

// Merge $sets only the patch's present fields, creating the document if
// needed, and returns the document after the write.
func (r *ProfileRepo) Merge(ctx context.Context, userID string, patch models.ProfilePatch) (*models.UserProfile, error) {
	now := time.Now().UTC()
	set := bson.M{
		"user_id":    userID,
		"updated_at": now,
	}
	for _, field := range patch.Fields() {
		set[field.Column] = field.Value
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.UserProfile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepo) Delete(ctx context.Context, userID string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes for the profiles collection
func (r *ProfileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
