// Package docstore holds the MongoDB repositories behind the document
// backend. Collections mirror a Firebase-style layout: one document per
// user, one profile document whose _id is the owning user's id.
package docstore

import (
	"context"
	"strings"
	"time"

	"github.com/atakamran/liftlegends-sub000/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{collection: db.Collection("users")}
}

// FindByEmail returns nil, nil when no user has the email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// FindByID returns nil, nil for unknown or malformed ids.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	doc := userDocument{
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	doc.ID = result.InsertedID.(bson.ObjectID)
	*user = *doc.toModel()
	return nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
