// File: database/repository/court/court_mongo.go
package courtRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"courtbook/models"
)

func (r *mongoCourtRepo) Create(ctx context.Context, court *models.Court) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if court.ID == "" {
		court.ID = uuid.New().String()
	}
	now := time.Now()
	court.CreatedAt = now
	court.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, court); err != nil {
		return fmt.Errorf("failed to insert court: %w", err)
	}
	return nil
}

func (r *mongoCourtRepo) GetByID(ctx context.Context, courtID string) (*models.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var court models.Court
	err := r.coll.FindOne(ctx, bson.M{"id": courtID}).Decode(&court)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch court %s: %w", courtID, err)
	}
	return &court, nil
}

func (r *mongoCourtRepo) List(ctx context.Context, activeOnly bool) ([]models.Court, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	defer cursor.Close(ctx)

	var courts []models.Court
	if err := cursor.All(ctx, &courts); err != nil {
		return nil, fmt.Errorf("failed to decode courts: %w", err)
	}
	return courts, nil
}

func (r *mongoCourtRepo) Update(ctx context.Context, court *models.Court) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	court.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": court.ID}, court)
	if err != nil {
		return fmt.Errorf("failed to update court %s: %w", court.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCourtRepo) SetActive(ctx context.Context, courtID string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": courtID}, update)
	if err != nil {
		return fmt.Errorf("failed to set active flag for court %s: %w", courtID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCourtRepo) AddBlock(ctx context.Context, courtID string, block models.CourtBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"blocks": block},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": courtID}, update)
	if err != nil {
		return fmt.Errorf("failed to add block to court %s: %w", courtID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCourtRepo) RemoveBlock(ctx context.Context, courtID, blockID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"blocks": bson.M{"id": blockID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": courtID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove block %s from court %s: %w", blockID, courtID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
