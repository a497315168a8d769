// File: database/repository/court/interface.go
package courtRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"courtbook/database"
	"courtbook/models"
)

// CourtRepository persists courts and their embedded blocks.
type CourtRepository interface {
	Create(ctx context.Context, court *models.Court) error
	GetByID(ctx context.Context, courtID string) (*models.Court, error)
	List(ctx context.Context, activeOnly bool) ([]models.Court, error)
	Update(ctx context.Context, court *models.Court) error
	SetActive(ctx context.Context, courtID string, active bool) error
	AddBlock(ctx context.Context, courtID string, block models.CourtBlock) error
	RemoveBlock(ctx context.Context, courtID, blockID string) error
	EnsureIndexes() error
}

type mongoCourtRepo struct {
	coll *mongo.Collection
}

// NewMongoCourtRepo constructs a MongoDB-backed CourtRepository.
func NewMongoCourtRepo() CourtRepository {
	db := database.MongoClient.Database(database.Name())
	return &mongoCourtRepo{
		coll: db.Collection("courts"),
	}
}
