package slots

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	slotMongoRepositoryInstance contracts.SlotRepository
	onceSlotMongoRepository     sync.Once
)

type slotMongoRepository struct {
	collection *mongo.Collection
	Log        *zap.Logger
}

func NewSlotMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.SlotRepository {
	onceSlotMongoRepository.Do(func() {
		slotMongoRepositoryInstance = &slotMongoRepository{
			collection: db.Collection(constvars.MongoCollectionSlots),
			Log:        logger,
		}
	})
	return slotMongoRepositoryInstance
}

func (r *slotMongoRepository) CreateSlot(ctx context.Context, slot *models.Slot) (*models.Slot, error) {
	_, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return slot, nil
}

func (r *slotMongoRepository) FindSlotByID(ctx context.Context, slotID string) (*models.Slot, error) {
	var slot models.Slot
	err := r.collection.FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrSlotNotFound(err)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &slot, nil
}

func (r *slotMongoRepository) FindSlotsByDoctorID(ctx context.Context, doctorID string) ([]models.Slot, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"doctor_id": doctorID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	slots := make([]models.Slot, 0)
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return slots, nil
}

func (r *slotMongoRepository) SetSlotBooked(ctx context.Context, slotID string, booked bool) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": slotID},
		bson.M{"$set": bson.M{"booked": booked}},
	)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrSlotNotFound(mongo.ErrNoDocuments)
	}
	return nil
}
