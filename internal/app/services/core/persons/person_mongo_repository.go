package persons

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
	personMongoRepositoryInstance contracts.PersonRepository
	oncePersonMongoRepository     sync.Once
)

type personMongoRepository struct {
	collection *mongo.Collection
	Log        *zap.Logger
}

func NewPersonMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.PersonRepository {
	oncePersonMongoRepository.Do(func() {
		personMongoRepositoryInstance = &personMongoRepository{
			collection: db.Collection(constvars.MongoCollectionPersons),
			Log:        logger,
		}
	})
	return personMongoRepositoryInstance
}

func (r *personMongoRepository) FindPersonByID(ctx context.Context, personID string) (*models.Person, error) {
	var person models.Person
	err := r.collection.FindOne(ctx, bson.M{"_id": personID}).Decode(&person)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrPersonNotFound(err)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &person, nil
}
