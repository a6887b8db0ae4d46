package payments

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	paymentOrderMongoRepositoryInstance contracts.PaymentOrderRepository
	oncePaymentOrderMongoRepository     sync.Once
)

type paymentOrderMongoRepository struct {
	collection *mongo.Collection
	Log        *zap.Logger
}

func NewPaymentOrderMongoRepository(db *mongo.Database, logger *zap.Logger) contracts.PaymentOrderRepository {
	oncePaymentOrderMongoRepository.Do(func() {
		paymentOrderMongoRepositoryInstance = &paymentOrderMongoRepository{
			collection: db.Collection(constvars.MongoCollectionPaymentOrders),
			Log:        logger,
		}
	})
	return paymentOrderMongoRepositoryInstance
}

func (r *paymentOrderMongoRepository) CreatePaymentOrder(ctx context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error) {
	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return order, nil
}

func (r *paymentOrderMongoRepository) FindByAppointmentID(ctx context.Context, appointmentID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.collection.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrPaymentOrderNotFound(err, appointmentID)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &order, nil
}

func (r *paymentOrderMongoRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.collection.FindOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrPaymentOrderNotFound(err, gatewayOrderID)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &order, nil
}

func (r *paymentOrderMongoRepository) UpdatePaymentOrder(ctx context.Context, order *models.PaymentOrder) (*models.PaymentOrder, error) {
	order.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return nil, exceptions.ErrPaymentOrderNotFound(mongo.ErrNoDocuments, order.GatewayOrderID)
	}
	return order, nil
}
