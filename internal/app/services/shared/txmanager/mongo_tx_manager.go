package txmanager

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	txManagerInstance contracts.TransactionManager
	onceTxManager     sync.Once
)

type mongoTxManager struct {
	client *mongo.Client
	Log    *zap.Logger
}

// NewMongoTxManager wraps mongo sessions so callers can run multi-document
// units of work. Repository calls made with the callback context join the
// session's transaction automatically.
func NewMongoTxManager(client *mongo.Client, logger *zap.Logger) contracts.TransactionManager {
	onceTxManager.Do(func() {
		txManagerInstance = &mongoTxManager{
			client: client,
			Log:    logger,
		}
	})
	return txManagerInstance
}

func (m *mongoTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBTransaction(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
