package storage

import (
	"bytes"
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	webhookArchiveInstance contracts.WebhookArchiveService
	onceWebhookArchive     sync.Once
)

type webhookArchiveService struct {
	client     *minio.Client
	bucketName string
	Log        *zap.Logger
}

// NewWebhookArchiveService stores raw gateway webhook payloads in object
// storage so disputed settlements can be audited later.
func NewWebhookArchiveService(client *minio.Client, driverConfig *config.DriverConfig, logger *zap.Logger) contracts.WebhookArchiveService {
	onceWebhookArchive.Do(func() {
		webhookArchiveInstance = &webhookArchiveService{
			client:     client,
			bucketName: driverConfig.Minio.BucketName,
			Log:        logger,
		}
	})
	return webhookArchiveInstance
}

func (s *webhookArchiveService) ArchiveWebhookPayload(ctx context.Context, objectName string, payload []byte) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucketName,
		objectName,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: constvars.MIMEApplicationJSON},
	)
	if err != nil {
		return exceptions.ErrMinioPutObject(err, s.bucketName)
	}
	return nil
}
