package contracts

import "context"

// WebhookArchiveService keeps a raw copy of every gateway webhook payload for
// audit. Archiving is best effort and never blocks settlement.
type WebhookArchiveService interface {
	ArchiveWebhookPayload(ctx context.Context, objectName string, payload []byte) error
}
