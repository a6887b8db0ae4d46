package controllers

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes caps how much of a webhook payload is read before
// signature verification.
const maxWebhookBodyBytes = 1 << 20

type PaymentController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
	WebhookArchive contracts.WebhookArchiveService
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase, webhookArchive contracts.WebhookArchiveService) *PaymentController {
	oncePaymentController.Do(func() {
		paymentControllerInstance = &PaymentController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
			WebhookArchive: webhookArchive,
		}
	})
	return paymentControllerInstance
}

// PaymentCallback handles the browser redirect delivery after checkout.
func (ctrl *PaymentController) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	request := new(requests.PaymentCallbackRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctrl.Log.Info("PaymentController.PaymentCallback called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGatewayOrderIDKey, request.OrderID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := ctrl.PaymentUsecase.HandleCallback(ctx, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessProcessCallback, nil)
}

// PaymentWebhook handles the server-to-server delivery. The response is
// always 200 so the gateway stops redelivering; processing failures are
// logged and the raw payload stays archived for replay.
func (ctrl *PaymentController) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(err))
		return
	}

	ctrl.archivePayload(r.Context(), requestID, rawBody)

	signature := r.Header.Get(constvars.HeaderGatewaySignature)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := ctrl.PaymentUsecase.HandleWebhook(ctx, rawBody, signature); err != nil {
		ctrl.Log.Error("PaymentController.PaymentWebhook processing failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessAcknowledgedCallback, nil)
}

func (ctrl *PaymentController) archivePayload(ctx context.Context, requestID string, rawBody []byte) {
	objectName := fmt.Sprintf("webhooks/%s/%s.json", time.Now().UTC().Format(constvars.AppointmentDateFormat), requestID)
	if err := ctrl.WebhookArchive.ArchiveWebhookPayload(ctx, objectName, rawBody); err != nil {
		ctrl.Log.Warn("PaymentController.PaymentWebhook could not archive payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}
