package controllers

import (
	"bytes"
	"context"
	"errors"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPaymentUsecase struct {
	mu           sync.Mutex
	callbackErr  error
	webhookErr   error
	callbacks    []*requests.PaymentCallbackRequest
	webhookCalls int
}

func (u *stubPaymentUsecase) HandleCallback(_ context.Context, request *requests.PaymentCallbackRequest) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.callbacks = append(u.callbacks, request)
	return u.callbackErr
}

func (u *stubPaymentUsecase) HandleWebhook(_ context.Context, _ []byte, _ string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.webhookCalls++
	return u.webhookErr
}

func (u *stubPaymentUsecase) Cancel(_ context.Context, _, _ string) error { return nil }

func (u *stubPaymentUsecase) ExpirePendingPayment(_ context.Context, _ string) error { return nil }

type recordingArchive struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (a *recordingArchive) ArchiveWebhookPayload(_ context.Context, _ string, payload []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads = append(a.payloads, payload)
	return a.err
}

func newPaymentController(usecase *stubPaymentUsecase, archive *recordingArchive) *PaymentController {
	return &PaymentController{
		Log:            zap.NewNop(),
		PaymentUsecase: usecase,
		WebhookArchive: archive,
	}
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) responses.ResponseDTO {
	t.Helper()
	var body responses.ResponseDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestPaymentCallback(t *testing.T) {
	validBody := `{"order_id":"order_abc","payment_id":"pay_xyz","signature":"sig","status":"SUCCESS"}`

	t.Run("valid callback is processed", func(t *testing.T) {
		usecase := &stubPaymentUsecase{}
		ctrl := newPaymentController(usecase, &recordingArchive{})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", bytes.NewBufferString(validBody))
		recorder := httptest.NewRecorder()
		ctrl.PaymentCallback(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, usecase.callbacks, 1)
		assert.Equal(t, "order_abc", usecase.callbacks[0].OrderID)
		assert.True(t, decodeResponse(t, recorder).Success)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		ctrl := newPaymentController(&stubPaymentUsecase{}, &recordingArchive{})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", bytes.NewBufferString("{broken"))
		recorder := httptest.NewRecorder()
		ctrl.PaymentCallback(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		ctrl := newPaymentController(&stubPaymentUsecase{}, &recordingArchive{})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", bytes.NewBufferString(`{"order_id":"order_abc"}`))
		recorder := httptest.NewRecorder()
		ctrl.PaymentCallback(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("usecase error maps to its status code", func(t *testing.T) {
		usecase := &stubPaymentUsecase{callbackErr: exceptions.ErrInvalidPaymentSignature(nil)}
		ctrl := newPaymentController(usecase, &recordingArchive{})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback", bytes.NewBufferString(validBody))
		recorder := httptest.NewRecorder()
		ctrl.PaymentCallback(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestPaymentWebhook(t *testing.T) {
	webhookBody := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_xyz","order_id":"order_abc","status":"captured"}}}}`

	t.Run("successful webhook returns 200 and archives the payload", func(t *testing.T) {
		usecase := &stubPaymentUsecase{}
		archive := &recordingArchive{}
		ctrl := newPaymentController(usecase, archive)

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(webhookBody))
		request.Header.Set(constvars.HeaderGatewaySignature, "sig")
		recorder := httptest.NewRecorder()
		ctrl.PaymentWebhook(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, usecase.webhookCalls)
		require.Len(t, archive.payloads, 1)
		assert.JSONEq(t, webhookBody, string(archive.payloads[0]))
	})

	t.Run("processing failure still returns 200", func(t *testing.T) {
		usecase := &stubPaymentUsecase{webhookErr: exceptions.ErrInvalidPaymentSignature(nil)}
		ctrl := newPaymentController(usecase, &recordingArchive{})

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(webhookBody))
		recorder := httptest.NewRecorder()
		ctrl.PaymentWebhook(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code, "the gateway must never see an error from the webhook endpoint")
	})

	t.Run("archive failure does not block processing", func(t *testing.T) {
		usecase := &stubPaymentUsecase{}
		archive := &recordingArchive{err: errors.New("bucket unavailable")}
		ctrl := newPaymentController(usecase, archive)

		request := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(webhookBody))
		recorder := httptest.NewRecorder()
		ctrl.PaymentWebhook(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, 1, usecase.webhookCalls)
	})
}
