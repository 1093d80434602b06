package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"tutorbook/infras/otel"
	"tutorbook/infras/stripe"
	"tutorbook/internal/domains/booking/service"
	"tutorbook/internal/domains/payment/model/dto"
	"tutorbook/shared/constant"
	"tutorbook/shared/failure"
	"tutorbook/shared/validator"
	"tutorbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v82"
)

type Handler struct {
	service service.Booking
	webhook stripe.Webhook
	otel    otel.Otel
}

func New(service service.Booking, webhook stripe.Webhook, otel otel.Otel) Handler {
	return Handler{
		service: service,
		webhook: webhook,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/webhooks/stripe", handler.StripeWebhook)
		routerGroup.Get("/{id}", handler.GetPaymentByID)
		routerGroup.Post("/{id}/confirm", handler.ConfirmPayment)
		routerGroup.Post("/{id}/reject", handler.RejectPayment)
	})
}

// GetPaymentByID retrieves a payment by its ID.
// @Summary Get a payment by ID
// @Tags Payment
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Data[dto.PaymentResponse] "Payment details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	payment, err := handler.service.GetPayment(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", id).Msg("failed to get payment by ID")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment retrieved successfully")

	response.WithJSON(writer, http.StatusOK, payment)
}

// ConfirmPayment records a settled payment and confirms the reservations it funds.
// @Summary Confirm a payment
// @Description Reservations whose slot closed meanwhile are cancelled and the payment is flagged for manual review.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param id path string true "Payment ID"
// @Param request body dto.ConfirmPaymentRequest false "Confirm Payment Request"
// @Success 200 {object} response.Data[dto.PaymentResponse] "Paid payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/payments/{id}/confirm [post]
// @Security BearerAuth
func (handler *Handler) ConfirmPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.ConfirmPaymentRequest{}

	if err := decodeOptional(writer, request, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.ConfirmPayment(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", id).Msg("failed to confirm payment")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment confirmed by user " + user)

	response.WithJSON(writer, http.StatusOK, payment)
}

// RejectPayment records a failed payment and cancels the reservations waiting on it.
// @Summary Reject a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param id path string true "Payment ID"
// @Param request body dto.RejectPaymentRequest false "Reject Payment Request"
// @Success 200 {object} response.Data[dto.PaymentResponse] "Failed payment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/payments/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectPayment")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.RejectPaymentRequest{}

	if err := decodeOptional(writer, request, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.RejectPayment(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", id).Msg("failed to reject payment")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment rejected by user " + user)

	response.WithJSON(writer, http.StatusOK, payment)
}

// decodeOptional validates the request body when there is one.
func decodeOptional[T any](writer http.ResponseWriter, request *http.Request, req *T) error {
	if request.ContentLength == 0 {
		return validator.ValidateStruct(req)
	}

	return validator.Validate(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody), req)
}

// StripeWebhook settles payments from Stripe PaymentIntent events.
// @Summary Stripe webhook
// @Description Verified with the Stripe-Signature header. The PaymentIntent must carry the payment id in its payment_id metadata. A succeeded intent confirms the payment, a canceled one rejects it, and a failed attempt is only logged since the customer may retry.
// @Tags Payment
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} response.Message "Event handled"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/webhooks/stripe [post]
func (handler *Handler) StripeWebhook(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StripeWebhook")
	defer scope.End()

	payload, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBody))
	if err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read stripe webhook body")

		response.WithError(writer, err)

		return
	}

	event, err := handler.webhook.Verify(payload, request.Header.Get(constant.RequestHeaderStripeSignature))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify stripe webhook")

		response.WithError(writer, failure.BadRequestFromString("invalid stripe signature"))

		return
	}

	scope.SetAttributes(map[string]any{
		"stripe.event_id":   event.ID,
		"stripe.event_type": string(event.Type),
	})

	eventType := string(event.Type)
	if eventType != stripe.EventPaymentIntentSucceeded && eventType != stripe.EventPaymentIntentFailed && eventType != stripe.EventPaymentIntentCanceled {
		log.Debug().Str("event_id", event.ID).Str("type", eventType).Msg("ignoring stripe event")
		response.WithMessage(writer, http.StatusOK, "Event ignored")

		return
	}

	var intent stripeGo.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		err = failure.BadRequest(err)
		scope.TraceError(err)
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to decode payment intent")

		response.WithError(writer, err)

		return
	}

	paymentID := intent.Metadata[stripe.MetadataPaymentID]
	if paymentID == constant.Empty {
		log.Warn().Str("event_id", event.ID).Str("payment_intent", intent.ID).Msg("payment intent without payment id")
		response.WithMessage(writer, http.StatusOK, "Event ignored")

		return
	}

	switch eventType {
	case stripe.EventPaymentIntentSucceeded:
		_, err = handler.service.ConfirmPayment(ctx, paymentID, dto.ConfirmPaymentRequest{
			Provider:             stripe.ProviderName,
			TransactionReference: intent.ID,
		})
	case stripe.EventPaymentIntentFailed:
		// The intent goes back to requires_payment_method and the customer may retry,
		// so only a cancelled intent ends the payment.
		reason := eventType
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Msg
		}

		log.Info().Str("event_id", event.ID).Str("payment_id", paymentID).Str("reason", reason).Msg("stripe payment attempt failed")
		response.WithMessage(writer, http.StatusOK, "Event noted")

		return
	default:
		reason := eventType
		if intent.CancellationReason != constant.Empty {
			reason = string(intent.CancellationReason)
		}

		_, err = handler.service.RejectPayment(ctx, paymentID, dto.RejectPaymentRequest{
			Provider:             stripe.ProviderName,
			TransactionReference: intent.ID,
			Reason:               reason,
		})
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event_id", event.ID).Str("payment_id", paymentID).Msg("failed to settle payment from stripe")

		// Stripe retries anything but 2xx, which only helps for server side failures.
		if failure.GetCode(err) < http.StatusInternalServerError {
			response.WithMessage(writer, http.StatusOK, "Event not applicable: "+err.Error())

			return
		}

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Stripe event " + event.ID + " applied to payment " + paymentID)

	response.WithMessage(writer, http.StatusOK, "Event handled")
}
