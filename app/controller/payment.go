package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/dto"
	"github.com/edukasiku/ms-go-premium/app/factory"
	"github.com/edukasiku/ms-go-premium/app/mapper"
	"github.com/edukasiku/ms-go-premium/app/service"
	"github.com/edukasiku/ms-go-premium/app/types"
)

type paymentIntentService interface {
	CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*service.CreatePaymentResult, error)
}

type webhookService interface {
	HandleNotification(ctx context.Context, n *types.PaymentNotification) error
}

type PaymentController struct {
	intentService  paymentIntentService
	webhookService webhookService
	logger         logrus.FieldLogger
}

func NewPaymentController(intentService paymentIntentService, webhookService webhookService) *PaymentController {
	return &PaymentController{
		intentService:  intentService,
		webhookService: webhookService,
		logger:         factory.NewModuleLogger("payment-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	req, err := types.NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.intentService.CreatePayment(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			return c.writeError(ctx, http.StatusNotFound, "package not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			c.logger.WithError(err).Warn("Payment gateway unavailable")
			return c.writeError(ctx, http.StatusBadGateway, "payment gateway unavailable, please retry")
		default:
			c.logger.WithError(err).Error("Create payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.CreatePaymentResponse{
		OrderID:     result.Transaction.OrderID,
		Token:       result.Token,
		RedirectURL: result.RedirectURL,
		Transaction: mapper.TransactionToResponse(result.Transaction),
	})
}

// MidtransWebhook must answer 2xx for every accepted notification, including
// idempotent duplicates, because the gateway retries on anything else.
func (c *PaymentController) MidtransWebhook(ctx echo.Context) error {
	n, err := types.NewPaymentNotificationFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid notification body")
	}
	if err := n.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.webhookService.HandleNotification(ctx.Request().Context(), n); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			return c.writeError(ctx, http.StatusForbidden, "invalid signature")
		case errors.Is(err, service.ErrTransactionNotFound):
			return c.writeError(ctx, http.StatusNotFound, "transaction not found")
		default:
			c.logger.WithError(err).Error("Webhook processing failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.MessageResponse{Message: "Notification processed"})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
