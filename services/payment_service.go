package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticketmetal/internal/status"
	"ticketmetal/models"
	"ticketmetal/services/mpago"
	"ticketmetal/store"
	"ticketmetal/utils"
)

// finalizedKeyTTL bounds the Redis fast-path claim for a finalized external
// reference. The tickets collection's unique index on external_ref remains
// the durable guard after expiry.
const finalizedKeyTTL = 24 * time.Hour

// Gateway is the slice of the payment provider this service uses.
type Gateway interface {
	CreatePreference(ctx context.Context, req *mpago.PreferenceRequest) (*mpago.Preference, error)
	Payment(ctx context.Context, paymentID string) (*mpago.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, amount *decimal.Decimal) (*mpago.Refund, error)
}

type PaymentService struct {
	gateway   Gateway
	purchases store.PurchaseStore
	tickets   *TicketService
	ticketRec store.TicketStore
	Redis     *redis.Client

	// notificationURL is where the gateway delivers payment webhooks.
	notificationURL string
}

func NewPaymentService(gateway Gateway, purchases store.PurchaseStore, tickets *TicketService, ticketRec store.TicketStore, redisClient *redis.Client, publicURL string) *PaymentService {
	return &PaymentService{
		gateway:         gateway,
		purchases:       purchases,
		tickets:         tickets,
		ticketRec:       ticketRec,
		Redis:           redisClient,
		notificationURL: publicURL + "/api/payments/webhook",
	}
}

type CreatePreferenceRequest struct {
	EventID    string
	BuyerID    string
	BuyerEmail string
	BuyerName  string
	SuccessURL string
	FailureURL string
	PendingURL string
}

// CreatePreference records a pending purchase and registers a checkout
// preference for it. The external reference ties the later webhook back to
// the purchase.
func (s *PaymentService) CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*models.PreferenceResult, error) {
	event, err := s.tickets.Purchasable(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	ref, err := utils.GenerateCode(12)
	if err != nil {
		return nil, fmt.Errorf("generate external reference: %w", err)
	}

	if _, err := s.purchases.Create(ctx, models.Purchase{
		EventID:     event.ID,
		BuyerID:     req.BuyerID,
		BuyerEmail:  req.BuyerEmail,
		BuyerName:   req.BuyerName,
		Price:       event.Price,
		ExternalRef: ref,
	}); err != nil {
		return nil, err
	}

	pref, err := s.gateway.CreatePreference(ctx, &mpago.PreferenceRequest{
		Items: []mpago.Item{
			{
				Title:       "Ingresso - " + event.Title,
				Description: "Ingresso para o evento: " + event.Title,
				Quantity:    1,
				UnitPrice:   decimal.NewFromFloat(event.Price),
				CurrencyID:  "BRL",
			},
		},
		Payer: mpago.Payer{
			Email: req.BuyerEmail,
			Name:  req.BuyerName,
		},
		BackURLs: mpago.BackURLs{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.PendingURL,
		},
		AutoReturn:          "approved",
		ExternalReference:   ref,
		NotificationURL:     s.notificationURL,
		StatementDescriptor: "TICKETMETAL",
		Metadata: map[string]any{
			"event_id":   event.ID,
			"buyer_name": req.BuyerName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrGateway, err)
	}

	return &models.PreferenceResult{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
		ExternalRef:      ref,
	}, nil
}

// Status looks up a payment on the gateway.
func (s *PaymentService) Status(ctx context.Context, paymentID string) (*models.PaymentStatus, error) {
	payment, err := s.gateway.Payment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrGateway, err)
	}
	return &models.PaymentStatus{
		PaymentID:    strconv.FormatInt(payment.ID, 10),
		Status:       payment.Status,
		StatusDetail: payment.StatusDetail,
		Amount:       payment.TransactionAmount,
		ExternalRef:  payment.ExternalReference,
		CreatedAt:    payment.DateCreated,
		ApprovedAt:   payment.DateApproved,
	}, nil
}

// WebhookPayload is the body the gateway POSTs on payment updates.
type WebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// ProcessWebhook normalizes one webhook delivery. Only payloads of type
// "payment" are handled; everything else yields an unprocessed outcome so
// the handler can ack neutrally. It never returns an error: the gateway
// retries on non-2xx replies, not on outcome fields.
func (s *PaymentService) ProcessWebhook(ctx context.Context, payload WebhookPayload) models.WebhookOutcome {
	if payload.Type != "payment" || payload.Data.ID.String() == "" {
		return models.WebhookOutcome{Processed: false}
	}

	payment, err := s.gateway.Payment(ctx, payload.Data.ID.String())
	if err != nil {
		slog.Error("webhook: payment lookup failed", "payment_id", payload.Data.ID.String(), "error", err)
		return models.WebhookOutcome{Processed: false}
	}

	outcome := models.WebhookOutcome{
		Processed:   true,
		PaymentID:   strconv.FormatInt(payment.ID, 10),
		Status:      payment.Status,
		ExternalRef: payment.ExternalReference,
		Amount:      payment.TransactionAmount,
	}

	if payment.Status == "approved" && payment.ExternalReference != "" {
		ticket, err := s.finalize(ctx, payment.ExternalReference)
		switch {
		case err == nil:
			outcome.TicketID = ticket.ID
		case errors.Is(err, status.ErrDuplicateReference):
			slog.Info("webhook: reference already finalized", "external_ref", payment.ExternalReference)
		default:
			slog.Error("webhook: ticket finalization failed", "external_ref", payment.ExternalReference, "error", err)
		}
	}

	return outcome
}

// finalize turns an approved purchase into a ticket exactly once. The Redis
// SETNX claim short-circuits redeliveries; the unique external_ref index on
// tickets backs it if the claim is lost.
func (s *PaymentService) finalize(ctx context.Context, ref string) (*models.Ticket, error) {
	purchase, err := s.purchases.ByExternalRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if purchase.Status == models.PurchaseStatusCompleted {
		return nil, status.ErrDuplicateReference
	}

	claimKey := "payment:finalized:" + ref
	claimed, err := s.Redis.SetNX(ctx, claimKey, purchase.ID, finalizedKeyTTL).Result()
	if err == nil && !claimed {
		return nil, status.ErrDuplicateReference
	}

	ticket, err := s.tickets.Purchase(ctx, PurchaseRequest{
		EventID:       purchase.EventID,
		BuyerID:       purchase.BuyerID,
		PriceOverride: &purchase.Price,
		ExternalRef:   ref,
	})
	if err != nil {
		// Release the claim so a later redelivery can retry the write.
		s.Redis.Del(ctx, claimKey)
		return nil, err
	}

	if err := s.purchases.MarkCompleted(ctx, purchase.ID); err != nil {
		slog.Error("webhook: mark purchase completed failed", "purchase_id", purchase.ID, "error", err)
	}
	return ticket, nil
}

// Refund reverses a payment on the gateway and cancels the ticket created
// for its external reference, when one exists.
func (s *PaymentService) Refund(ctx context.Context, paymentID string, amount *float64) (*models.RefundResult, error) {
	payment, err := s.gateway.Payment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrGateway, err)
	}

	var refundAmount *decimal.Decimal
	if amount != nil {
		d := decimal.NewFromFloat(*amount)
		refundAmount = &d
	}

	refund, err := s.gateway.RefundPayment(ctx, paymentID, refundAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrGateway, err)
	}

	if payment.ExternalReference != "" {
		if ticket, err := s.ticketRec.ByExternalRef(ctx, payment.ExternalReference); err == nil {
			cancelled := models.TicketStatusCancelled
			if _, err := s.ticketRec.Update(ctx, ticket.ID, models.TicketUpdate{Status: &cancelled}); err != nil {
				slog.Error("refund: cancel ticket failed", "ticket_id", ticket.ID, "error", err)
			}
		}
	}

	return &models.RefundResult{
		RefundID: strconv.FormatInt(refund.ID, 10),
		Status:   refund.Status,
	}, nil
}
