package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketmetal/internal/status"
	"ticketmetal/models"
	"ticketmetal/services/mpago"
)

// fakeGateway records calls and replies with canned responses.
type fakeGateway struct {
	prefReq *mpago.PreferenceRequest
	pref    *mpago.Preference
	prefErr error

	payment    *mpago.Payment
	paymentErr error

	refund       *mpago.Refund
	refundErr    error
	refundAmount *decimal.Decimal
}

func (g *fakeGateway) CreatePreference(_ context.Context, req *mpago.PreferenceRequest) (*mpago.Preference, error) {
	g.prefReq = req
	return g.pref, g.prefErr
}

func (g *fakeGateway) Payment(context.Context, string) (*mpago.Payment, error) {
	return g.payment, g.paymentErr
}

func (g *fakeGateway) RefundPayment(_ context.Context, _ string, amount *decimal.Decimal) (*mpago.Refund, error) {
	g.refundAmount = amount
	return g.refund, g.refundErr
}

type paymentFixture struct {
	gateway   *fakeGateway
	purchases *fakePurchaseStore
	tickets   *fakeTicketStore
	redisMock redismock.ClientMock
	svc       *PaymentService
}

func newPaymentFixture(t *testing.T, gateway *fakeGateway) *paymentFixture {
	t.Helper()

	db, mock := redismock.NewClientMock()
	purchases := &fakePurchaseStore{}
	tickets := &fakeTicketStore{}
	events := newFakeEventStore(activeEvent())

	return &paymentFixture{
		gateway:   gateway,
		purchases: purchases,
		tickets:   tickets,
		redisMock: mock,
		svc: NewPaymentService(gateway, purchases, NewTicketService(events, tickets),
			tickets, db, "https://tickets.example.com"),
	}
}

func webhookFor(paymentID string) WebhookPayload {
	var payload WebhookPayload
	payload.Type = "payment"
	payload.Data.ID = json.Number(paymentID)
	return payload
}

func TestCreatePreference(t *testing.T) {
	gateway := &fakeGateway{
		pref: &mpago.Preference{
			ID:               "pref-1",
			InitPoint:        "https://gateway.example.com/checkout/pref-1",
			SandboxInitPoint: "https://sandbox.example.com/checkout/pref-1",
		},
	}
	f := newPaymentFixture(t, gateway)

	result, err := f.svc.CreatePreference(context.Background(), CreatePreferenceRequest{
		EventID:    "ev1",
		BuyerID:    "usr1",
		BuyerEmail: "fan@example.com",
		BuyerName:  "Fan",
		SuccessURL: "https://tickets.example.com/success",
	})

	require.NoError(t, err)
	assert.Equal(t, "pref-1", result.PreferenceID)
	assert.Equal(t, gateway.pref.InitPoint, result.InitPoint)
	require.Len(t, result.ExternalRef, 24)

	// The pending purchase and the gateway preference share the reference.
	purchase, err := f.purchases.ByExternalRef(context.Background(), result.ExternalRef)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status)
	assert.Equal(t, 150.0, purchase.Price)

	require.NotNil(t, gateway.prefReq)
	assert.Equal(t, result.ExternalRef, gateway.prefReq.ExternalReference)
	require.Len(t, gateway.prefReq.Items, 1)
	assert.Equal(t, "Ingresso - Metal Night", gateway.prefReq.Items[0].Title)
	assert.Equal(t, "BRL", gateway.prefReq.Items[0].CurrencyID)
	assert.True(t, gateway.prefReq.Items[0].UnitPrice.Equal(decimal.NewFromFloat(150)))
	assert.Equal(t, "https://tickets.example.com/api/payments/webhook", gateway.prefReq.NotificationURL)
}

func TestCreatePreference_SoldOutEvent(t *testing.T) {
	gateway := &fakeGateway{}
	f := newPaymentFixture(t, gateway)
	ev := activeEvent()
	ev.TicketsSold = ev.MaxTickets
	f.svc.tickets.events = newFakeEventStore(ev)

	_, err := f.svc.CreatePreference(context.Background(), CreatePreferenceRequest{
		EventID:    "ev1",
		BuyerID:    "usr1",
		BuyerEmail: "fan@example.com",
		BuyerName:  "Fan",
	})

	assert.ErrorIs(t, err, status.ErrSoldOut)
	assert.Nil(t, gateway.prefReq, "no preference must be created for a sold out event")
	assert.Empty(t, f.purchases.purchases)
}

func TestCreatePreference_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{prefErr: errors.New("upstream down")}
	f := newPaymentFixture(t, gateway)

	_, err := f.svc.CreatePreference(context.Background(), CreatePreferenceRequest{
		EventID:    "ev1",
		BuyerID:    "usr1",
		BuyerEmail: "fan@example.com",
		BuyerName:  "Fan",
	})

	assert.ErrorIs(t, err, status.ErrGateway)
}

func TestProcessWebhook_IgnoresNonPayment(t *testing.T) {
	f := newPaymentFixture(t, &fakeGateway{})

	var payload WebhookPayload
	payload.Type = "merchant_order"
	payload.Data.ID = json.Number("123")

	outcome := f.svc.ProcessWebhook(context.Background(), payload)

	assert.False(t, outcome.Processed)
	assert.Empty(t, f.tickets.created)
}

func TestProcessWebhook_ApprovedCreatesTicket(t *testing.T) {
	gateway := &fakeGateway{}
	f := newPaymentFixture(t, gateway)

	pending, err := f.purchases.Create(context.Background(), models.Purchase{
		EventID:     "ev1",
		BuyerID:     "usr1",
		Price:       120,
		ExternalRef: "REFAPPROVED",
	})
	require.NoError(t, err)

	gateway.payment = &mpago.Payment{
		ID:                987,
		Status:            "approved",
		TransactionAmount: decimal.NewFromFloat(120),
		ExternalReference: "REFAPPROVED",
	}
	f.redisMock.ExpectSetNX("payment:finalized:REFAPPROVED", pending.ID, 24*time.Hour).SetVal(true)

	outcome := f.svc.ProcessWebhook(context.Background(), webhookFor("987"))

	assert.True(t, outcome.Processed)
	assert.Equal(t, "987", outcome.PaymentID)
	assert.Equal(t, "approved", outcome.Status)
	assert.NotEmpty(t, outcome.TicketID)

	require.Len(t, f.tickets.created, 1)
	ticket := f.tickets.created[0]
	assert.Equal(t, "REFAPPROVED", ticket.ExternalRef)
	assert.Equal(t, 120.0, ticket.PricePaid, "ticket keeps the price locked at preference time")

	purchase, err := f.purchases.ByExternalRef(context.Background(), "REFAPPROVED")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
	assert.NoError(t, f.redisMock.ExpectationsWereMet())
}

func TestProcessWebhook_RedeliveryIsIdempotent(t *testing.T) {
	gateway := &fakeGateway{}
	f := newPaymentFixture(t, gateway)

	pending, err := f.purchases.Create(context.Background(), models.Purchase{
		EventID:     "ev1",
		BuyerID:     "usr1",
		Price:       120,
		ExternalRef: "REFDUP",
	})
	require.NoError(t, err)

	gateway.payment = &mpago.Payment{
		ID:                988,
		Status:            "approved",
		TransactionAmount: decimal.NewFromFloat(120),
		ExternalReference: "REFDUP",
	}
	f.redisMock.ExpectSetNX("payment:finalized:REFDUP", pending.ID, 24*time.Hour).SetVal(true)

	first := f.svc.ProcessWebhook(context.Background(), webhookFor("988"))
	require.NotEmpty(t, first.TicketID)

	// The purchase is completed now, so the redelivery stops before Redis.
	second := f.svc.ProcessWebhook(context.Background(), webhookFor("988"))

	assert.True(t, second.Processed)
	assert.Empty(t, second.TicketID)
	assert.Len(t, f.tickets.created, 1)
}

func TestProcessWebhook_LostClaimRace(t *testing.T) {
	gateway := &fakeGateway{}
	f := newPaymentFixture(t, gateway)

	pending, err := f.purchases.Create(context.Background(), models.Purchase{
		EventID:     "ev1",
		BuyerID:     "usr1",
		Price:       120,
		ExternalRef: "REFRACE",
	})
	require.NoError(t, err)

	gateway.payment = &mpago.Payment{
		ID:                989,
		Status:            "approved",
		ExternalReference: "REFRACE",
	}
	// Another delivery holds the claim already.
	f.redisMock.ExpectSetNX("payment:finalized:REFRACE", pending.ID, 24*time.Hour).SetVal(false)

	outcome := f.svc.ProcessWebhook(context.Background(), webhookFor("989"))

	assert.True(t, outcome.Processed)
	assert.Empty(t, outcome.TicketID)
	assert.Empty(t, f.tickets.created)
}

func TestProcessWebhook_ClaimReleasedOnWriteFailure(t *testing.T) {
	gateway := &fakeGateway{}
	f := newPaymentFixture(t, gateway)

	pending, err := f.purchases.Create(context.Background(), models.Purchase{
		EventID:     "ev1",
		BuyerID:     "usr1",
		Price:       120,
		ExternalRef: "REFFAIL",
	})
	require.NoError(t, err)
	f.tickets.createErr = errors.New("store unavailable")

	gateway.payment = &mpago.Payment{
		ID:                990,
		Status:            "approved",
		ExternalReference: "REFFAIL",
	}
	f.redisMock.ExpectSetNX("payment:finalized:REFFAIL", pending.ID, 24*time.Hour).SetVal(true)
	f.redisMock.ExpectDel("payment:finalized:REFFAIL").SetVal(1)

	outcome := f.svc.ProcessWebhook(context.Background(), webhookFor("990"))

	assert.True(t, outcome.Processed)
	assert.Empty(t, outcome.TicketID)
	assert.NoError(t, f.redisMock.ExpectationsWereMet())

	purchase, err := f.purchases.ByExternalRef(context.Background(), "REFFAIL")
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, purchase.Status, "a failed write must leave the purchase retryable")
}

func TestStatus(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mpago.Payment{
			ID:                991,
			Status:            "approved",
			StatusDetail:      "accredited",
			TransactionAmount: decimal.NewFromFloat(150),
			ExternalReference: "REFSTATUS",
		},
	}
	f := newPaymentFixture(t, gateway)

	st, err := f.svc.Status(context.Background(), "991")

	require.NoError(t, err)
	assert.Equal(t, "991", st.PaymentID)
	assert.Equal(t, "approved", st.Status)
	assert.Equal(t, "accredited", st.StatusDetail)
	assert.Equal(t, "REFSTATUS", st.ExternalRef)
}

func TestRefund_CancelsTicket(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mpago.Payment{
			ID:                992,
			Status:            "approved",
			ExternalReference: "REFREFUND",
		},
		refund: &mpago.Refund{ID: 55, Status: "approved"},
	}
	f := newPaymentFixture(t, gateway)

	_, err := f.tickets.Create(context.Background(), ticketForRef("REFREFUND"))
	require.NoError(t, err)

	result, err := f.svc.Refund(context.Background(), "992", nil)

	require.NoError(t, err)
	assert.Equal(t, "55", result.RefundID)
	assert.Equal(t, "approved", result.Status)
	assert.Nil(t, gateway.refundAmount, "nil amount means full refund")

	ticket, err := f.tickets.ByExternalRef(context.Background(), "REFREFUND")
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusCancelled, ticket.Status)
}

func TestRefund_PartialAmount(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mpago.Payment{ID: 993, Status: "approved"},
		refund:  &mpago.Refund{ID: 56, Status: "approved"},
	}
	f := newPaymentFixture(t, gateway)

	amount := 50.0
	_, err := f.svc.Refund(context.Background(), "993", &amount)

	require.NoError(t, err)
	require.NotNil(t, gateway.refundAmount)
	assert.True(t, gateway.refundAmount.Equal(decimal.NewFromFloat(50)))
}
