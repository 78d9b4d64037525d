package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketmetal/models"
)

func sampleEvent() *models.Event {
	return &models.Event{
		ID:       "ev1",
		Title:    "Noite do Metal",
		Date:     time.Date(2026, 10, 31, 21, 0, 0, 0, time.UTC),
		Location: "Arena São Paulo",
		Address:  "Av. Principal, 1000",
		City:     "São Paulo",
		State:    "SP",
	}
}

func TestTicket(t *testing.T) {
	ticket := &models.Ticket{
		ID:           "tkt1",
		EventID:      "ev1",
		TicketNumber: "TMEV10001",
		QRCode:       "550e8400-e29b-41d4-a716-446655440000",
		PricePaid:    150,
		PurchasedAt:  time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	pdf, err := Ticket(ticket, sampleEvent(), "João da Silva")

	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestEventReport(t *testing.T) {
	stats := &models.EventStats{
		EventID:          "ev1",
		EventTitle:       "Noite do Metal",
		MaxTickets:       100,
		TicketsSold:      40,
		TicketsAvailable: 60,
		TotalRevenue:     6000,
		AveragePrice:     150,
		OccupancyRate:    40,
	}

	pdf, err := EventReport(sampleEvent(), stats)

	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestTicket_EmptyOptionalFields(t *testing.T) {
	ticket := &models.Ticket{
		TicketNumber: "TMEV10002",
		QRCode:       "abc",
	}
	event := &models.Event{Title: "Show"}

	pdf, err := Ticket(ticket, event, "")

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
