package models

import (
	"time"
)

type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ImageURL     string    `json:"image_url,omitempty"`
	MaxTickets   int       `json:"max_tickets"`
	Price        float64   `json:"price"`
	IsActive     bool      `json:"is_active"`
	SalesEndDate time.Time `json:"sales_end_date"`
	OrganizerID  string    `json:"organizer_id"`
	CreatedAt    time.Time `json:"created_at"`
	TicketsSold  int       `json:"tickets_sold"`
}

type EventCreate struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ImageURL     string    `json:"image_url"`
	MaxTickets   int       `json:"max_tickets"`
	Price        float64   `json:"price"`
	SalesEndDate time.Time `json:"sales_end_date"`
	OrganizerID  string    `json:"organizer_id"`
}

type EventUpdate struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	Location     *string    `json:"location"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	ImageURL     *string    `json:"image_url"`
	MaxTickets   *int       `json:"max_tickets"`
	Price        *float64   `json:"price"`
	IsActive     *bool      `json:"is_active"`
	SalesEndDate *time.Time `json:"sales_end_date"`
}

type EventStats struct {
	EventID          string  `json:"event_id"`
	EventTitle       string  `json:"event_title"`
	MaxTickets       int     `json:"max_tickets"`
	TicketsSold      int     `json:"tickets_sold"`
	TicketsAvailable int     `json:"tickets_available"`
	TotalRevenue     float64 `json:"total_revenue"`
	AveragePrice     float64 `json:"average_price"`
	OccupancyRate    float64 `json:"occupancy_rate"`
}
