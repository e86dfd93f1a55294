package http

import (
	"encoding/json"
	"errors"
	"time"

	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
)

// Point is a coordinate pair on the wire. Both fields are required.
type Point struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (p Point) location(name string) (kernel.Location, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return kernel.Location{}, badRequest(name, errors.New("latitude and longitude are required"))
	}
	return kernel.NewLocation(*p.Latitude, *p.Longitude)
}

func pointOf(l kernel.Location) Point {
	lat, lon := l.Latitude(), l.Longitude()
	return Point{Latitude: &lat, Longitude: &lon}
}

type CreateOrderRequest struct {
	Pickup        Point  `json:"pickup"`
	Dropoff       Point  `json:"dropoff"`
	ItemCategory  string `json:"item_category"`
	ItemType      string `json:"item_type"`
	SuggestedCost string `json:"suggested_cost"`
}

type CreateOrderResponse struct {
	ID string `json:"id"`
}

type CounterOfferRequest struct {
	Fare string `json:"fare"`
}

type LocationUpdateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Heading   *float64 `json:"heading,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r LocationUpdateRequest) parse() (kernel.Location, rider.Telemetry, error) {
	loc, err := Point{Latitude: r.Latitude, Longitude: r.Longitude}.location("location")
	if err != nil {
		return kernel.Location{}, rider.Telemetry{}, err
	}
	return loc, rider.Telemetry{Heading: r.Heading, Speed: r.Speed, Accuracy: r.Accuracy}, nil
}

type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

type OrderResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	RiderID       *string         `json:"rider_id"`
	Status        string          `json:"status"`
	Pickup        Point           `json:"pickup"`
	Dropoff       Point           `json:"dropoff"`
	ItemCategory  string          `json:"item_category"`
	ItemType      string          `json:"item_type"`
	SuggestedCost string          `json:"suggested_cost"`
	CreatedAt     time.Time       `json:"created_at"`
	AcceptedAt    *time.Time      `json:"accepted_at,omitempty"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Offers        []OfferResponse `json:"offers,omitempty"`
}

type OfferResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id,omitempty"`
	RiderID   string    `json:"rider_id"`
	Fare      string    `json:"fare"`
	IsCounter bool      `json:"is_counter"`
	Accepted  bool      `json:"accepted"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RiderResponse struct {
	ID                string     `json:"id"`
	Location          Point      `json:"location"`
	IdleSince         *time.Time `json:"idle_since,omitempty"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty"`
}

type OfferEventResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	RiderID   string          `json:"rider_id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func orderFromDomain(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID().String(),
		CustomerID:    o.Customer().String(),
		RiderID:       idString(o.Rider()),
		Status:        o.Status().String(),
		Pickup:        pointOf(o.Pickup()),
		Dropoff:       pointOf(o.Dropoff()),
		ItemCategory:  o.ItemCategory(),
		ItemType:      o.ItemType(),
		SuggestedCost: o.SuggestedCost().String(),
		CreatedAt:     o.CreatedAt(),
		AcceptedAt:    o.AcceptedAt(),
		ExpiresAt:     o.ExpiresAt(),
	}
}

func orderFromView(v queries.OrderView) OrderResponse {
	return OrderResponse{
		ID:            v.ID.String(),
		CustomerID:    v.CustomerID.String(),
		RiderID:       idString(v.RiderID),
		Status:        v.Status,
		Pickup:        pointOf(v.Pickup),
		Dropoff:       pointOf(v.Dropoff),
		ItemCategory:  v.ItemCategory,
		ItemType:      v.ItemType,
		SuggestedCost: v.SuggestedCost.String(),
		CreatedAt:     v.CreatedAt,
		AcceptedAt:    v.AcceptedAt,
		ExpiresAt:     v.ExpiresAt,
	}
}

func offerFromDomain(of *offer.Offer) OfferResponse {
	return OfferResponse{
		ID:        of.ID().String(),
		OrderID:   of.OrderID().String(),
		RiderID:   of.RiderID().String(),
		Fare:      of.Fare().String(),
		IsCounter: of.IsCounter(),
		Accepted:  of.IsAccepted(),
		ExpiresAt: of.ExpiresAt(),
	}
}

func offerFromView(v queries.OfferView) OfferResponse {
	return OfferResponse{
		ID:        v.ID.String(),
		RiderID:   v.RiderID.String(),
		Fare:      v.Fare.String(),
		IsCounter: v.IsCounter,
		Accepted:  v.Accepted,
		ExpiresAt: v.ExpiresAt,
	}
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
