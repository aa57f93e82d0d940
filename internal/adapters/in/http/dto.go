package http

// Error is the uniform error payload of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderRequest is the payload for POST /api/v1/orders.
type NewOrderRequest struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	Restaurant  string `json:"restaurant_id"`
	Address     string `json:"address"`
	PrepMinutes int    `json:"prep_minutes"`
	Status      string `json:"status,omitempty"`
}

// NewRestaurantRequest is the payload for POST /api/v1/restaurants.
type NewRestaurantRequest struct {
	RestaurantID      string   `json:"restaurant_id"`
	Lat               float64  `json:"lat"`
	Lon               float64  `json:"lon"`
	DeliveryZoneKm    float64  `json:"delivery_zone_km"`
	PreferredCouriers []string `json:"preferred_couriers,omitempty"`
}

// ChangeStatusRequest is the payload for POST /api/v1/orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// IncidentRequest is the payload for POST /api/v1/orders/:id/incident.
type IncidentRequest struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
	Value  *int   `json:"value,omitempty"`
}

// LocationRequest is the payload for POST /api/v1/orders/:id/location.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RatingRequest is the payload for POST /api/v1/orders/:id/rating.
type RatingRequest struct {
	CourierRating    *int `json:"courier_rating,omitempty"`
	RestaurantRating *int `json:"restaurant_rating,omitempty"`
}

// OrderStatusResponse is the payload of GET /api/v1/orders/:id/status.
type OrderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// IncidentResponse is the payload of GET /api/v1/orders/:id/incident.
type IncidentResponse struct {
	OrderID string `json:"order_id"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
	Value   *int   `json:"value,omitempty"`
}

// ETAResponse is the payload of GET /api/v1/orders/:id/eta.
type ETAResponse struct {
	OrderID              string `json:"order_id"`
	EstimatedDeliveryAt  string `json:"estimated_delivery_at"`
	IncidentDelayMinutes int    `json:"incident_delay_minutes"`
}

// ClaimResponse is the payload of POST /api/v1/deliveries/claim.
type ClaimResponse struct {
	OrderID string `json:"order_id"`
}
