package models

// Trip is one denormalized row from the server-side trip history
// aggregation. The backend flattens ride, booking and counterpart profile
// data into a single record per trip.
type Trip struct {
	ID              string        `json:"id"`
	Role            string        `json:"role"` // "driver" or "passenger"
	FromCity        string        `json:"from_city"`
	ToCity          string        `json:"to_city"`
	DepartureDate   string        `json:"departure_date"`
	DepartureTime   string        `json:"departure_time,omitempty"`
	SeatsBooked     int           `json:"seats_booked"`
	PricePerSeat    float64       `json:"price_per_seat"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	CounterpartName string        `json:"counterpart_name,omitempty"`
	CreatedAt       string        `json:"created_at,omitempty"`
}
