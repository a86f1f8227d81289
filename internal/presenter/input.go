package presenter

import (
	"errors"

	"rentnest/server/internal/models"
)

// ReservationInput is a reservation as received from a client, dates unparsed.
type ReservationInput struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalPrice float64 `json:"total_price"`
}

// Reservation converts the input. Dates that fail to parse are left zero and
// reported in the returned error; the reservation itself is always usable.
func (in ReservationInput) Reservation() (*models.Reservation, error) {
	start, startErr := ParseDate("start_date", in.StartDate)
	end, endErr := ParseDate("end_date", in.EndDate)

	return &models.Reservation{
		StartDate:  start,
		EndDate:    end,
		TotalPrice: in.TotalPrice,
	}, errors.Join(startErr, endErr)
}
