// Package rental holds the car rental domain model and its CSV-backed store.
// All dates in the domain use dd/mm/YYYY.
package rental

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date format used across the domain.
const DateLayout = "02/01/2006"

// ParseDate parses a dd/mm/YYYY date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected dd/mm/YYYY", s)
	}
	return t, nil
}

// FormatDate renders a time in dd/mm/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus int

const (
	StatusCancelled BookingStatus = 0
	StatusPending   BookingStatus = 1
	StatusConfirmed BookingStatus = 2
)

func (s BookingStatus) String() string {
	switch s {
	case StatusCancelled:
		return "Cancelled"
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Car is one vehicle in the fleet.
type Car struct {
	ID           int    `json:"car_id"`
	Name         string `json:"name"`
	Type         string `json:"car_type"`
	PricePerDay  int    `json:"price"`
	Year         int    `json:"year"`
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	Mileage      int    `json:"mileage"`
	ImagePath    string `json:"image_path"`
}

// Booking is one rental reservation.
type Booking struct {
	ID         int           `json:"booking_id"`
	CarID      int           `json:"car_id"`
	UserID     int           `json:"user_id"`
	StartDate  time.Time     `json:"-"`
	EndDate    time.Time     `json:"-"`
	TotalPrice int           `json:"total_price"`
	Status     BookingStatus `json:"booking_status"`
}

// BookingView is a Booking with dates rendered as strings, the shape
// returned by tools and web handlers.
type BookingView struct {
	BookingID  int    `json:"booking_id"`
	CarID      int    `json:"car_id"`
	UserID     int    `json:"user_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalPrice int    `json:"total_price"`
	Status     int    `json:"booking_status"`
}

// View converts a Booking into its serializable form.
func (b Booking) View() BookingView {
	return BookingView{
		BookingID:  b.ID,
		CarID:      b.CarID,
		UserID:     b.UserID,
		StartDate:  FormatDate(b.StartDate),
		EndDate:    FormatDate(b.EndDate),
		TotalPrice: b.TotalPrice,
		Status:     int(b.Status),
	}
}

// BookedCar joins a booking with its car details.
type BookedCar struct {
	BookingView
	Car Car `json:"car"`
}

// User is a registered customer.
type User struct {
	ID      int    `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ContactMessage is a support form submission.
type ContactMessage struct {
	Timestamp time.Time
	Name      string
	Email     string
	Subject   string
	Message   string
}
