package rental

import (
	"errors"
	"fmt"
	"time"
)

// ErrCarUnavailable is returned when a booking conflicts with a
// confirmed booking for the same car.
var ErrCarUnavailable = errors.New("car is not available for the specified dates")

// ErrBookingNotFound is returned when a booking does not exist or has
// already been cancelled.
var ErrBookingNotFound = errors.New("booking is not available or has already been canceled")

// rentalDays is the charged duration of a rental period. The return
// day itself is not charged.
func rentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// availableLocked reports whether carID is free over [start, end].
// Only confirmed bookings block availability; overlap is inclusive on
// both ends. excludeID skips one booking (use a negative value for
// none), so an update does not conflict with itself.
func (s *Store) availableLocked(carID int, start, end time.Time, excludeID int) bool {
	for _, b := range s.bookings {
		if b.CarID != carID || b.Status != StatusConfirmed || b.ID == excludeID {
			continue
		}
		if !b.StartDate.After(end) && !b.EndDate.Before(start) {
			return false
		}
	}
	return true
}

// IsCarAvailable reports whether the car is free for the period.
func (s *Store) IsCarAvailable(carID int, start, end time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableLocked(carID, start, end, -1)
}

// BookCar creates a pending booking for the user and returns it.
// The total price is the per-day rate times the number of charged days.
func (s *Store) BookCar(userID, carID int, start, end time.Time) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var car Car
	found := false
	for _, c := range s.cars {
		if c.ID == carID {
			car = c
			found = true
			break
		}
	}
	if !found {
		return Booking{}, fmt.Errorf("car ID %d not found", carID)
	}
	if !s.availableLocked(carID, start, end, -1) {
		return Booking{}, ErrCarUnavailable
	}

	days := rentalDays(start, end)
	total := days * car.PricePerDay
	if total < 0 {
		total = -total
	}

	id := 1
	if len(s.bookings) > 0 {
		maxID := s.bookings[0].ID
		for _, b := range s.bookings {
			if b.ID > maxID {
				maxID = b.ID
			}
		}
		id = maxID + 1
	}

	b := Booking{
		ID:         id,
		CarID:      carID,
		UserID:     userID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: total,
		Status:     StatusPending,
	}
	s.bookings = append(s.bookings, b)
	if err := s.saveBookings(); err != nil {
		s.bookings = s.bookings[:len(s.bookings)-1]
		return Booking{}, fmt.Errorf("save bookings: %w", err)
	}
	return b, nil
}

// CancelBooking sets the booking's status to Cancelled. Cancelling a
// booking that does not exist or is already cancelled fails.
func (s *Store) CancelBooking(bookingID int) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bookings {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 || s.bookings[idx].Status == StatusCancelled {
		return Booking{}, fmt.Errorf("booking ID %d: %w", bookingID, ErrBookingNotFound)
	}

	prev := s.bookings[idx].Status
	s.bookings[idx].Status = StatusCancelled
	if err := s.saveBookings(); err != nil {
		s.bookings[idx].Status = prev
		return Booking{}, fmt.Errorf("save bookings: %w", err)
	}
	return s.bookings[idx], nil
}

// UpdateBooking moves an existing booking to new dates and reprices it.
// The booking's own dates never block the update; other confirmed
// bookings for the same car do.
func (s *Store) UpdateBooking(bookingID int, newStart, newEnd time.Time) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bookings {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 || s.bookings[idx].Status == StatusCancelled {
		return Booking{}, fmt.Errorf("booking ID %d: %w", bookingID, ErrBookingNotFound)
	}

	if !newEnd.After(newStart) {
		return Booking{}, errors.New("end date must be after the start date")
	}

	booking := s.bookings[idx]
	if !s.availableLocked(booking.CarID, newStart, newEnd, booking.ID) {
		return Booking{}, fmt.Errorf("the car is not available for the new dates specified")
	}

	var car Car
	found := false
	for _, c := range s.cars {
		if c.ID == booking.CarID {
			car = c
			found = true
			break
		}
	}
	if !found {
		return Booking{}, fmt.Errorf("car ID %d not found", booking.CarID)
	}

	prev := s.bookings[idx]
	s.bookings[idx].StartDate = newStart
	s.bookings[idx].EndDate = newEnd
	s.bookings[idx].TotalPrice = rentalDays(newStart, newEnd) * car.PricePerDay
	if err := s.saveBookings(); err != nil {
		s.bookings[idx] = prev
		return Booking{}, fmt.Errorf("save bookings: %w", err)
	}
	return s.bookings[idx], nil
}

// ConfirmBooking moves a pending booking to Confirmed. Only pending
// bookings can be confirmed, and only through this path (the
// reservations page); the assistant has no tool for it.
func (s *Store) ConfirmBooking(bookingID int) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bookings {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Booking{}, fmt.Errorf("booking ID %d: %w", bookingID, ErrBookingNotFound)
	}
	if s.bookings[idx].Status != StatusPending {
		return Booking{}, fmt.Errorf("booking ID %d is not pending", bookingID)
	}

	s.bookings[idx].Status = StatusConfirmed
	if err := s.saveBookings(); err != nil {
		s.bookings[idx].Status = StatusPending
		return Booking{}, fmt.Errorf("save bookings: %w", err)
	}
	return s.bookings[idx], nil
}

// bookedCarsLocked joins the user's bookings matching keep with car details.
func (s *Store) bookedCarsLocked(userID int, keep func(Booking) bool) []BookedCar {
	var out []BookedCar
	for _, b := range s.bookings {
		if b.UserID != userID || !keep(b) {
			continue
		}
		bc := BookedCar{BookingView: b.View()}
		for _, c := range s.cars {
			if c.ID == b.CarID {
				bc.Car = c
				break
			}
		}
		out = append(out, bc)
	}
	return out
}

// PendingBookedCars lists the user's pending bookings with car details.
func (s *Store) PendingBookedCars(userID int) []BookedCar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookedCarsLocked(userID, func(b Booking) bool { return b.Status == StatusPending })
}

// ConfirmedBookedCars lists the user's confirmed bookings with car details.
func (s *Store) ConfirmedBookedCars(userID int) []BookedCar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookedCarsLocked(userID, func(b Booking) bool { return b.Status == StatusConfirmed })
}

// BookingHistory lists the user's last five non-pending bookings with
// car details.
func (s *Store) BookingHistory(userID int) []BookedCar {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.bookedCarsLocked(userID, func(b Booking) bool { return b.Status != StatusPending })
	if len(all) > 5 {
		all = all[len(all)-5:]
	}
	return all
}
