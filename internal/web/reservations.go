package web

import (
	"net/http"
	"strconv"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// ReservationsData is the template context for the reservations page.
type ReservationsData struct {
	PageData
	Pending   []rental.BookedCar
	Confirmed []rental.BookedCar
	History   []rental.BookedCar
}

func (s *WebServer) handleReservations(w http.ResponseWriter, r *http.Request, sess *session) {
	data := ReservationsData{
		PageData: PageData{
			Title:     "Reservations",
			ActiveNav: "reservations",
			User:      &sess.User,
			Error:     popParam(r, "error"),
			Notice:    popParam(r, "notice"),
		},
		Pending:   s.store.PendingBookedCars(sess.User.ID),
		Confirmed: s.store.ConfirmedBookedCars(sess.User.ID),
		History:   s.store.BookingHistory(sess.User.ID),
	}
	s.render(w, "reservations.html", data)
}

func (s *WebServer) handleConfirm(w http.ResponseWriter, r *http.Request, sess *session) {
	id, err := s.ownedBookingID(r, sess)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	booking, err := s.store.ConfirmBooking(id)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	s.logger.Info("booking confirmed", "bookingID", booking.ID, "userID", sess.User.ID)
	redirectWith(w, r, "/reservations", "notice", "Booking "+strconv.Itoa(booking.ID)+" confirmed.")
}

func (s *WebServer) handleCancel(w http.ResponseWriter, r *http.Request, sess *session) {
	id, err := s.ownedBookingID(r, sess)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	booking, err := s.store.CancelBooking(id)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	s.logger.Info("booking cancelled", "bookingID", booking.ID, "userID", sess.User.ID)
	redirectWith(w, r, "/reservations", "notice", "Booking "+strconv.Itoa(booking.ID)+" cancelled.")
}

func (s *WebServer) handleUpdate(w http.ResponseWriter, r *http.Request, sess *session) {
	id, err := s.ownedBookingID(r, sess)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	start, err := rental.ParseDate(r.FormValue("start_date"))
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	end, err := rental.ParseDate(r.FormValue("end_date"))
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}

	booking, err := s.store.UpdateBooking(id, start, end)
	if err != nil {
		redirectWith(w, r, "/reservations", "error", err.Error())
		return
	}
	s.logger.Info("booking updated", "bookingID", booking.ID, "userID", sess.User.ID)
	redirectWith(w, r, "/reservations", "notice", "Booking "+strconv.Itoa(booking.ID)+" updated.")
}

// ownedBookingID parses the booking_id form value and verifies the
// booking belongs to the session user. Foreign bookings report the same
// error as missing ones.
func (s *WebServer) ownedBookingID(r *http.Request, sess *session) (int, error) {
	id, err := strconv.Atoi(r.FormValue("booking_id"))
	if err != nil {
		return 0, err
	}
	booking, ok := s.store.BookingByID(id)
	if !ok || booking.UserID != sess.User.ID {
		return 0, rental.ErrBookingNotFound
	}
	return id, nil
}
