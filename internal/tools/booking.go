package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

func (r *Registry) registerBookingTools() {
	r.Register(&Tool{
		Name: "car_booking",
		Description: "Add a new car booking to the pending booked list, not the confirmed booked list. " +
			"The user then needs to confirm the booking manually on the reservations page.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"car_id": map[string]any{
					"type":        "integer",
					"description": "ID of the car being booked. Retrieve it with car_search if unknown.",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "Start date of the rental period in dd/mm/YYYY format.",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "End date of the rental period in dd/mm/YYYY format.",
				},
			},
			"required": []string{"car_id", "start_date", "end_date"},
		},
		Handler: r.handleCarBooking,
	})

	r.Register(&Tool{
		Name:        "is_car_available",
		Description: "Check if a specific car is available during the given rental period.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"car_id": map[string]any{
					"type":        "integer",
					"description": "ID of the car to check. Retrieve it with car_search if unknown.",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "Start date of the rental period in dd/mm/YYYY format.",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "End date of the rental period in dd/mm/YYYY format.",
				},
			},
			"required": []string{"car_id", "start_date", "end_date"},
		},
		Handler: r.handleIsCarAvailable,
	})

	r.Register(&Tool{
		Name:        "booking_canceling",
		Description: "Cancel a booking by changing its status to 'Cancelled'.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"booking_id": map[string]any{
					"type":        "integer",
					"description": "ID of the booking to be cancelled.",
				},
			},
			"required": []string{"booking_id"},
		},
		Handler: r.handleBookingCanceling,
	})

	r.Register(&Tool{
		Name: "booking_update",
		Description: "Update an existing booking with new start and end dates, ensuring the car is " +
			"available for the new dates. The total price is recalculated.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"booking_id": map[string]any{
					"type":        "integer",
					"description": "ID of the booking to be updated.",
				},
				"new_start_date": map[string]any{
					"type":        "string",
					"description": "New start date of the rental period in dd/mm/YYYY format.",
				},
				"new_end_date": map[string]any{
					"type":        "string",
					"description": "New end date of the rental period in dd/mm/YYYY format.",
				},
			},
			"required": []string{"booking_id", "new_start_date", "new_end_date"},
		},
		Handler: r.handleBookingUpdate,
	})

	r.Register(&Tool{
		Name:        "confirm_pending_bookings",
		Description: "Confirming the pending reservations for the user.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return "the pending bookings cannot be confirmed , the user need to confirm the booking manually at the reservations page", nil
		},
	})

	r.Register(&Tool{
		Name:        "show_my_pending_booked_cars",
		Description: "Retrieve all pending bookings for the user, with car details.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleShowPending,
	})

	r.Register(&Tool{
		Name:        "show_my_confirmed_booked_cars",
		Description: "Retrieve all confirmed bookings for the user, with car details.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleShowConfirmed,
	})

	r.Register(&Tool{
		Name: "show_my_booking_history",
		Description: "Retrieve the user's last 5 bookings (past and present), excluding pending ones. " +
			"For more than 5 the user needs to check the booking history manually.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleShowHistory,
	})
}

func (r *Registry) handleCarBooking(ctx context.Context, args map[string]any) (string, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return "", err
	}
	carID, err := intArg(args, "car_id")
	if err != nil {
		return "", err
	}
	startStr, err := stringArg(args, "start_date")
	if err != nil {
		return "", err
	}
	endStr, err := stringArg(args, "end_date")
	if err != nil {
		return "", err
	}
	start, err := parseFlexibleDate(startStr)
	if err != nil {
		return "", err
	}
	end, err := parseFlexibleDate(endStr)
	if err != nil {
		return "", err
	}

	booking, err := r.store.BookCar(userID, carID, start, end)
	if err != nil {
		return "", err
	}
	return marshalResult(booking.View())
}

func (r *Registry) handleIsCarAvailable(ctx context.Context, args map[string]any) (string, error) {
	carID, err := intArg(args, "car_id")
	if err != nil {
		return "", err
	}
	startStr, err := stringArg(args, "start_date")
	if err != nil {
		return "", err
	}
	endStr, err := stringArg(args, "end_date")
	if err != nil {
		return "", err
	}
	start, err := parseFlexibleDate(startStr)
	if err != nil {
		return "", fmt.Errorf("invalid date format, please provide dates in dd/mm/YYYY format")
	}
	end, err := parseFlexibleDate(endStr)
	if err != nil {
		return "", fmt.Errorf("invalid date format, please provide dates in dd/mm/YYYY format")
	}

	if r.store.IsCarAvailable(carID, start, end) {
		return fmt.Sprintf("The car with ID %d is available for the specified dates.", carID), nil
	}
	return fmt.Sprintf("The car with ID %d is not available for the specified dates.", carID), nil
}

func (r *Registry) handleBookingCanceling(ctx context.Context, args map[string]any) (string, error) {
	bookingID, err := intArg(args, "booking_id")
	if err != nil {
		return "", err
	}
	booking, err := r.store.CancelBooking(bookingID)
	if err != nil {
		return "", err
	}
	return marshalSuccess(booking.View())
}

func (r *Registry) handleBookingUpdate(ctx context.Context, args map[string]any) (string, error) {
	bookingID, err := intArg(args, "booking_id")
	if err != nil {
		return "", err
	}
	startStr, err := stringArg(args, "new_start_date")
	if err != nil {
		return "", err
	}
	endStr, err := stringArg(args, "new_end_date")
	if err != nil {
		return "", err
	}
	start, err := parseFlexibleDate(startStr)
	if err != nil {
		return "", fmt.Errorf("invalid date format, please use dd/mm/YYYY")
	}
	end, err := parseFlexibleDate(endStr)
	if err != nil {
		return "", fmt.Errorf("invalid date format, please use dd/mm/YYYY")
	}

	booking, err := r.store.UpdateBooking(bookingID, start, end)
	if err != nil {
		return "", err
	}
	return marshalSuccess(booking.View())
}

func (r *Registry) handleShowPending(ctx context.Context, args map[string]any) (string, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return "", err
	}
	return marshalResult(r.store.PendingBookedCars(userID))
}

func (r *Registry) handleShowConfirmed(ctx context.Context, args map[string]any) (string, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return "", err
	}
	return marshalResult(r.store.ConfirmedBookedCars(userID))
}

func (r *Registry) handleShowHistory(ctx context.Context, args map[string]any) (string, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return "", err
	}
	return marshalResult(r.store.BookingHistory(userID))
}

func marshalResult(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(raw), nil
}

func marshalSuccess(v any) (string, error) {
	return marshalResult(map[string]any{"success": true, "data": v})
}
