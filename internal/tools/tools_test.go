package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

type fakePolicy struct {
	answer string
	query  string
}

func (f *fakePolicy) Query(_ context.Context, query string, k int) (string, error) {
	f.query = query
	return f.answer, nil
}

func newTestRegistry(t *testing.T) (*Registry, *rental.Store) {
	t.Helper()
	dir := t.TempDir()
	if err := rental.Seed(dir); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	store, err := rental.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return NewRegistry(store, &fakePolicy{answer: "## Cancellation Policy\nFree of charge."}), store
}

func userCtx(userID int) context.Context {
	return WithUserID(context.Background(), userID)
}

func TestDefs_SortedAndComplete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	defs := reg.Defs()

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Defs() not sorted: %v", names)
	}

	for _, want := range []string{
		"calculator", "car_booking", "car_search", "booking_canceling",
		"booking_update", "confirm_pending_bookings", "dates_calculator",
		"is_car_available", "lookup_policy", "show_car_info", "show_cars",
		"show_my_booking_history", "show_my_confirmed_booked_cars",
		"show_my_pending_booked_cars", "show_personal_info",
	} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("tool %q missing from Defs()", want)
		}
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t)
	if _, err := reg.Execute(context.Background(), "no_such_tool", nil); err == nil {
		t.Error("Execute() on unknown tool expected error")
	}
}

func TestCarBooking(t *testing.T) {
	reg, store := newTestRegistry(t)

	out, err := reg.Execute(userCtx(101), "car_booking", map[string]any{
		"car_id":     float64(0),
		"start_date": "01/09/2025",
		"end_date":   "07/09/2025",
	})
	if err != nil {
		t.Fatalf("car_booking error: %v", err)
	}

	var view rental.BookingView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if view.TotalPrice != 270 {
		t.Errorf("total_price = %d, want 270", view.TotalPrice)
	}
	if view.StartDate != "01/09/2025" {
		t.Errorf("start_date = %q, want 01/09/2025", view.StartDate)
	}
	if _, ok := store.BookingByID(view.BookingID); !ok {
		t.Error("booking not persisted in store")
	}
}

func TestCarBooking_RequiresUser(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Execute(context.Background(), "car_booking", map[string]any{
		"car_id":     float64(0),
		"start_date": "01/09/2025",
		"end_date":   "07/09/2025",
	})
	if err == nil || !strings.Contains(err.Error(), "no authenticated user") {
		t.Errorf("error = %v, want no authenticated user", err)
	}
}

func TestCarBooking_FlexibleDates(t *testing.T) {
	reg, _ := newTestRegistry(t)

	// ISO and dashed forms are accepted besides canonical dd/mm/YYYY.
	for _, dates := range [][2]string{
		{"2025-09-01", "2025-09-03"},
		{"01-09-2025", "03-09-2025"},
		{"1/9/2025", "3/9/2025"},
	} {
		if _, err := reg.Execute(userCtx(101), "car_booking", map[string]any{
			"car_id":     float64(1),
			"start_date": dates[0],
			"end_date":   dates[1],
		}); err != nil {
			t.Errorf("car_booking with dates %v error: %v", dates, err)
		}
	}

	if _, err := reg.Execute(userCtx(101), "car_booking", map[string]any{
		"car_id":     float64(1),
		"start_date": "September 1st",
		"end_date":   "03/09/2025",
	}); err == nil {
		t.Error("car_booking with prose date expected error")
	}
}

func TestIsCarAvailable(t *testing.T) {
	reg, store := newTestRegistry(t)

	out, err := reg.Execute(userCtx(101), "is_car_available", map[string]any{
		"car_id":     float64(4),
		"start_date": "01/09/2025",
		"end_date":   "07/09/2025",
	})
	if err != nil {
		t.Fatalf("is_car_available error: %v", err)
	}
	if out != "The car with ID 4 is available for the specified dates." {
		t.Errorf("result = %q", out)
	}

	b, _ := store.BookCar(102, 4, mustDate(t, "01/09/2025"), mustDate(t, "07/09/2025"))
	if _, err := store.ConfirmBooking(b.ID); err != nil {
		t.Fatalf("ConfirmBooking() error: %v", err)
	}

	out, err = reg.Execute(userCtx(101), "is_car_available", map[string]any{
		"car_id":     float64(4),
		"start_date": "05/09/2025",
		"end_date":   "09/09/2025",
	})
	if err != nil {
		t.Fatalf("is_car_available error: %v", err)
	}
	if out != "The car with ID 4 is not available for the specified dates." {
		t.Errorf("result = %q", out)
	}
}

func TestBookingCancelingAndUpdate(t *testing.T) {
	reg, store := newTestRegistry(t)

	b, err := store.BookCar(101, 1, mustDate(t, "03/09/2025"), mustDate(t, "06/09/2025"))
	if err != nil {
		t.Fatalf("BookCar() error: %v", err)
	}

	out, err := reg.Execute(userCtx(101), "booking_update", map[string]any{
		"booking_id":     float64(b.ID),
		"new_start_date": "10/09/2025",
		"new_end_date":   "14/09/2025",
	})
	if err != nil {
		t.Fatalf("booking_update error: %v", err)
	}
	if !strings.Contains(out, `"success":true`) {
		t.Errorf("booking_update result = %q, want success envelope", out)
	}
	if !strings.Contains(out, `"total_price":200`) {
		t.Errorf("booking_update result = %q, want repriced total 200", out)
	}

	out, err = reg.Execute(userCtx(101), "booking_canceling", map[string]any{
		"booking_id": float64(b.ID),
	})
	if err != nil {
		t.Fatalf("booking_canceling error: %v", err)
	}
	if !strings.Contains(out, `"booking_status":0`) {
		t.Errorf("booking_canceling result = %q, want cancelled status", out)
	}

	// Cancelled bookings cannot be touched again.
	if _, err := reg.Execute(userCtx(101), "booking_canceling", map[string]any{
		"booking_id": float64(b.ID),
	}); err == nil {
		t.Error("cancelling twice expected error")
	}
}

func TestConfirmPendingBookings_AlwaysRefuses(t *testing.T) {
	reg, _ := newTestRegistry(t)

	out, err := reg.Execute(userCtx(101), "confirm_pending_bookings", map[string]any{})
	if err != nil {
		t.Fatalf("confirm_pending_bookings error: %v", err)
	}
	want := "the pending bookings cannot be confirmed , the user need to confirm the booking manually at the reservations page"
	if out != want {
		t.Errorf("result = %q, want %q", out, want)
	}
}

func TestShowMyBookings(t *testing.T) {
	reg, store := newTestRegistry(t)

	b, _ := store.BookCar(101, 0, mustDate(t, "01/09/2025"), mustDate(t, "03/09/2025"))

	out, err := reg.Execute(userCtx(101), "show_my_pending_booked_cars", map[string]any{})
	if err != nil {
		t.Fatalf("show_my_pending_booked_cars error: %v", err)
	}
	if !strings.Contains(out, "Toyota Camry") {
		t.Errorf("pending list missing car details: %q", out)
	}

	// Another user sees nothing.
	out, _ = reg.Execute(userCtx(102), "show_my_pending_booked_cars", map[string]any{})
	if out != "null" {
		t.Errorf("other user's pending list = %q, want null", out)
	}

	if _, err := store.CancelBooking(b.ID); err != nil {
		t.Fatalf("CancelBooking() error: %v", err)
	}
	out, err = reg.Execute(userCtx(101), "show_my_booking_history", map[string]any{})
	if err != nil {
		t.Fatalf("show_my_booking_history error: %v", err)
	}
	if !strings.Contains(out, `"booking_status":0`) {
		t.Errorf("history missing cancelled booking: %q", out)
	}
}

func TestShowPersonalInfo(t *testing.T) {
	reg, _ := newTestRegistry(t)

	out, err := reg.Execute(userCtx(101), "show_personal_info", map[string]any{})
	if err != nil {
		t.Fatalf("show_personal_info error: %v", err)
	}
	if !strings.Contains(out, "John Doe") || !strings.Contains(out, "john@example.com") {
		t.Errorf("result = %q, want John Doe's details", out)
	}

	if _, err := reg.Execute(context.Background(), "show_personal_info", map[string]any{}); err == nil {
		t.Error("show_personal_info without user expected error")
	}
}

func TestCarSearch(t *testing.T) {
	reg, _ := newTestRegistry(t)

	out, err := reg.Execute(userCtx(101), "car_search", map[string]any{
		"car_type":  "SUV",
		"max_price": float64(85),
	})
	if err != nil {
		t.Fatalf("car_search error: %v", err)
	}

	var result struct {
		AvailableCars []rental.Car `json:"available_cars"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(result.AvailableCars) == 0 {
		t.Fatal("no SUVs at or below $85")
	}
	for _, c := range result.AvailableCars {
		if c.Type != "SUV" || c.PricePerDay > 85 {
			t.Errorf("unexpected car in results: %+v", c)
		}
	}
}

func TestCalculator(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "multiply",
			args: map[string]any{"operation": "multiply", "num1": float64(45), "num2": float64(6)},
			want: `{"result":270}`,
		},
		{
			name: "divide",
			args: map[string]any{"operation": "divide", "num1": float64(270), "num2": float64(6)},
			want: `{"result":45}`,
		},
		{
			name: "divide by zero",
			args: map[string]any{"operation": "divide", "num1": float64(1), "num2": float64(0)},
			want: `{"error":"Division by zero is not allowed."}`,
		},
		{
			name: "invalid operation",
			args: map[string]any{"operation": "modulo", "num1": float64(1), "num2": float64(2)},
			want: `{"error":"Invalid operation 'modulo'. Valid operations are add, subtract, multiply, divide."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Execute(context.Background(), "calculator", tt.args)
			if err != nil {
				t.Fatalf("calculator error: %v", err)
			}
			if got != tt.want {
				t.Errorf("calculator = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := reg.Execute(context.Background(), "calculator", map[string]any{
		"operation": "add", "num1": float64(1),
	}); err == nil {
		t.Error("calculator with missing operand expected error")
	}
}

func TestDatesCalculator(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "add days",
			args: map[string]any{"operation": "add_days", "start_date": "01/09/2025", "days": float64(6)},
			want: `{"result":"07/09/2025"}`,
		},
		{
			name: "subtract days",
			args: map[string]any{"operation": "subtract_days", "start_date": "07/09/2025", "days": float64(6)},
			want: `{"result":"01/09/2025"}`,
		},
		{
			name: "days between",
			args: map[string]any{"operation": "days_between", "start_date": "01/09/2025", "end_date": "07/09/2025"},
			want: `{"result":6}`,
		},
		{
			name: "missing days",
			args: map[string]any{"operation": "add_days", "start_date": "01/09/2025"},
			want: `{"error":"The 'days' argument is required for 'add_days' operation."}`,
		},
		{
			name: "missing end date",
			args: map[string]any{"operation": "days_between", "start_date": "01/09/2025"},
			want: `{"error":"The 'end_date' argument is required for 'days_between' operation."}`,
		},
		{
			name: "invalid operation",
			args: map[string]any{"operation": "weekday", "start_date": "01/09/2025"},
			want: `{"error":"Invalid operation 'weekday'. Valid operations are 'duration', 'add_days', 'subtract_days', and 'days_between'."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Execute(context.Background(), "dates_calculator", tt.args)
			if err != nil {
				t.Fatalf("dates_calculator error: %v", err)
			}
			if got != tt.want {
				t.Errorf("dates_calculator = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupPolicy(t *testing.T) {
	reg, _ := newTestRegistry(t)

	out, err := reg.Execute(context.Background(), "lookup_policy", map[string]any{
		"query": "can I cancel for free?",
	})
	if err != nil {
		t.Fatalf("lookup_policy error: %v", err)
	}
	if !strings.Contains(out, "Cancellation Policy") {
		t.Errorf("result = %q, want the cancellation section", out)
	}
}

func TestLookupPolicy_Unconfigured(t *testing.T) {
	dir := t.TempDir()
	if err := rental.Seed(dir); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	store, err := rental.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	reg := NewRegistry(store, nil)

	if _, err := reg.Execute(context.Background(), "lookup_policy", map[string]any{
		"query": "anything",
	}); err == nil {
		t.Error("lookup_policy without a retriever expected error")
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"01/09/2025", false},
		{"1/9/2025", false},
		{"01-09-2025", false},
		{"2025-09-01", false},
		{"September 1", true},
		{"", true},
	}
	for _, tt := range tests {
		if _, err := parseFlexibleDate(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("parseFlexibleDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := rental.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}
