package rental

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Seed writes the demo fleet, bookings, users, and company policy
// document under dataDir. Existing files are left untouched, so it is
// safe to run on every start.
func Seed(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := seedTable(filepath.Join(dataDir, "cars.csv"),
		[]string{"car_id", "name", "car_type", "price", "year", "fuel_type", "transmission", "mileage", "image_path"},
		seedCarRows()); err != nil {
		return err
	}
	if err := seedTable(filepath.Join(dataDir, "bookings.csv"),
		[]string{"booking_id", "car_id", "user_id", "start_date", "end_date", "total_price", "booking_status"},
		seedBookingRows()); err != nil {
		return err
	}
	if err := seedTable(filepath.Join(dataDir, "users.csv"),
		[]string{"user_id", "name", "email", "phone", "address"},
		seedUserRows()); err != nil {
		return err
	}

	policyPath := filepath.Join(dataDir, "company_rules.md")
	if _, err := os.Stat(policyPath); os.IsNotExist(err) {
		if err := os.WriteFile(policyPath, []byte(companyRules), 0o644); err != nil {
			return fmt.Errorf("write policy rules: %w", err)
		}
	}
	return nil
}

func seedTable(path string, header []string, rows [][]string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return writeTable(path, header, rows)
}

func seedCarRows() [][]string {
	cars := SeedCars()
	rows := make([][]string, 0, len(cars))
	for _, c := range cars {
		rows = append(rows, carRow(c))
	}
	return rows
}

func seedBookingRows() [][]string {
	bookings := SeedBookings()
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, bookingRow(b))
	}
	return rows
}

func seedUserRows() [][]string {
	users := SeedUsers()
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow(u))
	}
	return rows
}

// SeedCars returns the demo fleet of twenty cars.
func SeedCars() []Car {
	type row struct {
		name, typ            string
		price, year, mileage int
		fuel, trans, image   string
	}
	rows := []row{
		{"Toyota Camry", "Sedan", 45, 2021, 15000, "Gasoline", "Automatic", "toyota_camry.png"},
		{"Honda Civic", "Sedan", 50, 2020, 20000, "Gasoline", "Automatic", "honda_civic.png"},
		{"Ford Mustang", "Sports", 70, 2022, 10000, "Gasoline", "Manual", "ford_mustang.png"},
		{"Chevrolet Malibu", "Sedan", 55, 2021, 12000, "Gasoline", "Automatic", "chevrolet_malibu.png"},
		{"BMW X5", "SUV", 80, 2022, 18000, "Gasoline", "Automatic", "bmw_x5.png"},
		{"Audi Q7", "SUV", 85, 2021, 16000, "Diesel", "Automatic", "audi_q7.png"},
		{"Mercedes-Benz E-Class", "Luxury", 95, 2023, 5000, "Gasoline", "Automatic", "mercedes_benz_e_class.png"},
		{"Lexus RX 350", "SUV", 90, 2023, 8000, "Hybrid", "Automatic", "lexus_rx_350.png"},
		{"Porsche 911", "Luxury", 120, 2022, 6000, "Gasoline", "Manual", "porsche_911.png"},
		{"Chevrolet Corvette", "Luxury", 130, 2021, 7000, "Gasoline", "Automatic", "chevrolet_corvette.png"},
		{"Jaguar F-Type", "Luxury", 140, 2022, 4000, "Gasoline", "Automatic", "jaguar_f_type.png"},
		{"Mazda MX-5 Miata", "Convertible", 75, 2020, 12000, "Gasoline", "Manual", "mazda_mx5_miata.png"},
		{"Volkswagen Jetta", "Sedan", 50, 2021, 20000, "Gasoline", "Automatic", "volkswagen_jetta.png"},
		{"Hyundai Sonata", "Sedan", 55, 2022, 18000, "Gasoline", "Automatic", "hyundai_sonata.png"},
		{"Nissan Altima", "Sedan", 60, 2021, 17000, "Gasoline", "Automatic", "nissan_altima.png"},
		{"Kia Optima", "Sedan", 65, 2023, 15000, "Gasoline", "Automatic", "kia_optima.png"},
		{"Ford Explorer", "SUV", 85, 2022, 22000, "Gasoline", "Automatic", "ford_explorer.png"},
		{"Toyota Highlander", "SUV", 90, 2021, 21000, "Gasoline", "Automatic", "toyota_highlander.png"},
		{"Honda Pilot", "SUV", 95, 2023, 19000, "Gasoline", "Automatic", "honda_pilot.png"},
		{"Jeep Grand Cherokee", "SUV", 100, 2021, 20000, "Diesel", "Automatic", "jeep_grand_cherokee.png"},
	}
	cars := make([]Car, 0, len(rows))
	for i, r := range rows {
		cars = append(cars, Car{
			ID:           i,
			Name:         r.name,
			Type:         r.typ,
			PricePerDay:  r.price,
			Year:         r.year,
			FuelType:     r.fuel,
			Transmission: r.trans,
			Mileage:      r.mileage,
			ImagePath:    "assets/images/" + r.image,
		})
	}
	return cars
}

// SeedBookings returns two historic (cancelled) demo bookings.
func SeedBookings() []Booking {
	d := func(day int) time.Time {
		return time.Date(2024, time.August, day, 0, 0, 0, 0, time.UTC)
	}
	return []Booking{
		{ID: 0, CarID: 0, UserID: 101, StartDate: d(1), EndDate: d(7), TotalPrice: 315, Status: StatusCancelled},
		{ID: 1, CarID: 2, UserID: 102, StartDate: d(15), EndDate: d(20), TotalPrice: 420, Status: StatusCancelled},
	}
}

// SeedUsers returns the two demo customers.
func SeedUsers() []User {
	return []User{
		{ID: 101, Name: "John Doe", Email: "john@example.com", Phone: "555-1234", Address: "123 Elm St"},
		{ID: 102, Name: "Jane Smith", Email: "jane@example.com", Phone: "555-5678", Address: "456 Oak St"},
	}
}

const companyRules = `# Company Rental Policies

## Booking Policy
All reservations start as pending and must be confirmed by the customer
on the Reservations page before the rental begins. Pending bookings do
not block other customers from reserving the same vehicle. A booking can
be placed up to twelve months in advance. The total price is the daily
rate multiplied by the number of rental days.

## Cancellation Policy
Bookings can be cancelled free of charge at any time before the rental
start date. Cancelled bookings cannot be reinstated; a new booking must
be made instead. Confirmed bookings cancelled within 24 hours of the
start date may incur a fee of one rental day.

## Modification Policy
The dates of a pending or confirmed booking can be changed as long as
the vehicle is available for the new period. The total price is
recalculated from the new dates. The vehicle itself cannot be changed;
cancel and rebook to switch cars.

## Confirmation Policy
Pending bookings are confirmed manually by the customer on the
Reservations page. Support agents cannot confirm bookings on a
customer's behalf. Only confirmed bookings reserve the vehicle.

## Payment Policy
Payment is collected at pickup. We accept all major credit cards and
debit cards. A security deposit of one rental day is held on the card
and released on return of the vehicle in good condition.

## Driver Requirements
The primary driver must be at least 21 years old and hold a valid
driving licence for a minimum of one year. Drivers under 25 may be
subject to a young driver surcharge. Additional drivers can be added at
pickup at no extra cost.

## Fuel Policy
Vehicles are supplied with a full tank and must be returned full.
Vehicles returned with less fuel are charged for the missing fuel plus
a refuelling service fee.

## Mileage Policy
Rentals include 300 kilometres per day. Additional kilometres are
charged at 0.25 per kilometre. Unlimited mileage packages are available
on request for rentals of seven days or more.

## Insurance Policy
All rentals include third-party liability insurance. Collision damage
waiver and theft protection are available as optional extras at the
counter. Damage caused by negligence or violation of the rental terms
is not covered.

## Late Return Policy
A grace period of one hour applies to all returns. Returns more than
one hour late are charged an extra day. Extensions requested before the
return time are charged at the normal daily rate when the vehicle has
no conflicting booking.
`
