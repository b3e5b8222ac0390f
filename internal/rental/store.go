package rental

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const contactTimestampLayout = "02-01-2006 15:04:05"

// Store is a CSV-backed store for cars, bookings, users, and contact
// messages. Tables are held in memory and rewritten whole on mutation.
// The mutex protects in-memory state and file writes; it does not
// serialize multi-step business operations across processes.
type Store struct {
	mu      sync.Mutex
	dataDir string

	cars     []Car
	bookings []Booking
	users    []User
}

// Open loads the CSV tables under dataDir. Missing files are treated
// as empty tables.
func Open(dataDir string) (*Store, error) {
	s := &Store{dataDir: dataDir}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) carsPath() string     { return filepath.Join(s.dataDir, "cars.csv") }
func (s *Store) bookingsPath() string { return filepath.Join(s.dataDir, "bookings.csv") }
func (s *Store) usersPath() string    { return filepath.Join(s.dataDir, "users.csv") }
func (s *Store) contactsPath() string { return filepath.Join(s.dataDir, "contacts.csv") }

func (s *Store) reload() error {
	cars, err := readTable(s.carsPath(), parseCarRow)
	if err != nil {
		return fmt.Errorf("load cars: %w", err)
	}
	bookings, err := readTable(s.bookingsPath(), parseBookingRow)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	users, err := readTable(s.usersPath(), parseUserRow)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	s.cars = cars
	s.bookings = bookings
	s.users = users
	return nil
}

// readTable reads a whole CSV file, skipping the header row.
// A missing file yields an empty table.
func readTable[T any](path string, parse func([]string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]T, 0, len(rows)-1)
	for i, row := range rows[1:] {
		v, err := parse(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func parseCarRow(row []string) (Car, error) {
	if len(row) < 9 {
		return Car{}, fmt.Errorf("expected 9 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Car{}, fmt.Errorf("car_id: %w", err)
	}
	price, err := strconv.Atoi(row[3])
	if err != nil {
		return Car{}, fmt.Errorf("price: %w", err)
	}
	year, err := strconv.Atoi(row[4])
	if err != nil {
		return Car{}, fmt.Errorf("year: %w", err)
	}
	mileage, err := strconv.Atoi(row[7])
	if err != nil {
		return Car{}, fmt.Errorf("mileage: %w", err)
	}
	return Car{
		ID:           id,
		Name:         row[1],
		Type:         row[2],
		PricePerDay:  price,
		Year:         year,
		FuelType:     row[5],
		Transmission: row[6],
		Mileage:      mileage,
		ImagePath:    row[8],
	}, nil
}

func carRow(c Car) []string {
	return []string{
		strconv.Itoa(c.ID), c.Name, c.Type,
		strconv.Itoa(c.PricePerDay), strconv.Itoa(c.Year),
		c.FuelType, c.Transmission, strconv.Itoa(c.Mileage), c.ImagePath,
	}
}

func parseBookingRow(row []string) (Booking, error) {
	if len(row) < 7 {
		return Booking{}, fmt.Errorf("expected 7 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Booking{}, fmt.Errorf("booking_id: %w", err)
	}
	carID, err := strconv.Atoi(row[1])
	if err != nil {
		return Booking{}, fmt.Errorf("car_id: %w", err)
	}
	userID, err := strconv.Atoi(row[2])
	if err != nil {
		return Booking{}, fmt.Errorf("user_id: %w", err)
	}
	start, err := ParseDate(row[3])
	if err != nil {
		return Booking{}, err
	}
	end, err := ParseDate(row[4])
	if err != nil {
		return Booking{}, err
	}
	price, err := strconv.Atoi(row[5])
	if err != nil {
		return Booking{}, fmt.Errorf("total_price: %w", err)
	}
	status, err := strconv.Atoi(row[6])
	if err != nil {
		return Booking{}, fmt.Errorf("booking_status: %w", err)
	}
	return Booking{
		ID:         id,
		CarID:      carID,
		UserID:     userID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: price,
		Status:     BookingStatus(status),
	}, nil
}

func bookingRow(b Booking) []string {
	return []string{
		strconv.Itoa(b.ID), strconv.Itoa(b.CarID), strconv.Itoa(b.UserID),
		FormatDate(b.StartDate), FormatDate(b.EndDate),
		strconv.Itoa(b.TotalPrice), strconv.Itoa(int(b.Status)),
	}
}

func parseUserRow(row []string) (User, error) {
	if len(row) < 5 {
		return User{}, fmt.Errorf("expected 5 columns, got %d", len(row))
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return User{}, fmt.Errorf("user_id: %w", err)
	}
	return User{ID: id, Name: row[1], Email: row[2], Phone: row[3], Address: row[4]}, nil
}

func userRow(u User) []string {
	return []string{strconv.Itoa(u.ID), u.Name, u.Email, u.Phone, u.Address}
}

func (s *Store) saveBookings() error {
	rows := make([][]string, 0, len(s.bookings))
	for _, b := range s.bookings {
		rows = append(rows, bookingRow(b))
	}
	header := []string{"booking_id", "car_id", "user_id", "start_date", "end_date", "total_price", "booking_status"}
	return writeTable(s.bookingsPath(), header, rows)
}

func (s *Store) saveCars() error {
	rows := make([][]string, 0, len(s.cars))
	for _, c := range s.cars {
		rows = append(rows, carRow(c))
	}
	header := []string{"car_id", "name", "car_type", "price", "year", "fuel_type", "transmission", "mileage", "image_path"}
	return writeTable(s.carsPath(), header, rows)
}

func (s *Store) saveUsers() error {
	rows := make([][]string, 0, len(s.users))
	for _, u := range s.users {
		rows = append(rows, userRow(u))
	}
	header := []string{"user_id", "name", "email", "phone", "address"}
	return writeTable(s.usersPath(), header, rows)
}

// Cars returns a copy of the full fleet.
func (s *Store) Cars() []Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Car, len(s.cars))
	copy(out, s.cars)
	return out
}

// CarByID looks up a car by its ID.
func (s *Store) CarByID(id int) (Car, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cars {
		if c.ID == id {
			return c, true
		}
	}
	return Car{}, false
}

// Bookings returns a copy of all bookings.
func (s *Store) Bookings() []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// BookingByID looks up a booking by its ID.
func (s *Store) BookingByID(id int) (Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// UserByID looks up a user by ID.
func (s *Store) UserByID(id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// UserByEmail looks up a user by email address.
func (s *Store) UserByEmail(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// RegisterUser adds a new user with the next free ID and returns it.
func (s *Store) RegisterUser(name, email, phone, address string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return User{}, fmt.Errorf("a user with email %s already exists", email)
		}
	}
	maxID := 100
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u := User{ID: maxID + 1, Name: name, Email: email, Phone: phone, Address: address}
	s.users = append(s.users, u)
	if err := s.saveUsers(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return User{}, fmt.Errorf("save users: %w", err)
	}
	return u, nil
}

// SaveContact appends a contact form submission to contacts.csv.
func (s *Store) SaveContact(m ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.contactsPath()
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open contacts: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write([]string{"timestamp", "name", "email", "subject", "message"}); err != nil {
			return err
		}
	}
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if err := w.Write([]string{
		ts.Format(contactTimestampLayout), m.Name, m.Email, m.Subject, m.Message,
	}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
