package rental

import (
	"testing"
)

func TestSearchCars_NameFuzzy(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact", "Toyota Camry", "Toyota Camry"},
		{"case folded", "toyota camry", "Toyota Camry"},
		{"misspelled", "toyotaa camry", "Toyota Camry"},
		{"partial", "mustang", "Ford Mustang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SearchCars(SearchOptions{CarName: tt.query})
			if len(got) != 1 {
				t.Fatalf("SearchCars(%q) returned %d cars, want 1", tt.query, len(got))
			}
			if got[0].Name != tt.want {
				t.Errorf("SearchCars(%q) = %q, want %q", tt.query, got[0].Name, tt.want)
			}
		})
	}
}

func TestSearchCars_NameFallsBackToType(t *testing.T) {
	s := newTestStore(t)

	got := s.SearchCars(SearchOptions{CarName: "suv"})
	if len(got) == 0 {
		t.Fatal("SearchCars(suv) returned nothing, want the SUV fleet")
	}
	for _, c := range got {
		if c.Type != "SUV" {
			t.Errorf("got %s of type %s, want only SUVs", c.Name, c.Type)
		}
	}
}

func TestSearchCars_TypeAndPrice(t *testing.T) {
	s := newTestStore(t)

	got := s.SearchCars(SearchOptions{
		CarType:  "Sedan",
		MinPrice: 50,
		MaxPrice: 55,
		HasPrice: true,
	})
	if len(got) == 0 {
		t.Fatal("no sedans in the 50-55 range")
	}
	for _, c := range got {
		if c.Type != "Sedan" {
			t.Errorf("got type %s, want Sedan", c.Type)
		}
		if c.PricePerDay < 50 || c.PricePerDay > 55 {
			t.Errorf("%s price %d outside [50, 55]", c.Name, c.PricePerDay)
		}
	}
}

func TestSearchCars_AvailabilityFilter(t *testing.T) {
	s := newTestStore(t)

	b, err := s.BookCar(101, 4, date(1), date(7))
	if err != nil {
		t.Fatalf("BookCar() error: %v", err)
	}
	if _, err := s.ConfirmBooking(b.ID); err != nil {
		t.Fatalf("ConfirmBooking() error: %v", err)
	}

	got := s.SearchCars(SearchOptions{
		StartDate: date(3),
		EndDate:   date(5),
		HasDates:  true,
	})
	for _, c := range got {
		if c.ID == 4 {
			t.Error("car with a confirmed overlapping booking returned as available")
		}
	}
	if len(got) != 19 {
		t.Errorf("available cars = %d, want 19", len(got))
	}
}

func TestSearchCars_NoMatch(t *testing.T) {
	s := newTestStore(t)

	if got := s.SearchCars(SearchOptions{CarName: "submarine"}); len(got) != 0 {
		t.Errorf("SearchCars(submarine) = %d cars, want 0", len(got))
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"Sedan", "SUV", "Luxury", "Sports", "Convertible"}

	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{"sedan", "Sedan", true},
		{"sedn", "Sedan", true},
		{"luxry", "Luxury", true},
		{"helicopter", "", false},
	}
	for _, tt := range tests {
		got, ok := closestMatch(tt.query, candidates, 3)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("closestMatch(%q) = %q, %v; want %q, %v", tt.query, got, ok, tt.want, tt.wantOK)
		}
	}
}
