package rental

import (
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SearchOptions narrows a car search. Zero-value fields are ignored.
type SearchOptions struct {
	CarName   string
	CarType   string
	MinPrice  float64
	MaxPrice  float64
	HasPrice  bool
	StartDate time.Time
	EndDate   time.Time
	HasDates  bool
}

// SearchCars returns fleet cars matching the options. Name and type
// matching is fuzzy, so close misspellings still find the car. When a
// name matches nothing, it is retried against car types, so "suv car"
// finds SUVs. With dates set, cars with a conflicting confirmed booking
// are dropped.
func (s *Store) SearchCars(opts SearchOptions) []Car {
	s.mu.Lock()
	defer s.mu.Unlock()

	cars := make([]Car, len(s.cars))
	copy(cars, s.cars)

	if opts.CarName != "" {
		if name, ok := closestMatch(opts.CarName, carNames(s.cars), 3); ok {
			cars = filterCars(cars, func(c Car) bool { return c.Name == name })
		} else {
			cars = nil
		}
		if len(cars) == 0 {
			if typ, ok := closestMatch(opts.CarName, carTypes(s.cars), 2); ok {
				cars = filterCars(s.cars, func(c Car) bool { return c.Type == typ })
			}
		}
	}

	if opts.CarType != "" {
		if typ, ok := closestMatch(opts.CarType, carTypes(s.cars), 3); ok {
			cars = filterCars(cars, func(c Car) bool { return c.Type == typ })
		} else {
			cars = nil
		}
	}

	if opts.HasPrice {
		cars = filterCars(cars, func(c Car) bool {
			p := float64(c.PricePerDay)
			return p >= opts.MinPrice && p <= opts.MaxPrice
		})
	}

	if opts.HasDates {
		cars = filterCars(cars, func(c Car) bool {
			return s.availableLocked(c.ID, opts.StartDate, opts.EndDate, -1)
		})
	}

	return cars
}

// closestMatch finds the candidate closest to query. It first tries
// case-insensitive fuzzy (subsequence) matching, then falls back to
// edit distance with maxDistance as the acceptance cutoff.
func closestMatch(query string, candidates []string, maxDistance int) (string, bool) {
	ranks := fuzzy.RankFindNormalizedFold(query, candidates)
	if len(ranks) > 0 {
		best := ranks[0]
		for _, r := range ranks[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		return best.Target, true
	}

	bestDist := -1
	bestTarget := ""
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(query, c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestTarget = c
		}
	}
	if bestDist >= 0 && bestDist <= maxDistance {
		return bestTarget, true
	}
	return "", false
}

func filterCars(cars []Car, keep func(Car) bool) []Car {
	var out []Car
	for _, c := range cars {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func carNames(cars []Car) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cars {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c.Name)
		}
	}
	return out
}

func carTypes(cars []Car) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cars {
		if !seen[c.Type] {
			seen[c.Type] = true
			out = append(out, c.Type)
		}
	}
	return out
}
