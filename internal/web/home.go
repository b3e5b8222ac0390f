package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// HomeData is the template context for the car browsing page.
type HomeData struct {
	PageData
	Cars      []rental.Car
	CarTypes  []string
	Filter    filterValues
	Searched  bool
}

// filterValues echoes the submitted search form back into the page.
type filterValues struct {
	CarType   string
	MinPrice  string
	MaxPrice  string
	StartDate string
	EndDate   string
}

func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request, sess *session) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := HomeData{
		PageData: PageData{
			Title:     "Home",
			ActiveNav: "home",
			User:      &sess.User,
			Error:     popParam(r, "error"),
			Notice:    popParam(r, "notice"),
		},
		CarTypes: carTypeOptions(s.store.Cars()),
		Filter: filterValues{
			CarType:   r.URL.Query().Get("car_type"),
			MinPrice:  r.URL.Query().Get("min_price"),
			MaxPrice:  r.URL.Query().Get("max_price"),
			StartDate: r.URL.Query().Get("start_date"),
			EndDate:   r.URL.Query().Get("end_date"),
		},
	}

	if r.URL.Query().Get("search") != "" {
		data.Searched = true
		opts, err := searchOptions(data.Filter)
		if err != nil {
			data.Error = err.Error()
			data.Cars = s.store.Cars()
		} else {
			data.Cars = s.store.SearchCars(opts)
		}
	} else {
		data.Cars = s.store.Cars()
	}

	s.render(w, "home.html", data)
}

func (s *WebServer) handleBook(w http.ResponseWriter, r *http.Request, sess *session) {
	carID, err := strconv.Atoi(r.FormValue("car_id"))
	if err != nil {
		redirectWith(w, r, "/", "error", "invalid car")
		return
	}
	start, err := rental.ParseDate(r.FormValue("start_date"))
	if err != nil {
		redirectWith(w, r, "/", "error", err.Error())
		return
	}
	end, err := rental.ParseDate(r.FormValue("end_date"))
	if err != nil {
		redirectWith(w, r, "/", "error", err.Error())
		return
	}

	booking, err := s.store.BookCar(sess.User.ID, carID, start, end)
	if err != nil {
		redirectWith(w, r, "/", "error", err.Error())
		return
	}
	s.logger.Info("booking created",
		"bookingID", booking.ID,
		"carID", booking.CarID,
		"userID", booking.UserID,
	)
	redirectWith(w, r, "/reservations", "notice",
		"Booking "+strconv.Itoa(booking.ID)+" created. Confirm it below to reserve the car.")
}

func searchOptions(f filterValues) (rental.SearchOptions, error) {
	opts := rental.SearchOptions{CarType: f.CarType}

	if f.MinPrice != "" || f.MaxPrice != "" {
		opts.HasPrice = true
		opts.MaxPrice = 1 << 30
		if f.MinPrice != "" {
			v, err := strconv.ParseFloat(f.MinPrice, 64)
			if err != nil {
				return opts, err
			}
			opts.MinPrice = v
		}
		if f.MaxPrice != "" {
			v, err := strconv.ParseFloat(f.MaxPrice, 64)
			if err != nil {
				return opts, err
			}
			opts.MaxPrice = v
		}
	}

	if f.StartDate != "" && f.EndDate != "" {
		start, err := rental.ParseDate(f.StartDate)
		if err != nil {
			return opts, err
		}
		end, err := rental.ParseDate(f.EndDate)
		if err != nil {
			return opts, err
		}
		opts.HasDates = true
		opts.StartDate = start
		opts.EndDate = end
	}
	return opts, nil
}

func carTypeOptions(cars []rental.Car) []string {
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

// redirectWith redirects carrying a one-shot message as a query param.
func redirectWith(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	u := path + "?" + key + "=" + url.QueryEscape(msg)
	http.Redirect(w, r, u, http.StatusSeeOther)
}

func popParam(r *http.Request, key string) string {
	return r.URL.Query().Get(key)
}
