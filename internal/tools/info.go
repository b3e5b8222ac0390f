package tools

import (
	"context"
	"fmt"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

func (r *Registry) registerInfoTools() {
	r.Register(&Tool{
		Name:        "show_personal_info",
		Description: "Retrieve all personal information for the user.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleShowPersonalInfo,
	})

	r.Register(&Tool{
		Name: "show_car_info",
		Description: "Retrieve information about a specific car based on its car_id. " +
			"If you don't have the car_id you can use car_search to get the car IDs.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"car_id": map[string]any{
					"type":        "integer",
					"description": "ID of the car whose information is to be retrieved.",
				},
			},
			"required": []string{"car_id"},
		},
		Handler: r.handleShowCarInfo,
	})

	r.Register(&Tool{
		Name:        "show_cars",
		Description: "Retrieve information about all cars available in the system.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: r.handleShowCars,
	})

	r.Register(&Tool{
		Name: "car_search",
		Description: "Search for available cars based on specified criteria: name, type, price range, " +
			"and availability within a date range. All criteria are optional.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"car_name": map[string]any{
					"type":        "string",
					"description": "Name of the car to search for.",
				},
				"car_type": map[string]any{
					"type":        "string",
					"description": "Type of car to search for (e.g. Sedan, SUV, Luxury).",
				},
				"min_price": map[string]any{
					"type":        "number",
					"description": "Minimum price per day.",
				},
				"max_price": map[string]any{
					"type":        "number",
					"description": "Maximum price per day.",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "Start date for the rental period in dd/mm/YYYY format.",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "End date for the rental period in dd/mm/YYYY format.",
				},
			},
		},
		Handler: r.handleCarSearch,
	})
}

func (r *Registry) handleShowPersonalInfo(ctx context.Context, args map[string]any) (string, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return "", err
	}
	user, ok := r.store.UserByID(userID)
	if !ok {
		return "", fmt.Errorf("user ID %d not found", userID)
	}
	return marshalResult([]rental.User{user})
}

func (r *Registry) handleShowCarInfo(ctx context.Context, args map[string]any) (string, error) {
	carID, err := intArg(args, "car_id")
	if err != nil {
		return "", err
	}
	car, ok := r.store.CarByID(carID)
	if !ok {
		return "", fmt.Errorf("car ID %d not found", carID)
	}
	return marshalResult([]rental.Car{car})
}

func (r *Registry) handleShowCars(ctx context.Context, args map[string]any) (string, error) {
	return marshalResult(r.store.Cars())
}

func (r *Registry) handleCarSearch(ctx context.Context, args map[string]any) (string, error) {
	var opts rental.SearchOptions
	opts.CarName, _ = args["car_name"].(string)
	opts.CarType, _ = args["car_type"].(string)

	_, hasMin := args["min_price"]
	_, hasMax := args["max_price"]
	if hasMin || hasMax {
		opts.HasPrice = true
		opts.MaxPrice = 1 << 30
		if hasMin {
			v, err := floatArg(args, "min_price")
			if err != nil {
				return "", err
			}
			opts.MinPrice = v
		}
		if hasMax {
			v, err := floatArg(args, "max_price")
			if err != nil {
				return "", err
			}
			opts.MaxPrice = v
		}
	}

	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)
	if startStr != "" && endStr != "" {
		start, err := parseFlexibleDate(startStr)
		if err != nil {
			return "", err
		}
		end, err := parseFlexibleDate(endStr)
		if err != nil {
			return "", err
		}
		opts.HasDates = true
		opts.StartDate = start
		opts.EndDate = end
	}

	cars := r.store.SearchCars(opts)
	return marshalResult(map[string]any{"available_cars": cars})
}
