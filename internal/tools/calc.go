package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

func (r *Registry) registerCalcTools() {
	r.Register(&Tool{
		Name: "calculator",
		Description: "Performs basic arithmetic calculations to help with price calculations and other " +
			"numerical tasks related to car rentals. Valid operations are 'add', 'subtract', " +
			"'multiply', and 'divide'. Example: calculator('multiply', 30.0, 7) returns 210 for a " +
			"7-day rental at 30 per day.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type":        "string",
					"description": "One of 'add', 'subtract', 'multiply', 'divide'.",
				},
				"num1": map[string]any{
					"type":        "number",
					"description": "The first number in the calculation.",
				},
				"num2": map[string]any{
					"type":        "number",
					"description": "The second number in the calculation.",
				},
			},
			"required": []string{"operation", "num1", "num2"},
		},
		Handler: handleCalculator,
	})

	r.Register(&Tool{
		Name: "dates_calculator",
		Description: "Performs date calculations to help manage rental periods. Valid operations: " +
			"'duration' (days from start_date to today), 'add_days' (date after adding days to " +
			"start_date), 'subtract_days' (date after subtracting days), 'days_between' (days from " +
			"start_date to end_date). All dates use dd/mm/YYYY format.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type":        "string",
					"description": "One of 'duration', 'add_days', 'subtract_days', 'days_between'.",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "The reference date in dd/mm/YYYY format.",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "The end date in dd/mm/YYYY format. Required for 'days_between'.",
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of days to add or subtract. Required for 'add_days' and 'subtract_days'.",
				},
			},
			"required": []string{"operation", "start_date"},
		},
		Handler: handleDatesCalculator,
	})
}

// Calculator failures are reported in the result payload rather than
// as tool errors, so the model can correct its operands without the
// retry penalty.
func handleCalculator(ctx context.Context, args map[string]any) (string, error) {
	op, err := stringArg(args, "operation")
	if err != nil {
		return "", err
	}
	num1, err := floatArg(args, "num1")
	if err != nil {
		return "", err
	}
	num2, err := floatArg(args, "num2")
	if err != nil {
		return "", err
	}

	var result float64
	switch op {
	case "add":
		result = num1 + num2
	case "subtract":
		result = num1 - num2
	case "multiply":
		result = num1 * num2
	case "divide":
		if num2 == 0 {
			return marshalResult(map[string]any{"error": "Division by zero is not allowed."})
		}
		result = num1 / num2
	default:
		return marshalResult(map[string]any{
			"error": fmt.Sprintf("Invalid operation '%s'. Valid operations are add, subtract, multiply, divide.", op),
		})
	}
	return marshalResult(map[string]any{"result": result})
}

func handleDatesCalculator(ctx context.Context, args map[string]any) (string, error) {
	op, err := stringArg(args, "operation")
	if err != nil {
		return "", err
	}
	startStr, err := stringArg(args, "start_date")
	if err != nil {
		return "", err
	}
	start, err := time.Parse(rental.DateLayout, startStr)
	if err != nil {
		return marshalResult(map[string]any{"error": fmt.Sprintf("Date format error: %v", err)})
	}

	switch op {
	case "duration":
		days := int(time.Since(start).Hours() / 24)
		return marshalResult(map[string]any{"result": days})

	case "add_days":
		days, err := intArg(args, "days")
		if err != nil {
			return marshalResult(map[string]any{"error": "The 'days' argument is required for 'add_days' operation."})
		}
		return marshalResult(map[string]any{"result": rental.FormatDate(start.AddDate(0, 0, days))})

	case "subtract_days":
		days, err := intArg(args, "days")
		if err != nil {
			return marshalResult(map[string]any{"error": "The 'days' argument is required for 'subtract_days' operation."})
		}
		return marshalResult(map[string]any{"result": rental.FormatDate(start.AddDate(0, 0, -days))})

	case "days_between":
		endStr, err := stringArg(args, "end_date")
		if err != nil {
			return marshalResult(map[string]any{"error": "The 'end_date' argument is required for 'days_between' operation."})
		}
		end, err := time.Parse(rental.DateLayout, endStr)
		if err != nil {
			return marshalResult(map[string]any{"error": fmt.Sprintf("Date format error: %v", err)})
		}
		days := int(end.Sub(start).Hours() / 24)
		return marshalResult(map[string]any{"result": days})

	default:
		return marshalResult(map[string]any{
			"error": fmt.Sprintf("Invalid operation '%s'. Valid operations are 'duration', 'add_days', 'subtract_days', and 'days_between'.", op),
		})
	}
}
