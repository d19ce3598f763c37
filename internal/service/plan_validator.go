package service

import (
	"alcyxob/fitness-program/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Defaults substituted when the model's sets/reps cannot be read as a positive integer.
const (
	DefaultSets = 1
	DefaultReps = 10
)

// ErrMalformedUpstreamResponse is returned when model output is not a JSON object.
var ErrMalformedUpstreamResponse = errors.New("model response is not a valid JSON object")

// DecodePlanJSON parses model output into a generic object. Failure is fatal
// for the request: no repair of fenced or truncated output is attempted.
func DecodePlanJSON(text string) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpstreamResponse, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T", ErrMalformedUpstreamResponse, raw)
	}
	return obj, nil
}

// ValidateWorkoutPlan projects raw model output onto the workout schema.
// Only schedule, exercises[].day and exercises[].routines[].{name,sets,reps,description}
// survive; sets and reps are coerced to positive integers.
func ValidateWorkoutPlan(raw map[string]any) domain.WorkoutPlan {
	plan := domain.WorkoutPlan{
		Schedule:  stringSlice(raw["schedule"]),
		Exercises: []domain.ExerciseDay{},
	}

	for _, item := range objectSlice(raw["exercises"]) {
		day := domain.ExerciseDay{
			Day:      stringValue(item["day"]),
			Routines: []domain.Routine{},
		}
		for _, r := range objectSlice(item["routines"]) {
			day.Routines = append(day.Routines, domain.Routine{
				Name:        stringValue(r["name"]),
				Sets:        coerceInt(r["sets"], DefaultSets),
				Reps:        coerceInt(r["reps"], DefaultReps),
				Description: stringValue(r["description"]),
			})
		}
		plan.Exercises = append(plan.Exercises, day)
	}
	return plan
}

// ValidateDietPlan projects raw model output onto the diet schema.
// dailyCalories gets the same integer coercion as sets/reps, with 0 as "unknown".
func ValidateDietPlan(raw map[string]any) domain.DietPlan {
	plan := domain.DietPlan{
		DailyCalories: coerceInt(raw["dailyCalories"], 0),
		Meals:         []domain.Meal{},
	}
	for _, m := range objectSlice(raw["meals"]) {
		plan.Meals = append(plan.Meals, domain.Meal{
			Name:  stringValue(m["name"]),
			Foods: stringSlice(m["foods"]),
		})
	}
	return plan
}

// coerceInt reads v as a positive integer. Numbers are truncated, strings are
// read like JavaScript parseInt (leading integer prefix). Anything else, or a
// result below 1, yields def.
func coerceInt(v any, def int) int {
	var n int
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val > math.MaxInt32 {
			return def
		}
		n = int(val)
	case string:
		parsed, ok := parseLeadingInt(val)
		if !ok {
			return def
		}
		n = parsed
	default:
		return def
	}
	if n < 1 {
		return def
	}
	return n
}

// parseLeadingInt mirrors parseInt(s, 10): skip leading whitespace, accept an
// optional sign, then consume decimal digits. "8-12" -> 8, "to failure" -> false.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// stringSlice keeps the string elements of a JSON array, in order.
func stringSlice(v any) []string {
	out := []string{}
	items, _ := v.([]any)
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// objectSlice keeps the object elements of a JSON array, in order.
func objectSlice(v any) []map[string]any {
	var out []map[string]any
	items, _ := v.([]any)
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
