package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a generated fitness program: one workout plan plus one diet plan.
// A user may own many plans but at most one of them is active.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"` // Clerk ID of the owner
	Name        string             `bson:"name" json:"name"`     // e.g. "strength Plan - 10/19/2026"
	IsActive    bool               `bson:"isActive" json:"isActive"`
	WorkoutPlan WorkoutPlan        `bson:"workoutPlan" json:"workoutPlan"`
	DietPlan    DietPlan           `bson:"dietPlan" json:"dietPlan"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutPlan is the weekly schedule and the routines for each training day.
type WorkoutPlan struct {
	Schedule  []string      `bson:"schedule" json:"schedule"` // Weekday names, in order
	Exercises []ExerciseDay `bson:"exercises" json:"exercises"`
}

// ExerciseDay groups the routines performed on one day of the schedule.
type ExerciseDay struct {
	Day      string    `bson:"day" json:"day"`
	Routines []Routine `bson:"routines" json:"routines"`
}

// Routine is a single exercise prescription. Sets and Reps are always >= 1.
type Routine struct {
	Name        string `bson:"name" json:"name"`
	Sets        int    `bson:"sets" json:"sets"`
	Reps        int    `bson:"reps" json:"reps"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// DietPlan is the daily calorie target and the meals that make it up.
type DietPlan struct {
	DailyCalories int    `bson:"dailyCalories" json:"dailyCalories"`
	Meals         []Meal `bson:"meals" json:"meals"`
}

// Meal lists the foods eaten at one sitting.
type Meal struct {
	Name  string   `bson:"name" json:"name"`
	Foods []string `bson:"foods" json:"foods"`
}
