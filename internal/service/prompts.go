package service

import (
	"bytes"
	"text/template"
)

var workoutPromptTmpl = template.Must(template.New("workout").Parse(`You are an experienced fitness coach creating a personalized workout plan based on:
Age: {{.Age}}
Height: {{.Height}}
Weight: {{.Weight}}
Injuries or limitations: {{.Injuries}}
Available days for workout: {{.WorkoutDays}}
Fitness goal: {{.FitnessGoal}}
Fitness level: {{.FitnessLevel}}

As a professional coach:
- Split muscle groups so the same muscles are not trained on consecutive days
- Pick exercises that match the fitness level and work around any injuries
- Structure the workouts around the fitness goal

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "sets" and "reps" MUST ALWAYS be NUMBERS, never strings
- For example: "sets": 3, "reps": 10
- Do NOT use text like "reps": "As many as possible" or "reps": "To failure"
- For cardio, use "sets": 1, "reps": 1 or another appropriate number
- NEVER add extra fields not shown in the example below

Return a JSON object with this EXACT structure:
{
  "schedule": ["Monday", "Wednesday", "Friday"],
  "exercises": [
    {
      "day": "Monday",
      "routines": [
        {
          "name": "Exercise Name",
          "sets": 3,
          "reps": 10
        }
      ]
    }
  ]
}

Your response must be a valid JSON object with no additional text.`))

var dietPromptTmpl = template.Must(template.New("diet").Parse(`You are an experienced nutrition coach creating a personalized diet plan based on:
Age: {{.Age}}
Height: {{.Height}}
Weight: {{.Weight}}
Fitness goal: {{.FitnessGoal}}
Dietary restrictions: {{.DietaryRestrictions}}

As a professional nutrition coach:
- Calculate an appropriate daily calorie intake from the person's stats and goal
- Create a balanced meal plan with a sound macronutrient distribution
- Use a variety of nutrient-dense foods that respect the dietary restrictions
- Time meals around training sessions for performance and recovery

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "dailyCalories" MUST be a NUMBER, not a string
- DO NOT add fields like "supplements", "macros", "notes", or ANYTHING else
- Each meal should include ONLY a "name" and "foods" array

Return a JSON object with this EXACT structure and no other fields:
{
  "dailyCalories": 2000,
  "meals": [
    {
      "name": "Breakfast",
      "foods": ["Oatmeal with berries", "Greek yogurt", "Black coffee"]
    },
    {
      "name": "Lunch",
      "foods": ["Grilled chicken salad", "Whole grain bread", "Water"]
    }
  ]
}

Your response must be a valid JSON object with no additional text.`))

func buildWorkoutPrompt(input GenerateProgramInput) string {
	return render(workoutPromptTmpl, input)
}

func buildDietPrompt(input GenerateProgramInput) string {
	return render(dietPromptTmpl, input)
}

// render executes a prompt template. The templates only read string fields of
// GenerateProgramInput, so execution cannot fail.
func render(t *template.Template, input GenerateProgramInput) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, input); err != nil {
		panic(err)
	}
	return buf.String()
}
