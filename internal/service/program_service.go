package service

import (
	"alcyxob/fitness-program/internal/ai"
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/metrics"
	"alcyxob/fitness-program/internal/repository"
	"alcyxob/fitness-program/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrUserIDRequired = errors.New("user_id is required")
	ErrAIRequest      = errors.New("generative model request failed")
	ErrPlanNotFound   = errors.New("plan not found")
)

const planNameDateLayout = "1/2/2006"

// GenerateProgramInput holds the user's answers collected by the voice assistant.
// Every attribute is free text and is interpolated into the prompts as given.
type GenerateProgramInput struct {
	UserID              string
	Age                 string
	Height              string
	Weight              string
	Injuries            string
	WorkoutDays         string
	FitnessGoal         string
	FitnessLevel        string
	DietaryRestrictions string
}

// GenerateProgramResult is what a successful generation returns to the caller.
type GenerateProgramResult struct {
	PlanID      string             `json:"planId"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
}

// ProgramConfig carries the generation settings shared by both model calls.
type ProgramConfig struct {
	SystemInstruction string
	Temperature       float32
	TopP              float32
	Timeout           time.Duration    // Bounds both model calls together; zero disables
	Now               func() time.Time // Clock used for the plan name; defaults to time.Now
}

// ProgramService generates, persists and reads fitness programs.
type ProgramService interface {
	// GenerateProgram asks the model for a workout and a diet plan, validates both
	// and stores them as the user's only active plan.
	GenerateProgram(ctx context.Context, input GenerateProgramInput) (*GenerateProgramResult, error)
	// GetUserPlans lists every plan of the user, newest first.
	GetUserPlans(ctx context.Context, userID string) ([]domain.Plan, error)
	// GetActivePlan returns the user's active plan or ErrPlanNotFound.
	GetActivePlan(ctx context.Context, userID string) (*domain.Plan, error)
}

// programService implements the ProgramService interface.
type programService struct {
	planRepo repository.PlanRepository
	provider ai.Provider
	archive  storage.FileStorage
	cfg      ProgramConfig
	log      zerolog.Logger
}

// NewProgramService creates a new instance of programService.
// archive may be nil, in which case raw model output is not kept.
func NewProgramService(
	planRepo repository.PlanRepository,
	provider ai.Provider,
	archive storage.FileStorage,
	cfg ProgramConfig,
	log zerolog.Logger,
) ProgramService {
	if archive == nil {
		archive = storage.NoopStorage{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &programService{
		planRepo: planRepo,
		provider: provider,
		archive:  archive,
		cfg:      cfg,
		log:      log.With().Str("component", "program").Logger(),
	}
}

// GenerateProgram runs both model calls concurrently. Either call failing, or
// either answer not being a JSON object, aborts the request before anything
// is written.
func (s *programService) GenerateProgram(ctx context.Context, input GenerateProgramInput) (*GenerateProgramResult, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrUserIDRequired
	}
	log := s.log.With().Str("user_id", input.UserID).Logger()

	callCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var workoutText, dietText string
	g, gctx := errgroup.WithContext(callCtx)
	g.Go(func() error {
		text, err := s.generate(gctx, "workout", buildWorkoutPrompt(input))
		workoutText = text
		return err
	})
	g.Go(func() error {
		text, err := s.generate(gctx, "diet", buildDietPrompt(input))
		dietText = text
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("program generation failed")
		metrics.RecordGeneration("ai_error")
		return nil, err
	}

	rawWorkout, err := DecodePlanJSON(workoutText)
	if err != nil {
		log.Error().Err(err).Str("kind", "workout").Msg("unparseable model output")
		metrics.RecordGeneration("malformed")
		return nil, fmt.Errorf("workout plan: %w", err)
	}
	rawDiet, err := DecodePlanJSON(dietText)
	if err != nil {
		log.Error().Err(err).Str("kind", "diet").Msg("unparseable model output")
		metrics.RecordGeneration("malformed")
		return nil, fmt.Errorf("diet plan: %w", err)
	}

	plan := &domain.Plan{
		UserID:      input.UserID,
		Name:        fmt.Sprintf("%s Plan - %s", input.FitnessGoal, s.cfg.Now().Format(planNameDateLayout)),
		WorkoutPlan: ValidateWorkoutPlan(rawWorkout),
		DietPlan:    ValidateDietPlan(rawDiet),
	}

	planID, err := s.planRepo.CreateActive(ctx, plan)
	if err != nil {
		log.Error().Err(err).Msg("failed to save plan")
		metrics.RecordGeneration("store_error")
		return nil, fmt.Errorf("save plan: %w", err)
	}

	s.archiveResponses(ctx, input.UserID, planID.Hex(), workoutText, dietText)

	log.Info().Str("plan_id", planID.Hex()).Str("model", s.provider.ModelName()).Msg("plan generated")
	metrics.RecordGeneration("success")
	return &GenerateProgramResult{
		PlanID:      planID.Hex(),
		WorkoutPlan: plan.WorkoutPlan,
		DietPlan:    plan.DietPlan,
	}, nil
}

func (s *programService) generate(ctx context.Context, kind, prompt string) (string, error) {
	start := time.Now()
	text, err := s.provider.Generate(ctx, ai.Request{
		SystemInstruction: s.cfg.SystemInstruction,
		Prompt:            prompt,
		Temperature:       s.cfg.Temperature,
		TopP:              s.cfg.TopP,
		JSON:              true,
	})
	metrics.ObserveAICall(kind, err == nil, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%w: %s plan: %v", ErrAIRequest, kind, err)
	}
	return text, nil
}

// archiveResponses keeps the raw model output next to the plan id. Failures are
// logged only; the plan is already saved.
func (s *programService) archiveResponses(ctx context.Context, userID, planID, workoutText, dietText string) {
	for kind, body := range map[string]string{"workout": workoutText, "diet": dietText} {
		key := storage.GenerationObjectKey(userID, planID, kind)
		if err := s.archive.PutObject(ctx, key, "application/json", []byte(body)); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to archive model output")
		}
	}
}

func (s *programService) GetUserPlans(ctx context.Context, userID string) ([]domain.Plan, error) {
	plans, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *programService) GetActivePlan(ctx context.Context, userID string) (*domain.Plan, error) {
	plan, err := s.planRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get active plan: %w", err)
	}
	return plan, nil
}
