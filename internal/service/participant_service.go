package service

import (
	"context"
	"errors"
	"time"

	"cloze-study-service/internal/assignment"
	"cloze-study-service/internal/models"
	"cloze-study-service/internal/progress"
	"cloze-study-service/internal/repository"
)

type RegisterRequest struct {
	UserID       string              `json:"user_id" binding:"required"`
	Email        string              `json:"email"`
	DisplayName  string              `json:"display_name"`
	Demographics models.Demographics `json:"demographics"`
}

// ParticipantService owns the participant lifecycle: registration with a
// counterbalanced assignment, task resolution and advancement.
type ParticipantService struct {
	Repo      *repository.ParticipantRepository
	Generator *assignment.Generator
	Tracker   *progress.Tracker
}

func NewParticipantService(repo *repository.ParticipantRepository, gen *assignment.Generator, tracker *progress.Tracker) *ParticipantService {
	return &ParticipantService{Repo: repo, Generator: gen, Tracker: tracker}
}

// Register creates the participant document with a fresh assignment and
// progress 0. Registering an id that already exists returns the stored
// record unchanged rather than reassigning. The returned bool reports
// whether a new record was created.
func (s *ParticipantService) Register(ctx context.Context, req *RegisterRequest) (*models.Participant, bool, error) {
	existing, err := s.Repo.FindByID(ctx, req.UserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, progress.ErrParticipantNotFound) {
		return nil, false, err
	}

	passages, assigned := s.Generator.Generate(ctx)
	p := &models.Participant{
		ID:               req.UserID,
		Email:            req.Email,
		DisplayName:      req.DisplayName,
		Demographics:     req.Demographics,
		AssignedPassages: passages,
		AssignedMethods:  assigned,
		Progress:         0,
		StartTime:        time.Now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *ParticipantService) Get(ctx context.Context, id string) (*models.Participant, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ParticipantService) CurrentTask(ctx context.Context, id string) (*progress.TaskStatus, error) {
	return s.Tracker.CurrentTask(ctx, id)
}

func (s *ParticipantService) Advance(ctx context.Context, id string) (*progress.TaskStatus, error) {
	return s.Tracker.Advance(ctx, id)
}

func (s *ParticipantService) Stats(ctx context.Context, id string) (*progress.Stats, error) {
	return s.Tracker.Stats(ctx, id)
}

// ForceAssignment overwrites an existing participant's assignment arrays.
func (s *ParticipantService) ForceAssignment(ctx context.Context, id string, passages []int, assignedMethods []string) error {
	if _, err := s.Repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.Generator.ForceAssignment(ctx, s.Repo, id, passages, assignedMethods)
}
