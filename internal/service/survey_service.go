package service

import (
	"context"
	"errors"
	"time"

	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/models"
	"cloze-study-service/internal/repository"
)

var ErrInvalidSurvey = errors.New("invalid survey")

type SurveyService struct {
	Repo *repository.SurveyRepository
}

func NewSurveyService(repo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{Repo: repo}
}

// SubmitSurvey validates the ranking and stores the survey, replacing any
// earlier submission by the same participant.
func (s *SurveyService) SubmitSurvey(ctx context.Context, survey *models.FinalSurvey) error {
	if survey.UserID == "" {
		return ErrInvalidSurvey
	}
	if len(survey.MethodRanking) != len(methods.All) {
		return ErrInvalidSurvey
	}
	seen := map[string]bool{}
	for i, m := range survey.MethodRanking {
		canonical := methods.ConvertToStandard(m)
		if !methods.IsValid(canonical) || seen[canonical] {
			return ErrInvalidSurvey
		}
		seen[canonical] = true
		survey.MethodRanking[i] = canonical
	}
	survey.MostEngaging = methods.ConvertToStandard(survey.MostEngaging)
	survey.MostHelpful = methods.ConvertToStandard(survey.MostHelpful)

	survey.CreatedAt = time.Now()
	return s.Repo.Upsert(ctx, survey)
}

func (s *SurveyService) GetSurvey(ctx context.Context, userID string) (*models.FinalSurvey, error) {
	return s.Repo.FindByUser(ctx, userID)
}
