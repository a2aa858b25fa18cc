package service

import (
	"context"
	"errors"
	"time"

	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/models"
	"cloze-study-service/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidResult = errors.New("invalid test result")

type ResultService struct {
	Repo *repository.ResultRepository
}

func NewResultService(repo *repository.ResultRepository) *ResultService {
	return &ResultService{Repo: repo}
}

// CreateResult validates and stores one completed test. Legacy method codes
// are normalized before the write so the stored collection stays canonical.
func (s *ResultService) CreateResult(ctx context.Context, result *models.TestResult) error {
	if result.UserID == "" || result.Method == "" || result.PassageID == 0 {
		return ErrInvalidResult
	}
	result.Method = methods.ConvertToStandard(result.Method)
	if !methods.IsValid(result.Method) {
		return ErrInvalidResult
	}

	if result.Answers == nil {
		result.Answers = map[string]string{}
	}
	if result.CorrectAnswers == nil {
		result.CorrectAnswers = map[string]string{}
	}
	if result.Annotations == nil {
		result.Annotations = map[string]string{}
	}

	result.ID = uuid.NewString()
	result.CreatedAt = time.Now()
	return s.Repo.Create(ctx, result)
}

func (s *ResultService) GetResultsByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	return s.Repo.FindByUser(ctx, userID)
}
