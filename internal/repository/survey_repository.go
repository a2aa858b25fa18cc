package repository

import (
	"context"

	"cloze-study-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SurveyRepository struct {
	Col *mongo.Collection
}

func NewSurveyRepository(db *mongo.Database) *SurveyRepository {
	return &SurveyRepository{Col: db.Collection("finalSurveys")}
}

// Upsert stores the survey keyed by participant id; resubmitting replaces
// the earlier answers.
func (r *SurveyRepository) Upsert(ctx context.Context, survey *models.FinalSurvey) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": survey.UserID}, survey, opts)
	return err
}

func (r *SurveyRepository) FindByUser(ctx context.Context, userID string) (*models.FinalSurvey, error) {
	var survey models.FinalSurvey
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&survey)
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *SurveyRepository) FindAll(ctx context.Context) ([]models.FinalSurvey, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var surveys []models.FinalSurvey
	for cur.Next(ctx) {
		var s models.FinalSurvey
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, nil
}
