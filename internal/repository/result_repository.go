package repository

import (
	"context"

	"cloze-study-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("testResults")}
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.TestResult
	for cur.Next(ctx) {
		var res models.TestResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ResultRepository) FindAll(ctx context.Context) ([]models.TestResult, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.TestResult
	for cur.Next(ctx) {
		var res models.TestResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *ResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	_, err := r.Col.InsertOne(ctx, result)
	return err
}
