package repository

import (
	"context"
	"errors"
	"time"

	"cloze-study-service/internal/models"
	"cloze-study-service/internal/progress"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ParticipantRepository struct {
	Col *mongo.Collection
}

func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{Col: db.Collection("users")}
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	var p models.Participant
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, progress.ErrParticipantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	_, err := r.Col.InsertOne(ctx, p)
	return err
}

func (r *ParticipantRepository) Count(ctx context.Context) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{})
}

func (r *ParticipantRepository) FindAll(ctx context.Context) ([]models.Participant, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var participants []models.Participant
	for cur.Next(ctx) {
		var p models.Participant
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func (r *ParticipantRepository) UpdateProgress(ctx context.Context, id string, prog int) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"progress": prog}})
	return err
}

func (r *ParticipantRepository) SetEndTime(ctx context.Context, id string, endTime time.Time) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"end_time": endTime}})
	return err
}

func (r *ParticipantRepository) SetAssignment(ctx context.Context, id string, passages []int, assignedMethods []string) error {
	update := bson.M{"$set": bson.M{
		"assigned_passages": passages,
		"assigned_methods":  assignedMethods,
	}}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
