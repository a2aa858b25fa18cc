package models

import "time"

// FinalSurvey is the ranking survey a participant fills in after their last
// test. One document per participant, keyed by user id.
type FinalSurvey struct {
	UserID        string    `bson:"_id" json:"user_id"`
	MethodRanking []string  `bson:"method_ranking" json:"method_ranking"`
	MostEngaging  string    `bson:"most_engaging" json:"most_engaging"`
	MostHelpful   string    `bson:"most_helpful" json:"most_helpful"`
	Feedback      string    `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
