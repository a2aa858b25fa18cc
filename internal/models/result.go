package models

import "time"

// TestResult is one completed cloze test. The collection is append-only:
// results are inserted once and never updated by this service.
//
// Answers and Annotations are keyed by gap index ("0", "1", ...). Annotation
// values name the information source the participant used to fill the gap.
type TestResult struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	UserID         string            `bson:"user_id" json:"user_id"`
	Method         string            `bson:"method" json:"method"`
	PassageID      int               `bson:"passage_id" json:"passage_id"`
	Score          float64           `bson:"score" json:"score"`
	TimeSpent      float64           `bson:"time_spent" json:"time_spent"`
	Answers        map[string]string `bson:"answers" json:"answers"`
	CorrectAnswers map[string]string `bson:"correct_answers" json:"correct_answers"`
	Annotations    map[string]string `bson:"annotations" json:"annotations"`
	HolisticScore  float64           `bson:"holistic_score" json:"holistic_score"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
}

// Annotation information source categories.
const (
	SourceSentence      = "sentence"
	SourcePassage       = "passage"
	SourceSource        = "source"
	SourceUnpredictable = "unpredictable"
)

// ValidAnnotationSources is the closed set of annotation categories that
// count toward the annotation completion threshold.
var ValidAnnotationSources = map[string]bool{
	SourceSentence:      true,
	SourcePassage:       true,
	SourceSource:        true,
	SourceUnpredictable: true,
}
