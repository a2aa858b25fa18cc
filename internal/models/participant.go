package models

import "time"

type Demographics struct {
	Age                string `bson:"age,omitempty" json:"age,omitempty"`
	Gender             string `bson:"gender,omitempty" json:"gender,omitempty"`
	Education          string `bson:"education,omitempty" json:"education,omitempty"`
	EnglishProficiency string `bson:"english_proficiency,omitempty" json:"english_proficiency,omitempty"`
	ReadingFrequency   string `bson:"reading_frequency,omitempty" json:"reading_frequency,omitempty"`
}

// Participant is one registered study subject. The document id is the
// participant id assigned by the external auth provider, not an ObjectID.
type Participant struct {
	ID               string       `bson:"_id" json:"id"`
	Email            string       `bson:"email,omitempty" json:"email,omitempty"`
	DisplayName      string       `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Demographics     Demographics `bson:"demographics,omitempty" json:"demographics,omitempty"`
	AssignedPassages []int        `bson:"assigned_passages" json:"assigned_passages"`
	AssignedMethods  []string     `bson:"assigned_methods" json:"assigned_methods"`
	Progress         int          `bson:"progress" json:"progress"`
	StartTime        time.Time    `bson:"start_time" json:"start_time"`
	EndTime          *time.Time   `bson:"end_time,omitempty" json:"end_time,omitempty"`
}

// Task is the derived (passage, method) pairing at one index of the
// participant's assignment arrays. It is never stored.
type Task struct {
	PassageID int    `json:"passage_id"`
	Method    string `json:"method"`
}
