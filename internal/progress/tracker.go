// Package progress resolves a participant's current task and advances their
// position through the assigned test sequence.
package progress

import (
	"context"
	"errors"
	"strconv"
	"time"

	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantStore is the slice of participant persistence the tracker needs.
// Implementations return ErrParticipantNotFound when the record is absent.
type ParticipantStore interface {
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	UpdateProgress(ctx context.Context, id string, progress int) error
	SetEndTime(ctx context.Context, id string, endTime time.Time) error
}

// ResultStore reads the append-only test result collection.
type ResultStore interface {
	FindByUser(ctx context.Context, userID string) ([]models.TestResult, error)
}

// Completion policies.
const (
	PolicyCounter     = "counter"
	PolicyAnnotations = "annotations"
)

// TaskStatus is the answer to "what should this participant do next".
type TaskStatus struct {
	Complete bool         `json:"complete"`
	Task     *models.Task `json:"task,omitempty"`
}

// Stats summarizes a participant's position for the progress bar.
type Stats struct {
	CompletedTests     int     `json:"completed_tests"`
	TotalTests         int     `json:"total_tests"`
	ProgressPercentage float64 `json:"progress_percentage"`
	Complete           bool    `json:"complete"`
}

// Tracker advances participants through their assignment. It mutates only
// the progress counter and the end timestamp; it never touches results.
type Tracker struct {
	participants     ParticipantStore
	results          ResultStore
	policy           string
	annotationTarget int
	testsPerUser     int
}

func NewTracker(participants ParticipantStore, results ResultStore, policy string, annotationTarget, testsPerUser int) *Tracker {
	if policy != PolicyAnnotations {
		policy = PolicyCounter
	}
	return &Tracker{
		participants:     participants,
		results:          results,
		policy:           policy,
		annotationTarget: annotationTarget,
		testsPerUser:     testsPerUser,
	}
}

// CurrentTask resolves the participant's current test without mutating
// anything. Calling it repeatedly returns the same task.
func (t *Tracker) CurrentTask(ctx context.Context, participantID string) (*TaskStatus, error) {
	p, err := t.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	complete, err := t.isComplete(ctx, p, p.Progress)
	if err != nil {
		return nil, err
	}
	if complete {
		return &TaskStatus{Complete: true}, nil
	}

	task := resolveTask(p.AssignedPassages, p.AssignedMethods, p.Progress)
	return &TaskStatus{Complete: false, Task: &task}, nil
}

// Advance moves the participant one test forward. The completion predicate
// is evaluated against the new progress value; the end timestamp is stamped
// on the first advance that completes the participant and left alone after.
func (t *Tracker) Advance(ctx context.Context, participantID string) (*TaskStatus, error) {
	p, err := t.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	newProgress := p.Progress + 1
	if err := t.participants.UpdateProgress(ctx, participantID, newProgress); err != nil {
		return nil, err
	}

	complete, err := t.isComplete(ctx, p, newProgress)
	if err != nil {
		return nil, err
	}
	if complete {
		if p.EndTime == nil {
			if err := t.participants.SetEndTime(ctx, participantID, time.Now()); err != nil {
				return nil, err
			}
		}
		return &TaskStatus{Complete: true}, nil
	}

	task := resolveTask(p.AssignedPassages, p.AssignedMethods, newProgress)
	return &TaskStatus{Complete: false, Task: &task}, nil
}

// Stats reports completed/total counts for a participant.
func (t *Tracker) Stats(ctx context.Context, participantID string) (*Stats, error) {
	p, err := t.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	total := len(p.AssignedPassages)
	if total == 0 {
		total = t.testsPerUser
	}
	complete, err := t.isComplete(ctx, p, p.Progress)
	if err != nil {
		return nil, err
	}

	completed := p.Progress
	if completed > total {
		completed = total
	}
	return &Stats{
		CompletedTests:     completed,
		TotalTests:         total,
		ProgressPercentage: float64(completed) / float64(total) * 100,
		Complete:           complete,
	}, nil
}

// isComplete evaluates the configured completion predicate. Under the
// annotations policy the total is recomputed from the result store on every
// call so a stale count can never block completion.
func (t *Tracker) isComplete(ctx context.Context, p *models.Participant, progress int) (bool, error) {
	if t.policy == PolicyAnnotations {
		results, err := t.results.FindByUser(ctx, p.ID)
		if err != nil {
			return false, err
		}
		return CountAnnotations(results) >= t.annotationTarget, nil
	}

	n := len(p.AssignedPassages)
	if n == 0 {
		n = t.testsPerUser
	}
	return progress >= n, nil
}

// resolveTask returns the (passage, method) pair at the progress index,
// clamping out-of-range indexes to the last valid task and normalizing
// legacy method codes. Missing assignment arrays yield the default task.
func resolveTask(passages []int, assigned []string, progress int) models.Task {
	if len(passages) == 0 || len(assigned) == 0 {
		return models.Task{PassageID: 1, Method: methods.Contextuality}
	}

	if progress < 0 {
		progress = 0
	}
	last := len(passages) - 1
	if len(assigned)-1 < last {
		last = len(assigned) - 1
	}
	if progress > last {
		progress = last
	}

	return models.Task{
		PassageID: passages[progress],
		Method:    methods.ConvertToStandard(assigned[progress]),
	}
}

// CountAnnotations sums the valid annotation entries across a participant's
// results. Only keys that parse as non-negative integers with values from
// the fixed category set count; malformed entries are skipped, not errors.
func CountAnnotations(results []models.TestResult) int {
	total := 0
	for _, r := range results {
		for key, value := range r.Annotations {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				continue
			}
			if !models.ValidAnnotationSources[value] {
				continue
			}
			total++
		}
	}
	return total
}
