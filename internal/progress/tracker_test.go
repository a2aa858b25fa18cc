package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloze-study-service/internal/models"
)

type fakeParticipants struct {
	records       map[string]*models.Participant
	endTimeWrites int
	updateErr     error
}

func newFakeParticipants(ps ...*models.Participant) *fakeParticipants {
	f := &fakeParticipants{records: map[string]*models.Participant{}}
	for _, p := range ps {
		f.records[p.ID] = p
	}
	return f
}

func (f *fakeParticipants) FindByID(_ context.Context, id string) (*models.Participant, error) {
	p, ok := f.records[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParticipants) UpdateProgress(_ context.Context, id string, progress int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.records[id]
	if !ok {
		return ErrParticipantNotFound
	}
	p.Progress = progress
	return nil
}

func (f *fakeParticipants) SetEndTime(_ context.Context, id string, endTime time.Time) error {
	p, ok := f.records[id]
	if !ok {
		return ErrParticipantNotFound
	}
	p.EndTime = &endTime
	f.endTimeWrites++
	return nil
}

type fakeResults struct {
	results []models.TestResult
	err     error
}

func (f *fakeResults) FindByUser(context.Context, string) ([]models.TestResult, error) {
	return f.results, f.err
}

func standardParticipant() *models.Participant {
	return &models.Participant{
		ID:               "p1",
		AssignedPassages: []int{4, 12, 9},
		AssignedMethods:  []string{"keyword", "contextuality", "contextuality_plus"},
		Progress:         0,
		StartTime:        time.Now(),
	}
}

func TestCurrentTaskResolvesAndIsIdempotent(t *testing.T) {
	store := newFakeParticipants(standardParticipant())
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)

	first, err := tracker.CurrentTask(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Complete {
		t.Fatal("Expected incomplete participant")
	}
	if first.Task.PassageID != 4 || first.Task.Method != "keyword" {
		t.Errorf("Expected task (4, keyword), got (%d, %s)", first.Task.PassageID, first.Task.Method)
	}

	second, err := tracker.CurrentTask(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if *second.Task != *first.Task {
		t.Errorf("CurrentTask not idempotent: %+v then %+v", first.Task, second.Task)
	}
}

func TestAdvanceThroughFullSequence(t *testing.T) {
	store := newFakeParticipants(standardParticipant())
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)
	ctx := context.Background()

	next, err := tracker.Advance(ctx, "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if next.Complete {
		t.Fatal("Expected next task after first advance")
	}
	if next.Task.PassageID != 12 || next.Task.Method != "contextuality" {
		t.Errorf("Expected (12, contextuality), got (%d, %s)", next.Task.PassageID, next.Task.Method)
	}
	if store.records["p1"].Progress != 1 {
		t.Errorf("Expected persisted progress 1, got %d", store.records["p1"].Progress)
	}

	if _, err := tracker.Advance(ctx, "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	final, err := tracker.Advance(ctx, "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !final.Complete {
		t.Fatal("Expected completion after three advances")
	}
	if store.records["p1"].EndTime == nil {
		t.Fatal("Expected end time to be stamped on completion")
	}

	status, err := tracker.CurrentTask(ctx, "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !status.Complete {
		t.Error("Expected CurrentTask to report completion")
	}
}

func TestAdvanceStampsEndTimeOnce(t *testing.T) {
	store := newFakeParticipants(standardParticipant())
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := tracker.Advance(ctx, "p1"); err != nil {
			t.Fatalf("Advance %d failed: %v", i, err)
		}
	}

	if store.endTimeWrites != 1 {
		t.Errorf("Expected exactly one end time write, got %d", store.endTimeWrites)
	}
	if store.records["p1"].Progress != 5 {
		t.Errorf("Progress must keep incrementing, got %d", store.records["p1"].Progress)
	}
}

func TestCurrentTaskClampsCorruptedProgress(t *testing.T) {
	testCases := []struct {
		name     string
		progress int
		policy   string
		wantID   int
		wantM    string
	}{
		{"progress past bounds under annotations policy", 10, PolicyAnnotations, 9, "contextuality_plus"},
		{"negative progress", -2, PolicyCounter, 4, "keyword"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := standardParticipant()
			p.Progress = tc.progress
			store := newFakeParticipants(p)
			tracker := NewTracker(store, &fakeResults{}, tc.policy, 6, 3)

			status, err := tracker.CurrentTask(context.Background(), "p1")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if status.Complete {
				t.Fatal("Expected a task, not completion")
			}
			if status.Task.PassageID != tc.wantID || status.Task.Method != tc.wantM {
				t.Errorf("Expected (%d, %s), got (%d, %s)", tc.wantID, tc.wantM, status.Task.PassageID, status.Task.Method)
			}
		})
	}
}

func TestCurrentTaskNormalizesLegacyMethods(t *testing.T) {
	p := standardParticipant()
	p.AssignedMethods = []string{"A", "B", "C"}
	store := newFakeParticipants(p)
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)

	status, err := tracker.CurrentTask(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if status.Task.Method != "contextuality" {
		t.Errorf("Expected legacy 'A' normalized to 'contextuality', got %q", status.Task.Method)
	}
}

func TestCurrentTaskDefaultsWhenAssignmentMissing(t *testing.T) {
	p := &models.Participant{ID: "p1", Progress: 0}
	store := newFakeParticipants(p)
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)

	status, err := tracker.CurrentTask(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if status.Complete {
		t.Fatal("Expected the default task")
	}
	if status.Task.PassageID != 1 || status.Task.Method != "contextuality" {
		t.Errorf("Expected default task (1, contextuality), got (%d, %s)", status.Task.PassageID, status.Task.Method)
	}
}

func TestParticipantNotFound(t *testing.T) {
	store := newFakeParticipants()
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)

	if _, err := tracker.CurrentTask(context.Background(), "ghost"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("CurrentTask: expected ErrParticipantNotFound, got %v", err)
	}
	if _, err := tracker.Advance(context.Background(), "ghost"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("Advance: expected ErrParticipantNotFound, got %v", err)
	}
}

func TestAnnotationPolicyCompletion(t *testing.T) {
	p := standardParticipant()
	p.Progress = 2
	store := newFakeParticipants(p)
	results := &fakeResults{results: []models.TestResult{
		{UserID: "p1", Annotations: map[string]string{"0": "sentence", "1": "passage", "2": "source"}},
		{UserID: "p1", Annotations: map[string]string{"0": "unpredictable", "1": "sentence", "2": "passage", "3": "source"}},
	}}
	tracker := NewTracker(store, results, PolicyAnnotations, 6, 3)

	status, err := tracker.CurrentTask(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !status.Complete {
		t.Error("Expected annotation total 7 >= target 6 to complete the participant")
	}
}

func TestAnnotationPolicyPropagatesStoreErrors(t *testing.T) {
	store := newFakeParticipants(standardParticipant())
	results := &fakeResults{err: errors.New("backend unavailable")}
	tracker := NewTracker(store, results, PolicyAnnotations, 6, 3)

	if _, err := tracker.CurrentTask(context.Background(), "p1"); err == nil {
		t.Error("Expected result store errors to propagate, not be swallowed")
	}
}

func TestCountAnnotations(t *testing.T) {
	testCases := []struct {
		name    string
		results []models.TestResult
		want    int
	}{
		{"no results", nil, 0},
		{"nil annotation map", []models.TestResult{{}}, 0},
		{
			"all valid",
			[]models.TestResult{{Annotations: map[string]string{"0": "sentence", "1": "passage"}}},
			2,
		},
		{
			"malformed keys excluded",
			[]models.TestResult{{Annotations: map[string]string{"x": "sentence", "-1": "passage", "2": "source"}}},
			1,
		},
		{
			"unknown categories excluded",
			[]models.TestResult{{Annotations: map[string]string{"0": "vibes", "1": "sentence"}}},
			1,
		},
		{
			"summed across results",
			[]models.TestResult{
				{Annotations: map[string]string{"0": "sentence", "1": "passage", "2": "source"}},
				{Annotations: map[string]string{"0": "unpredictable"}},
			},
			4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountAnnotations(tc.results); got != tc.want {
				t.Errorf("CountAnnotations = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	p := standardParticipant()
	p.Progress = 2
	store := newFakeParticipants(p)
	tracker := NewTracker(store, &fakeResults{}, PolicyCounter, 6, 3)

	stats, err := tracker.Stats(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.CompletedTests != 2 || stats.TotalTests != 3 {
		t.Errorf("Expected 2/3, got %d/%d", stats.CompletedTests, stats.TotalTests)
	}
	if stats.Complete {
		t.Error("Expected incomplete")
	}
	if stats.ProgressPercentage < 66 || stats.ProgressPercentage > 67 {
		t.Errorf("Expected ~66.7%%, got %f", stats.ProgressPercentage)
	}
}
