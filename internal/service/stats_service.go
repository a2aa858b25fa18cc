package service

import (
	"context"
	"sort"
	"strings"

	"cloze-study-service/internal/assignment"
	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/repository"
)

type CompletionBuckets struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Distribution reports how evenly passages and method rotations are spread
// across the registered population.
type Distribution struct {
	TotalParticipants int               `json:"total_participants"`
	PassageCounts     map[int]int       `json:"passage_counts"`
	MethodRotations   []int             `json:"method_rotations"`
	Completion        CompletionBuckets `json:"completion"`
}

// MethodStats aggregates result outcomes for one method.
type MethodStats struct {
	Method           string  `json:"method"`
	Label            string  `json:"label"`
	ResultCount      int     `json:"result_count"`
	AverageScore     float64 `json:"average_score"`
	AverageTimeSpent float64 `json:"average_time_spent"`
	AverageHolistic  float64 `json:"average_holistic"`
}

// StatsService backs the admin dashboard aggregates. Read-only.
type StatsService struct {
	Participants *repository.ParticipantRepository
	Results      *repository.ResultRepository
	TestsPerUser int
}

func NewStatsService(participants *repository.ParticipantRepository, results *repository.ResultRepository, testsPerUser int) *StatsService {
	return &StatsService{Participants: participants, Results: results, TestsPerUser: testsPerUser}
}

// GetDistribution scans every participant and tallies passage exposure,
// method rotation usage and completion buckets.
func (s *StatsService) GetDistribution(ctx context.Context) (*Distribution, error) {
	participants, err := s.Participants.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rotationIndex := map[string]int{}
	for i, rotation := range assignment.MethodRotations {
		rotationIndex[strings.Join(rotation, ",")] = i
	}

	dist := &Distribution{
		TotalParticipants: len(participants),
		PassageCounts:     map[int]int{},
		MethodRotations:   make([]int, len(assignment.MethodRotations)),
	}

	for _, p := range participants {
		for _, passageID := range p.AssignedPassages {
			dist.PassageCounts[passageID]++
		}

		if key, ok := rotationKey(p.AssignedMethods); ok {
			if idx, ok := rotationIndex[key]; ok {
				dist.MethodRotations[idx]++
			}
		}

		total := len(p.AssignedPassages)
		if total == 0 {
			total = s.TestsPerUser
		}
		switch {
		case p.Progress == 0:
			dist.Completion.NotStarted++
		case p.Progress >= total:
			dist.Completion.Completed++
		default:
			dist.Completion.InProgress++
		}
	}

	return dist, nil
}

// rotationKey reduces an assignment's method list to a length-three ordering
// comparable against MethodRotations no matter how many tests the participant
// was assigned. Methods are ordered by descending assignment count, ties
// broken by first appearance, so a balanced list recovers its
// first-occurrence permutation and an unbalanced one leads with its favored
// method. Assignments that do not cover every method yield no key.
func rotationKey(assigned []string) (string, bool) {
	counts := map[string]int{}
	order := make([]string, 0, len(methods.All))
	for _, m := range assigned {
		m = methods.ConvertToStandard(m)
		if !methods.IsValid(m) {
			return "", false
		}
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}
	if len(order) != len(methods.All) {
		return "", false
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return strings.Join(order, ","), true
}

// GetMethodStats aggregates scores per method over every stored result.
func (s *StatsService) GetMethodStats(ctx context.Context) ([]MethodStats, error) {
	results, err := s.Results.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	type totals struct {
		count    int
		score    float64
		time     float64
		holistic float64
	}
	byMethod := map[string]*totals{}
	for _, m := range methods.All {
		byMethod[m] = &totals{}
	}

	for _, r := range results {
		m := methods.ConvertToStandard(r.Method)
		t, ok := byMethod[m]
		if !ok {
			continue
		}
		t.count++
		t.score += r.Score
		t.time += r.TimeSpent
		t.holistic += r.HolisticScore
	}

	stats := make([]MethodStats, 0, len(methods.All))
	for _, m := range methods.All {
		t := byMethod[m]
		ms := MethodStats{Method: m, Label: methods.Label(m), ResultCount: t.count}
		if t.count > 0 {
			ms.AverageScore = t.score / float64(t.count)
			ms.AverageTimeSpent = t.time / float64(t.count)
			ms.AverageHolistic = t.holistic / float64(t.count)
		}
		stats = append(stats, ms)
	}
	return stats, nil
}
