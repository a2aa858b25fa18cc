// Package assignment produces counterbalanced (passage, method) assignments
// for new participants.
package assignment

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"cloze-study-service/internal/methods"
)

// MethodRotations enumerates every ordering of the method catalogue. The
// rotation index chosen for a participant decides which methods absorb the
// remainder when the tests-per-user count does not divide evenly.
var MethodRotations = [][]string{
	{methods.Contextuality, methods.ContextualityPlus, methods.Keyword},
	{methods.Contextuality, methods.Keyword, methods.ContextualityPlus},
	{methods.ContextualityPlus, methods.Contextuality, methods.Keyword},
	{methods.ContextualityPlus, methods.Keyword, methods.Contextuality},
	{methods.Keyword, methods.Contextuality, methods.ContextualityPlus},
	{methods.Keyword, methods.ContextualityPlus, methods.Contextuality},
}

// Strategies for picking the rotation index.
const (
	StrategyRotation = "rotation"
	StrategyRandom   = "random"
)

var ErrInvalidAssignment = errors.New("invalid assignment")

// CountFunc returns the current number of registered participants. Injected
// so the generator never reaches for a hidden database handle.
type CountFunc func(ctx context.Context) (int64, error)

// Writer persists a forced assignment onto an existing participant record.
type Writer interface {
	SetAssignment(ctx context.Context, participantID string, passages []int, assignedMethods []string) error
}

// Generator builds balanced assignments for new participants.
type Generator struct {
	rand         *rand.Rand
	countFn      CountFunc
	testsPerUser int
	passageCount int
	strategy     string
}

func NewGenerator(countFn CountFunc, testsPerUser, passageCount int, strategy string) *Generator {
	if strategy != StrategyRotation && strategy != StrategyRandom {
		strategy = StrategyRotation
	}
	// Passages are drawn without replacement, so one participant can never
	// be assigned more tests than the catalogue holds.
	if testsPerUser > passageCount {
		testsPerUser = passageCount
	}
	return &Generator{
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		countFn:      countFn,
		testsPerUser: testsPerUser,
		passageCount: passageCount,
		strategy:     strategy,
	}
}

// Generate returns one participant's assignment: testsPerUser passage ids
// drawn without replacement from the catalogue, and an equally long,
// independently shuffled method list with per-method counts within one of
// each other.
//
// Generate never fails: if the participant-count lookup errors, the
// documented default assignment is returned so registration can proceed.
func (g *Generator) Generate(ctx context.Context) (passages []int, assigned []string) {
	rotationIndex := 0
	switch g.strategy {
	case StrategyRandom:
		rotationIndex = g.rand.Intn(len(MethodRotations))
	default:
		count, err := g.countFn(ctx)
		if err != nil {
			log.Printf("Participant count lookup failed, using default assignment: %v", err)
			return g.DefaultAssignment()
		}
		rotationIndex = int(count % int64(len(MethodRotations)))
	}

	passages = g.pickPassages()
	assigned = g.pickMethods(rotationIndex)
	return passages, assigned
}

// pickPassages shuffles the full catalogue and takes the first testsPerUser
// ids, so no passage repeats within one participant's list.
func (g *Generator) pickPassages() []int {
	catalogue := make([]int, g.passageCount)
	for i := range catalogue {
		catalogue[i] = i + 1
	}
	g.rand.Shuffle(len(catalogue), func(i, j int) {
		catalogue[i], catalogue[j] = catalogue[j], catalogue[i]
	})
	return catalogue[:g.testsPerUser]
}

// pickMethods builds the balanced method multiset and shuffles it so method
// order is not predictable from passage order.
func (g *Generator) pickMethods(rotationIndex int) []string {
	multiset := balancedMultiset(g.testsPerUser, rotationIndex)
	g.rand.Shuffle(len(multiset), func(i, j int) {
		multiset[i], multiset[j] = multiset[j], multiset[i]
	})
	return multiset
}

// balancedMultiset lays out n method identifiers so that per-method counts
// differ by at most one. The remainder goes to the methods earliest in the
// chosen rotation, spreading the imbalance across the population.
func balancedMultiset(n, rotationIndex int) []string {
	rotation := MethodRotations[rotationIndex%len(MethodRotations)]
	base := n / len(rotation)
	remainder := n % len(rotation)

	multiset := make([]string, 0, n)
	for i, m := range rotation {
		count := base
		if i < remainder {
			count++
		}
		for j := 0; j < count; j++ {
			multiset = append(multiset, m)
		}
	}
	return multiset
}

// DefaultAssignment is the fixed fallback used when balancing data is
// unavailable: the first testsPerUser passages in catalogue order, with the
// first method rotation's balanced multiset, unshuffled.
func (g *Generator) DefaultAssignment() ([]int, []string) {
	n := g.testsPerUser
	passages := make([]int, n)
	for i := range passages {
		passages[i] = i + 1
	}
	return passages, balancedMultiset(g.testsPerUser, 0)
}

// ForceAssignment overwrites a participant's assignment directly, for admin
// and test tooling. Both sequences must be present, of the expected length,
// and contain only recognized methods once legacy codes are normalized.
func (g *Generator) ForceAssignment(ctx context.Context, w Writer, participantID string, passages []int, assigned []string) error {
	if len(passages) == 0 || len(assigned) == 0 {
		return ErrInvalidAssignment
	}
	if len(passages) != len(assigned) || len(passages) != g.testsPerUser {
		return ErrInvalidAssignment
	}
	normalized := make([]string, len(assigned))
	for i, m := range assigned {
		normalized[i] = methods.ConvertToStandard(m)
		if !methods.IsValid(normalized[i]) {
			return ErrInvalidAssignment
		}
	}
	for _, p := range passages {
		if p < 1 || p > g.passageCount {
			return ErrInvalidAssignment
		}
	}
	return w.SetAssignment(ctx, participantID, passages, normalized)
}
