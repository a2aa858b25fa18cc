package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloze-study-service/internal/gaps"
	"cloze-study-service/internal/methods"
	"cloze-study-service/internal/models"
	"cloze-study-service/internal/passage"
)

var (
	ErrPassageNotFound = errors.New("passage not found")
	ErrUnknownMethod   = errors.New("unknown gap generation method")
)

const clozeBlank = "_____"

// GapService resolves a (method, passage) pair to a gap set, using the
// external runner and an optional cache in front of it.
type GapService struct {
	Runner    *gaps.Runner
	Cache     *gaps.Cache
	Catalogue *passage.Catalogue
}

func NewGapService(runner *gaps.Runner, cache *gaps.Cache, catalogue *passage.Catalogue) *GapService {
	return &GapService{Runner: runner, Cache: cache, Catalogue: catalogue}
}

// GenerateGaps returns the gap set for one task. Results are cached per
// (method, passage, count) since the script output is deterministic.
func (s *GapService) GenerateGaps(ctx context.Context, method string, passageID, numGaps int) (*models.GapSet, error) {
	method = methods.ConvertToStandard(method)
	if !methods.IsValid(method) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	p, ok := s.Catalogue.Get(passageID)
	if !ok {
		return nil, ErrPassageNotFound
	}

	if set, ok := s.Cache.Get(ctx, method, passageID, numGaps); ok {
		return set, nil
	}

	generated, err := s.Runner.Run(ctx, method, p.Text, passageID, numGaps)
	if err != nil {
		return nil, err
	}

	variant, _ := p.Variant(method)
	set := &models.GapSet{
		Gaps:      generated,
		ClozeText: buildClozeText(variant.Text, generated),
	}
	s.Cache.Set(ctx, method, passageID, numGaps, set)
	return set, nil
}

// buildClozeText blanks out each gap span in the passage text. The runner
// reports spans as code point offsets, so the text is worked on as runes,
// not bytes. Spans are replaced back-to-front so earlier indexes stay valid.
func buildClozeText(text string, gapList []models.Gap) string {
	ordered := make([]models.Gap, len(gapList))
	copy(ordered, gapList)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartIdx > ordered[j].StartIdx
	})

	blank := []rune(clozeBlank)
	out := []rune(text)
	for _, g := range ordered {
		if g.StartIdx < 0 || g.EndIdx > len(out) || g.StartIdx >= g.EndIdx {
			continue
		}
		next := make([]rune, 0, len(out)-(g.EndIdx-g.StartIdx)+len(blank))
		next = append(next, out[:g.StartIdx]...)
		next = append(next, blank...)
		next = append(next, out[g.EndIdx:]...)
		out = next
	}
	return string(out)
}
