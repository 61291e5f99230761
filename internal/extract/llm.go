// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/skillgap/internal/estimate"
	"github.com/pdiddy/skillgap/internal/taxonomy"
	"github.com/pdiddy/skillgap/pkg/types"
)

// maxPromptText bounds the resume text sent to the AI backend.
const maxPromptText = 8000

// AIBackend abstracts the Generative AI API so tests can supply a mock.
// Each call handles one resume and returns the parsed response.
type AIBackend interface {
	Extract(ctx context.Context, text string) (AIResponse, error)
}

// AIResponse is the structured response from the AI backend.
type AIResponse struct {
	Skills []AISkill `json:"skills" yaml:"skills"`
}

// AISkill is a single skill estimate as returned by the AI backend.
type AISkill struct {
	Skill       string  `json:"skill" yaml:"skill"`
	Proficiency float64 `json:"proficiency" yaml:"proficiency"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// LLMStrategy asks an AI backend to find and score skills in resume
// text. Structured records, failed calls, and answers that resolve to no
// known skill are handled by the fallback strategy.
type LLMStrategy struct {
	backend       AIBackend
	fallback      Strategy
	tax           *taxonomy.Taxonomy
	maxRetries    int
	minTextLength int

	mu sync.Mutex
	w  io.Writer
}

// NewLLMStrategy returns an LLMStrategy. Resume text shorter than
// cfg.MinTextLength yields no skills and is never sent to the backend.
// Warnings about fallbacks are written to w.
func NewLLMStrategy(backend AIBackend, fallback Strategy, tax *taxonomy.Taxonomy, cfg types.ExtractionConfig, w io.Writer) *LLMStrategy {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	minTextLength := cfg.MinTextLength
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	if w == nil {
		w = io.Discard
	}
	return &LLMStrategy{
		backend:       backend,
		fallback:      fallback,
		tax:           tax,
		maxRetries:    maxRetries,
		minTextLength: minTextLength,
		w:             w,
	}
}

func (s *LLMStrategy) Name() string { return "llm" }

// Skills implements Strategy.
func (s *LLMStrategy) Skills(ctx context.Context, rec types.Record) (map[string]types.Score, error) {
	r, ok := rec.(types.ResumeText)
	if !ok {
		return s.fallback.Skills(ctx, rec)
	}

	if len(strings.TrimSpace(r.RawText)) < s.minTextLength {
		return map[string]types.Score{}, nil
	}
	text := types.Truncate(r.RawText, maxPromptText)

	resp, err := callWithRetry(ctx, s.backend, text, s.maxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.warnf("warning: llm extraction failed for resume:%s, using taxonomy: %v\n", r.SourceID(), err)
		return s.fallback.Skills(ctx, rec)
	}

	skills, err := convertSkills(resp.Skills, s.tax)
	if err != nil {
		s.warnf("warning: invalid llm response for resume:%s, using taxonomy: %v\n", r.SourceID(), err)
		return s.fallback.Skills(ctx, rec)
	}
	if len(skills) == 0 {
		return s.fallback.Skills(ctx, rec)
	}
	return skills, nil
}

func (s *LLMStrategy) warnf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

// convertSkills validates AI skill estimates and resolves their names
// through the taxonomy. Names the taxonomy does not know are dropped.
// When a skill appears twice the higher proficiency wins. Scores are
// held to the resume bounds.
func convertSkills(items []AISkill, tax *taxonomy.Taxonomy) (map[string]types.Score, error) {
	floor, ceiling, confCap := estimate.Bounds(types.KindResume)
	out := make(map[string]types.Score)

	for i, item := range items {
		if !inUnit(item.Proficiency) {
			return nil, fmt.Errorf("skill %d (%s): proficiency %v out of range [0,1]", i, item.Skill, item.Proficiency)
		}
		if !inUnit(item.Confidence) {
			return nil, fmt.Errorf("skill %d (%s): confidence %v out of range [0,1]", i, item.Skill, item.Confidence)
		}
		name, ok := tax.Resolve(item.Skill)
		if !ok {
			continue
		}
		sc := types.Score{
			Proficiency: types.ClampRange(item.Proficiency, floor, ceiling),
			Confidence:  math.Min(item.Confidence, confCap),
		}
		if prev, seen := out[name]; seen && prev.Proficiency >= sc.Proficiency {
			continue
		}
		out[name] = sc
	}
	return out, nil
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend AIBackend, text string, maxRetries int) (AIResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return AIResponse{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Extract(ctx, text)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return AIResponse{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
