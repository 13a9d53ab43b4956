package scoring

import (
	"fmt"
	"strconv"

	"wellscreen/internal/catalog"
	"wellscreen/internal/model"
)

// Calculator aggregates raw answers per program and normalizes them to
// percentage scores. The catalog is an injected dependency so the calculator
// carries no global state.
type Calculator struct {
	catalog *catalog.Catalog
}

// NewCalculator creates a calculator over the given reference catalog.
func NewCalculator(c *catalog.Catalog) *Calculator {
	return &Calculator{catalog: c}
}

// Compute scores an answer set. Every program in the catalog appears in the
// result, even with zero answers for it (score 0, lowest band). An empty set
// is valid and yields an all-zero result. Compute is pure; callers stamp
// ComputedAt when they persist the result.
func (c *Calculator) Compute(answers model.AnswerSet) *model.ComputedResult {
	scale := DetectScale(answers.Values())

	programs := make(map[string]model.ProgramScore, len(c.catalog.Programs()))
	for _, p := range c.catalog.Programs() {
		rawSum := 0
		answered := 0
		for _, qid := range p.MemberQuestionIDs {
			v, ok := answers.Get(qid)
			if !ok {
				continue
			}
			rawSum += v
			answered++
		}

		score := normalize(rawSum, answered, c.catalog.Denominator(p.ID), scale)
		programs[strconv.Itoa(p.ID)] = model.ProgramScore{
			Score:         score,
			RawSum:        rawSum,
			AnsweredCount: answered,
			Band:          Classify(score),
		}
	}

	return &model.ComputedResult{
		Scale:    scale,
		Programs: programs,
	}
}

// normalize rebases a raw sum onto the 0..denominator range and converts it
// to a percentage clamped to [0,100]. On the 1-6 scale one point per answered
// question is subtracted first, which shifts the values onto an effective
// 0..5 range.
func normalize(rawSum, answeredCount, denominator int, scale model.Scale) float64 {
	if answeredCount == 0 || denominator == 0 {
		return 0
	}

	effective := rawSum
	if scale == model.ScaleOneToSix {
		effective -= answeredCount
	}

	pct := float64(effective) / float64(denominator) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ParseAnswerSet coerces a decoded JSON payload into an answer set. The
// supported shapes are a map of question id to value and a legacy array where
// the element index is the question id. Individual values that cannot be
// read as a number coerce to 0; any other overall shape is rejected.
func ParseAnswerSet(raw interface{}) (model.AnswerSet, error) {
	switch in := raw.(type) {
	case nil:
		return model.AnswerSet{}, nil
	case map[string]interface{}:
		answers := make(model.AnswerSet, len(in))
		for key, value := range in {
			if _, err := strconv.Atoi(key); err != nil {
				return nil, fmt.Errorf("%w: answer key %q is not a question id", model.ErrInvalidInput, key)
			}
			answers[key] = coerceValue(value)
		}
		return answers, nil
	case []interface{}:
		answers := make(model.AnswerSet, len(in))
		for i, value := range in {
			if value == nil {
				continue
			}
			answers.Set(i, coerceValue(value))
		}
		return answers, nil
	default:
		return nil, fmt.Errorf("%w: answer set must be map or array shaped, got %T", model.ErrInvalidInput, raw)
	}
}

// coerceValue reads a raw answer value leniently. Unparseable values count
// as 0 rather than failing the whole set.
func coerceValue(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
