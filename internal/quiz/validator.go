package quiz

import (
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// Validator checks an authored question before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for logging, e.g. "structural".
	Name() string

	// Validate returns nil if q is acceptable.
	Validate(q *model.QuizQuestion) *ValidationError
}

// ValidationError describes why an authored question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Length limits for authored text.
const (
	maxQuestionLen    = 1000
	maxExplanationLen = 2000
)

// StructuralValidator checks required fields, lengths and the question type.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *model.QuizQuestion) *ValidationError {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return v.fail("question_text is empty")
	case len(q.Text) > maxQuestionLen:
		return v.fail(fmt.Sprintf("question_text exceeds %d characters", maxQuestionLen))
	case strings.TrimSpace(q.CorrectAnswer) == "":
		return v.fail("correct_answer is empty")
	case len(q.Explanation) > maxExplanationLen:
		return v.fail(fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen))
	case !q.Type.Valid() || q.Type == model.TypeMixed:
		return v.fail(fmt.Sprintf("question_type %q is not a concrete type", q.Type))
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}

// ChoicesValidator checks that a multiple-choice question has options and
// that its correct answer is one of them.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *model.QuizQuestion) *ValidationError {
	if q.Type != model.TypeMultipleChoice {
		return nil
	}
	if len(q.Options) < 2 {
		return &ValidationError{Validator: v.Name(), Message: "multiple_choice needs at least 2 options"}
	}
	for _, o := range q.Options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(q.CorrectAnswer)) {
			return nil
		}
	}
	return &ValidationError{Validator: v.Name(), Message: "correct_answer is not among the options"}
}

// DefaultValidators is the standard validation chain.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}, &ChoicesValidator{}}
}
