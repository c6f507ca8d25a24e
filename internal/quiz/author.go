package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
)

// Generator is the generation capability used for authoring and grading.
type Generator interface {
	Generate(ctx context.Context, call generator.Call) generator.Outcome
}

// maxPriorQuestions bounds the already-authored list sent with each item.
const maxPriorQuestions = 8

// placeholderPoints is awarded by a placeholder question.
const placeholderPoints = 10

// Author writes quiz questions one generation call at a time.
type Author struct {
	gen        Generator
	validators []Validator
	log        *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAuthor creates an Author. seed drives type and template selection.
func NewAuthor(gen Generator, seed uint64, log *logger.Logger) *Author {
	if log == nil {
		log = logger.Nop()
	}
	return &Author{
		gen:        gen,
		validators: DefaultValidators(),
		log:        log,
		rng:        rand.New(rand.NewPCG(seed, seed+1)),
	}
}

// AuthorQuiz returns count questions ordered from 1. Each item is best
// effort: a failed generation, extraction or validation yields a labelled
// placeholder instead of aborting the batch. difficulty must be concrete.
func (a *Author) AuthorQuiz(ctx context.Context, subject string, difficulty model.Difficulty, qtype model.QuestionType, count int) []model.QuizQuestion {
	questions := make([]model.QuizQuestion, 0, count)
	var prior []string

	for i := range count {
		itemType := a.pickType(qtype)
		template := a.pickTemplate(Templates(subject, itemType))

		q, err := a.authorOne(ctx, subject, difficulty, itemType, template, prior)
		if err != nil {
			a.log.Warn("quiz item replaced by placeholder", "subject", subject, "item", i+1, "error", err)
			q = Placeholder(subject, difficulty, itemType, i+1)
		}
		q.Order = i + 1
		questions = append(questions, q)

		prior = append(prior, q.Text)
		if len(prior) > maxPriorQuestions {
			prior = prior[1:]
		}
	}
	return questions
}

func (a *Author) authorOne(ctx context.Context, subject string, difficulty model.Difficulty, qtype model.QuestionType, template string, prior []string) (model.QuizQuestion, error) {
	out := a.gen.Generate(ctx, generator.Call{
		Prompt:  prompt.Author(subject, string(difficulty), string(qtype), template, prior),
		Params:  generator.AuthorParams,
		Subject: subject,
		Purpose: llm.PurposeQuizAuthor,
	})
	if !out.Succeeded() {
		return model.QuizQuestion{}, fmt.Errorf("generation %s: %w", out.State, out.Err)
	}

	var rec questionRecord
	if err := llm.ExtractInto(out.Text, QuestionSchema, &rec); err != nil {
		return model.QuizQuestion{}, err
	}

	q := model.QuizQuestion{
		Text:          strings.TrimSpace(rec.QuestionText),
		Type:          model.QuestionType(rec.QuestionType),
		Options:       rec.Options,
		CorrectAnswer: strings.TrimSpace(rec.CorrectAnswer),
		Explanation:   strings.TrimSpace(rec.Explanation),
		Difficulty:    difficulty,
		Points:        Points(difficulty),
	}
	if q.Type == "" {
		q.Type = qtype
	}
	if q.Type != model.TypeMultipleChoice {
		q.Options = nil
	}
	for _, v := range a.validators {
		if verr := v.Validate(&q); verr != nil {
			return model.QuizQuestion{}, verr
		}
	}
	return q, nil
}

// Placeholder is the stand-in for an item that could not be authored.
func Placeholder(subject string, difficulty model.Difficulty, qtype model.QuestionType, n int) model.QuizQuestion {
	q := model.QuizQuestion{
		Text:          fmt.Sprintf("Sample %s question %d?", subject, n),
		Type:          qtype,
		CorrectAnswer: "Sample answer",
		Explanation:   "This is a sample explanation",
		Difficulty:    difficulty,
		Points:        placeholderPoints,
	}
	if qtype == model.TypeMultipleChoice {
		q.Options = []string{"Option A", "Option B", "Option C", "Option D"}
	}
	return q
}

func (a *Author) pickType(qtype model.QuestionType) model.QuestionType {
	if qtype != model.TypeMixed {
		return qtype
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return model.ClosedTypes[a.rng.IntN(len(model.ClosedTypes))]
}

func (a *Author) pickTemplate(templates []string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return templates[a.rng.IntN(len(templates))]
}
