package quiz

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/prompt"
)

const (
	// DefaultScore is used when a rubric reply carries no number.
	DefaultScore = 50

	// PassScore is the rubric score from which an open answer is correct.
	PassScore = 70

	// maxParallelGrades bounds concurrent rubric calls per submission.
	maxParallelGrades = 4
)

// Answer is one submitted answer.
type Answer struct {
	QuestionID       int64  `json:"question_id"`
	UserAnswer       string `json:"user_answer"`
	TimeTakenSeconds int    `json:"time_taken"`
}

// QuestionResult is the graded outcome of one answer.
type QuestionResult struct {
	QuestionID       int64   `json:"question_id"`
	QuestionText     string  `json:"question_text"`
	UserAnswer       string  `json:"user_answer"`
	CorrectAnswer    string  `json:"correct_answer"`
	IsCorrect        bool    `json:"is_correct"`
	PointsEarned     float64 `json:"points_earned"`
	MaxPoints        int     `json:"max_points"`
	TimeTakenSeconds int     `json:"time_taken"`
}

// Result aggregates a graded submission.
type Result struct {
	TotalScore float64          `json:"total_score"`
	MaxScore   float64          `json:"max_score"`
	Percentage float64          `json:"percentage"`
	Questions  []QuestionResult `json:"detailed_results"`
}

// Correct counts the correct answers.
func (r Result) Correct() int {
	n := 0
	for _, q := range r.Questions {
		if q.IsCorrect {
			n++
		}
	}
	return n
}

// TimeTaken sums the per-answer times.
func (r Result) TimeTaken() int {
	total := 0
	for _, q := range r.Questions {
		total += q.TimeTakenSeconds
	}
	return total
}

// Grader scores submissions.
type Grader struct {
	gen Generator
	log *logger.Logger
}

// NewGrader creates a Grader.
func NewGrader(gen Generator, log *logger.Logger) *Grader {
	if log == nil {
		log = logger.Nop()
	}
	return &Grader{gen: gen, log: log}
}

// Grade scores answers against questions matched by ID. Answers to unknown
// questions and repeated answers to the same question are skipped, so
// each question is graded at most once. Multiple choice is an exact case-insensitive
// match. Other types are scored 0-100 against the rubric and earn that
// share of the points. Results keep the answer order.
func (g *Grader) Grade(ctx context.Context, questions []model.QuizQuestion, answers []Answer) Result {
	byID := make(map[int64]*model.QuizQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var matched []QuestionResult
	var qs []*model.QuizQuestion
	seen := make(map[int64]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			g.log.Debug("answer for unknown question skipped", "question_id", a.QuestionID)
			continue
		}
		if seen[q.ID] {
			g.log.Debug("repeated answer skipped", "question_id", q.ID)
			continue
		}
		seen[q.ID] = true
		matched = append(matched, QuestionResult{
			QuestionID:       q.ID,
			QuestionText:     q.Text,
			UserAnswer:       a.UserAnswer,
			CorrectAnswer:    q.CorrectAnswer,
			MaxPoints:        q.Points,
			TimeTakenSeconds: a.TimeTakenSeconds,
		})
		qs = append(qs, q)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelGrades)
	for i := range matched {
		q := qs[i]
		res := &matched[i]
		if q.Type == model.TypeMultipleChoice {
			res.IsCorrect = MatchChoice(res.UserAnswer, q.CorrectAnswer)
			if res.IsCorrect {
				res.PointsEarned = float64(q.Points)
			}
			continue
		}
		eg.Go(func() error {
			score := g.rubricScore(egCtx, q, res.UserAnswer)
			res.PointsEarned = float64(score) / 100 * float64(q.Points)
			res.IsCorrect = score >= PassScore
			return nil
		})
	}
	_ = eg.Wait()

	result := Result{Questions: matched}
	for _, r := range matched {
		result.TotalScore += r.PointsEarned
		result.MaxScore += float64(r.MaxPoints)
	}
	result.Percentage = Percentage(result.TotalScore, result.MaxScore)
	return result
}

func (g *Grader) rubricScore(ctx context.Context, q *model.QuizQuestion, answer string) int {
	out := g.gen.Generate(ctx, generator.Call{
		Prompt:  prompt.Grade(q.Text, answer, q.CorrectAnswer),
		Params:  generator.GradeParams,
		Subject: "general",
		Purpose: llm.PurposeQuizGrade,
	})
	if !out.Succeeded() {
		g.log.Warn("rubric grading failed, using default score", "question_id", q.ID, "state", out.State, "error", out.Err)
		return DefaultScore
	}
	return ParseScore(out.Text)
}

// MatchChoice reports whether answer equals correct ignoring case and
// surrounding whitespace.
func MatchChoice(answer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct))
}

var firstInt = regexp.MustCompile(`\d+`)

// ParseScore returns the first integer in text clamped to 0-100, or
// DefaultScore when there is none.
func ParseScore(text string) int {
	m := firstInt.FindString(text)
	if m == "" {
		return DefaultScore
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 100
	}
	return min(max(n, 0), 100)
}

// Percentage is total/maxScore*100, or 0 when maxScore is 0.
func Percentage(total, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return total / maxScore * 100
}
