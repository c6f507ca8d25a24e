// Package quiz authors quizzes through the generation capability, grades
// submissions, and turns results into progress updates and
// recommendations.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/logger"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

// Defaults and limits for new quizzes.
const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
	DefaultTimeLimit     = 600
	HistoryLimit         = 20
)

var (
	// ErrInvalidRequest marks a malformed create or submit request.
	ErrInvalidRequest = errors.New("quiz: invalid request")

	// ErrAlreadyCompleted is returned when submitting a finished quiz.
	ErrAlreadyCompleted = errors.New("quiz: already completed")
)

// CreateRequest describes a quiz to author. Zero values take defaults:
// auto difficulty, mixed type, DefaultQuestionCount, DefaultTimeLimit.
type CreateRequest struct {
	Subject          string
	Difficulty       model.Difficulty
	Type             model.QuestionType
	Count            int
	TimeLimitSeconds int
}

// SubmitResult is a graded and persisted submission.
type SubmitResult struct {
	Quiz      *model.Quiz
	Result    Result
	Session   *model.QuizSession
	Increment float64
	Progress  float64
}

// History is a learner's recent completed quizzes.
type History struct {
	Entries      []store.HistoryEntry
	AverageScore float64
}

// Service runs the quiz lifecycle against the repository.
type Service struct {
	quizzes store.QuizRepo
	users   store.UserRepo
	author  *Author
	grader  *Grader
	log     *logger.Logger
}

// NewService creates a quiz service. seed drives authoring choices.
func NewService(quizzes store.QuizRepo, users store.UserRepo, gen Generator, seed uint64, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		quizzes: quizzes,
		users:   users,
		author:  NewAuthor(gen, seed, log),
		grader:  NewGrader(gen, log),
		log:     log,
	}
}

// Create authors and stores a quiz for userID.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*model.Quiz, []model.QuizQuestion, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if req.Difficulty == model.DifficultyAuto {
		req.Difficulty = ResolveDifficulty(user.Progress[req.Subject])
	}

	questions := s.author.AuthorQuiz(ctx, req.Subject, req.Difficulty, req.Type, req.Count)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	quiz := &model.Quiz{
		UserID:           userID,
		Subject:          req.Subject,
		Title:            Title(req.Subject, req.Difficulty),
		Difficulty:       req.Difficulty,
		Type:             req.Type,
		QuestionCount:    req.Count,
		TimeLimitSeconds: req.TimeLimitSeconds,
		Status:           model.QuizActive,
	}
	if err := s.quizzes.Create(ctx, quiz, questions); err != nil {
		return nil, nil, fmt.Errorf("store quiz: %w", err)
	}
	s.log.Info("quiz created", "quiz_id", quiz.ID, "user_id", userID, "subject", quiz.Subject,
		"difficulty", quiz.Difficulty, "questions", len(questions))
	return quiz, questions, nil
}

func normalize(req CreateRequest) (CreateRequest, error) {
	req.Subject = strings.ToLower(strings.TrimSpace(req.Subject))
	if req.Subject == "" || req.Subject == model.SubjectGeneral {
		return req, fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyAuto
	}
	if req.Difficulty != model.DifficultyAuto && !req.Difficulty.Valid() {
		return req, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, req.Difficulty)
	}
	if req.Type == "" {
		req.Type = model.TypeMixed
	}
	if !req.Type.Valid() {
		return req, fmt.Errorf("%w: unknown quiz type %q", ErrInvalidRequest, req.Type)
	}
	if req.Count == 0 {
		req.Count = DefaultQuestionCount
	}
	if req.Count < 0 || req.Count > MaxQuestionCount {
		return req, fmt.Errorf("%w: question count must be 1-%d", ErrInvalidRequest, MaxQuestionCount)
	}
	if req.TimeLimitSeconds == 0 {
		req.TimeLimitSeconds = DefaultTimeLimit
	}
	if req.TimeLimitSeconds < 0 {
		return req, fmt.Errorf("%w: negative time limit", ErrInvalidRequest)
	}
	return req, nil
}

// Questions returns a quiz owned by userID with its questions in order.
// Quizzes of other learners are reported as store.ErrNotFound.
func (s *Service) Questions(ctx context.Context, userID, quizID int64) (*model.Quiz, []model.QuizQuestion, error) {
	quiz, err := s.owned(ctx, userID, quizID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

// Submit grades answers and persists the attempts, the run, the quiz
// completion and the progress gain in one transaction. Nothing is written
// until grading has finished.
func (s *Service) Submit(ctx context.Context, userID, quizID int64, answers []Answer) (*SubmitResult, error) {
	quiz, questions, err := s.Questions(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizActive {
		return nil, ErrAlreadyCompleted
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers", ErrInvalidRequest)
	}

	result := s.grader.Grade(ctx, questions, answers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attempts := make([]model.QuizAttempt, 0, len(result.Questions))
	for _, r := range result.Questions {
		attempts = append(attempts, model.QuizAttempt{
			QuizID:           quizID,
			QuestionID:       r.QuestionID,
			UserID:           userID,
			UserAnswer:       r.UserAnswer,
			IsCorrect:        r.IsCorrect,
			PointsEarned:     r.PointsEarned,
			TimeTakenSeconds: r.TimeTakenSeconds,
		})
	}

	inc := Increment(result.Percentage)
	run, err := s.quizzes.SaveSubmission(ctx, store.Submission{
		QuizID:   quizID,
		UserID:   userID,
		Subject:  quiz.Subject,
		Attempts: attempts,
		Session: model.QuizSession{
			TotalScore: result.TotalScore,
			MaxScore:   result.MaxScore,
			Percentage: result.Percentage,
			TimeTaken:  result.TimeTaken(),
		},
		Increment: inc,
	})
	if errors.Is(err, store.ErrQuizNotActive) {
		return nil, ErrAlreadyCompleted
	}
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	quiz.Status = model.QuizCompleted
	completed := run.CompletedAt
	quiz.CompletedAt = &completed

	s.log.Info("quiz submitted", "quiz_id", quizID, "user_id", userID,
		"percentage", result.Percentage, "increment", inc)
	return &SubmitResult{
		Quiz:      quiz,
		Result:    result,
		Session:   run,
		Increment: inc,
		Progress:  user.Progress[quiz.Subject],
	}, nil
}

// History returns the learner's last HistoryLimit completed quizzes,
// newest first, with their mean percentage (0 when there are none).
func (s *Service) History(ctx context.Context, userID int64) (History, error) {
	entries, err := s.quizzes.History(ctx, userID, HistoryLimit)
	if err != nil {
		return History{}, err
	}
	h := History{Entries: entries}
	if len(entries) > 0 {
		var sum float64
		for _, e := range entries {
			sum += e.Session.Percentage
		}
		h.AverageScore = sum / float64(len(entries))
	}
	return h, nil
}

// Recommendations returns quiz suggestions from the learner's progress.
func (s *Service) Recommendations(ctx context.Context, userID int64) ([]Recommendation, map[string]float64, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return Recommend(user.Progress), user.Progress, nil
}

func (s *Service) owned(ctx context.Context, userID, quizID int64) (*model.Quiz, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, fmt.Errorf("quiz %d: %w", quizID, store.ErrNotFound)
	}
	return quiz, nil
}
