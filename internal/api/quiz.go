package api

import (
	"net/http"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
)

type quizView struct {
	ID               int64              `json:"quiz_id"`
	Subject          string             `json:"subject"`
	Title            string             `json:"title"`
	Difficulty       model.Difficulty   `json:"difficulty"`
	Type             model.QuestionType `json:"quiz_type"`
	QuestionCount    int                `json:"question_count"`
	TimeLimitSeconds int                `json:"time_limit"`
	Status           model.QuizStatus   `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

func newQuizView(q *model.Quiz) quizView {
	return quizView{
		ID:               q.ID,
		Subject:          q.Subject,
		Title:            q.Title,
		Difficulty:       q.Difficulty,
		Type:             q.Type,
		QuestionCount:    q.QuestionCount,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Status:           q.Status,
		CreatedAt:        q.CreatedAt,
	}
}

// questionView omits the correct answer and explanation.
type questionView struct {
	ID      int64              `json:"id"`
	Text    string             `json:"question_text"`
	Type    model.QuestionType `json:"question_type"`
	Options []string           `json:"options"`
	Points  int                `json:"points"`
	Order   int                `json:"order"`
}

func newQuestionViews(questions []model.QuizQuestion) []questionView {
	out := make([]questionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionView{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Options: q.Options,
			Points:  q.Points,
			Order:   q.Order,
		})
	}
	return out
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject       string             `json:"subject"`
		Difficulty    model.Difficulty   `json:"difficulty"`
		QuizType      model.QuestionType `json:"quiz_type"`
		QuestionCount int                `json:"question_count"`
		TimeLimit     int                `json:"time_limit"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, questions, err := s.quizzes.Create(r.Context(), userID(r), quiz.CreateRequest{
		Subject:          body.Subject,
		Difficulty:       body.Difficulty,
		Type:             body.QuizType,
		Count:            body.QuestionCount,
		TimeLimitSeconds: body.TimeLimit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		quizView
		Questions []questionView `json:"questions"`
	}{newQuizView(q), newQuestionViews(questions)})
}

func (s *Server) handleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "quizID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid quiz ID")
		return
	}
	q, questions, err := s.quizzes.Questions(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		quizView
		Questions []questionView `json:"questions"`
	}{newQuizView(q), newQuestionViews(questions)})
}

type submitResponse struct {
	QuizID         int64                 `json:"quiz_id"`
	TotalScore     float64               `json:"total_score"`
	MaxScore       float64               `json:"max_score"`
	Percentage     float64               `json:"percentage"`
	CorrectAnswers int                   `json:"correct_answers"`
	TotalQuestions int                   `json:"total_questions"`
	TimeTaken      int                   `json:"time_taken"`
	Increment      float64               `json:"progress_increment"`
	Progress       float64               `json:"progress"`
	Results        []quiz.QuestionResult `json:"detailed_results"`
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "quizID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid quiz ID")
		return
	}
	var body struct {
		Answers []quiz.Answer `json:"answers"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.quizzes.Submit(r.Context(), userID(r), id, body.Answers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		QuizID:         res.Quiz.ID,
		TotalScore:     res.Result.TotalScore,
		MaxScore:       res.Result.MaxScore,
		Percentage:     res.Result.Percentage,
		CorrectAnswers: res.Result.Correct(),
		TotalQuestions: len(res.Result.Questions),
		TimeTaken:      res.Result.TimeTaken(),
		Increment:      res.Increment,
		Progress:       res.Progress,
		Results:        res.Result.Questions,
	})
}

type historyEntryView struct {
	QuizID      int64            `json:"quiz_id"`
	Subject     string           `json:"subject"`
	Title       string           `json:"title"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Score       float64          `json:"score"`
	MaxScore    float64          `json:"max_score"`
	Percentage  float64          `json:"percentage"`
	TimeTaken   int              `json:"time_taken"`
	CompletedAt time.Time        `json:"completed_at"`
}

func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.quizzes.History(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries := make([]historyEntryView, 0, len(h.Entries))
	for _, e := range h.Entries {
		entries = append(entries, historyEntryView{
			QuizID:      e.Session.QuizID,
			Subject:     e.Subject,
			Title:       e.Title,
			Difficulty:  e.Difficulty,
			Score:       e.Session.TotalScore,
			MaxScore:    e.Session.MaxScore,
			Percentage:  e.Session.Percentage,
			TimeTaken:   e.Session.TimeTaken,
			CompletedAt: e.Session.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quiz_history":  entries,
		"total_quizzes": len(entries),
		"average_score": h.AverageScore,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, progress, err := s.quizzes.Recommendations(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations":  recs,
		"current_progress": progress,
	})
}
