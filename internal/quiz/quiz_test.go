package quiz

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newGen(p llm.Provider) *generator.Generator {
	return generator.New(p, generator.Config{MaxRetries: 1, BaseDelay: time.Millisecond, Sleep: noSleep}, nil)
}

const mcRecord = `Sure! Here is your question:
{"question_text": "What is 2+2?", "question_type": "multiple_choice", "options": ["3", "4", "5", "6"], "correct_answer": "4", "explanation": "Two plus two is four."}
Good luck!`

func TestAuthorQuizParsesRecords(t *testing.T) {
	mock := llm.RepeatingMock(llm.MockResponse{Text: mcRecord})
	a := NewAuthor(newGen(mock), 1, nil)

	qs := a.AuthorQuiz(context.Background(), "math", model.DifficultyIntermediate, model.TypeMultipleChoice, 3)
	if len(qs) != 3 {
		t.Fatalf("len = %d, want 3", len(qs))
	}
	for i, q := range qs {
		if q.Text != "What is 2+2?" || q.CorrectAnswer != "4" || q.Type != model.TypeMultipleChoice {
			t.Errorf("q[%d] = %+v", i, q)
		}
		if q.Points != 15 || q.Difficulty != model.DifficultyIntermediate {
			t.Errorf("q[%d] points = %d, difficulty = %s", i, q.Points, q.Difficulty)
		}
		if q.Order != i+1 {
			t.Errorf("q[%d] order = %d", i, q.Order)
		}
	}
	if !strings.Contains(mock.LastPrompt(), "Do not repeat any of these questions:\n1. What is 2+2?\n2. What is 2+2?") {
		t.Errorf("prior questions missing from prompt:\n%s", mock.LastPrompt())
	}
}

func TestAuthorQuizPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"hard failure", llm.MockResponse{Err: errors.New("invalid api key")}},
		{"no json", llm.MockResponse{Text: "I cannot do that."}},
		{"schema violation", llm.MockResponse{Text: `{"question_text": "", "correct_answer": "x"}`}},
		{"answer not an option", llm.MockResponse{Text: `{"question_text": "Pick", "question_type": "multiple_choice", "options": ["a", "b"], "correct_answer": "c"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthor(newGen(llm.RepeatingMock(tt.resp)), 1, nil)
			qs := a.AuthorQuiz(context.Background(), "physics", model.DifficultyAdvanced, model.TypeMultipleChoice, 2)
			if len(qs) != 2 {
				t.Fatalf("len = %d, want 2", len(qs))
			}
			want := Placeholder("physics", model.DifficultyAdvanced, model.TypeMultipleChoice, 2)
			want.Order = 2
			if got := qs[1]; got.Text != want.Text || got.Points != placeholderPoints || !slices.Equal(got.Options, want.Options) || got.Order != 2 {
				t.Errorf("q[1] = %+v, want %+v", got, want)
			}
		})
	}
}

func TestAuthorQuizMixedUsesClosedTypes(t *testing.T) {
	a := NewAuthor(newGen(llm.RepeatingMock(llm.MockResponse{Text: "nothing"})), 42, nil)
	qs := a.AuthorQuiz(context.Background(), "coding", model.DifficultyBeginner, model.TypeMixed, 12)
	for _, q := range qs {
		if !slices.Contains(model.ClosedTypes, q.Type) {
			t.Errorf("type %q is not a closed type", q.Type)
		}
		if q.Type != model.TypeMultipleChoice && q.Options != nil {
			t.Errorf("non multiple choice placeholder has options")
		}
	}
}

func TestTemplatesFallback(t *testing.T) {
	if got := Templates("chemistry", model.TypeFillBlank); !slices.Equal(got, questionTemplates["coding"][model.TypeFillBlank]) {
		t.Errorf("unknown subject did not fall back to coding")
	}
	if got := Templates("Math", model.TypeMixed); !slices.Equal(got, questionTemplates["math"][model.TypeMultipleChoice]) {
		t.Errorf("unknown type did not fall back to multiple choice")
	}
}

func TestGradeMultipleChoiceCaseInsensitive(t *testing.T) {
	mock := llm.NewMockProvider()
	g := NewGrader(newGen(mock), nil)
	questions := []model.QuizQuestion{
		{ID: 1, Text: "Pick A", Type: model.TypeMultipleChoice, CorrectAnswer: "Option A", Points: 10},
		{ID: 2, Text: "Pick B", Type: model.TypeMultipleChoice, CorrectAnswer: "Option B", Points: 10},
	}
	res := g.Grade(context.Background(), questions, []Answer{
		{QuestionID: 1, UserAnswer: "option a"},
		{QuestionID: 2, UserAnswer: "Option C"},
	})

	if !res.Questions[0].IsCorrect || res.Questions[0].PointsEarned != 10 {
		t.Errorf("q1 = %+v, want correct with 10 points", res.Questions[0])
	}
	if res.Questions[1].IsCorrect || res.Questions[1].PointsEarned != 0 {
		t.Errorf("q2 = %+v, want incorrect with 0 points", res.Questions[1])
	}
	if res.TotalScore != 10 || res.MaxScore != 20 || res.Percentage != 50 {
		t.Errorf("totals = %v/%v (%v%%)", res.TotalScore, res.MaxScore, res.Percentage)
	}
	if mock.CallCount() != 0 {
		t.Errorf("multiple choice called the generator %d times", mock.CallCount())
	}
}

func TestGradeOpenEnded(t *testing.T) {
	tests := []struct {
		name        string
		resp        llm.MockResponse
		wantPoints  float64
		wantCorrect bool
	}{
		{"scored", llm.MockResponse{Text: "Score: 85/100"}, 17, true},
		{"below pass", llm.MockResponse{Text: "69"}, 13.8, false},
		{"at pass", llm.MockResponse{Text: "70"}, 14, true},
		{"no number", llm.MockResponse{Text: "Quite good"}, 10, false},
		{"over range", llm.MockResponse{Text: "250"}, 20, true},
		{"failure", llm.MockResponse{Err: errors.New("boom")}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.RepeatingMock(tt.resp)
			g := NewGrader(newGen(mock), nil)
			q := model.QuizQuestion{ID: 7, Text: "Explain loops", Type: model.TypeCodeCompletion, CorrectAnswer: "for", Points: 20}
			res := g.Grade(context.Background(), []model.QuizQuestion{q}, []Answer{{QuestionID: 7, UserAnswer: "a for loop", TimeTakenSeconds: 12}})

			got := res.Questions[0]
			if math.Abs(got.PointsEarned-tt.wantPoints) > 1e-9 || got.IsCorrect != tt.wantCorrect {
				t.Errorf("result = %+v, want points %v correct %v", got, tt.wantPoints, tt.wantCorrect)
			}
			if got.PointsEarned > float64(q.Points) {
				t.Errorf("earned %v > %d points", got.PointsEarned, q.Points)
			}
			if !strings.Contains(mock.Calls[0].Messages[0].Content, "Correctness (40%)") {
				t.Errorf("rubric prompt not used")
			}
			if mock.Calls[0].MaxTokens != generator.GradeParams.MaxTokens {
				t.Errorf("max tokens = %d", mock.Calls[0].MaxTokens)
			}
		})
	}
}

func TestGradeCountsEachQuestionOnce(t *testing.T) {
	g := NewGrader(newGen(llm.NewMockProvider()), nil)
	questions := []model.QuizQuestion{
		{ID: 1, Text: "Pick A", Type: model.TypeMultipleChoice, CorrectAnswer: "a", Points: 10},
		{ID: 2, Text: "Pick B", Type: model.TypeMultipleChoice, CorrectAnswer: "b", Points: 10},
	}
	res := g.Grade(context.Background(), questions, []Answer{
		{QuestionID: 1, UserAnswer: "a"},
		{QuestionID: 1, UserAnswer: "a"},
		{QuestionID: 1, UserAnswer: "x"},
		{QuestionID: 2, UserAnswer: "x"},
	})

	if len(res.Questions) != 2 {
		t.Fatalf("got %d results, want 2", len(res.Questions))
	}
	if res.Questions[0].UserAnswer != "a" || !res.Questions[0].IsCorrect {
		t.Errorf("q1 = %+v, want the first answer graded", res.Questions[0])
	}
	if res.TotalScore != 10 || res.MaxScore != 20 || res.Percentage != 50 {
		t.Errorf("totals = %v/%v (%v%%), want 10/20 (50%%)", res.TotalScore, res.MaxScore, res.Percentage)
	}
}

func TestGradeSkipsUnknownQuestionsAndEmpty(t *testing.T) {
	g := NewGrader(newGen(llm.NewMockProvider()), nil)
	res := g.Grade(context.Background(), nil, []Answer{{QuestionID: 99, UserAnswer: "x"}})
	if len(res.Questions) != 0 || res.MaxScore != 0 || res.Percentage != 0 {
		t.Errorf("result = %+v, want empty with 0%%", res)
	}
}

func TestGradeKeepsAnswerOrderWithParallelRubric(t *testing.T) {
	mock := llm.RepeatingMock(llm.MockResponse{Text: "80"})
	g := NewGrader(newGen(mock), nil)

	var questions []model.QuizQuestion
	var answers []Answer
	for i := int64(1); i <= 9; i++ {
		qt := model.TypeFillBlank
		if i%3 == 0 {
			qt = model.TypeMultipleChoice
		}
		questions = append(questions, model.QuizQuestion{ID: i, Type: qt, CorrectAnswer: "x", Points: 10})
		answers = append(answers, Answer{QuestionID: 10 - i, UserAnswer: "x", TimeTakenSeconds: int(i)})
	}
	res := g.Grade(context.Background(), questions, answers)

	for i, r := range res.Questions {
		if r.QuestionID != int64(9-i) {
			t.Fatalf("result %d is question %d, want %d", i, r.QuestionID, 9-i)
		}
	}
	if res.TimeTaken() != 45 {
		t.Errorf("time taken = %d, want 45", res.TimeTaken())
	}
	if res.Correct() != 9 {
		t.Errorf("correct = %d, want 9", res.Correct())
	}
	if mock.CallCount() != 6 {
		t.Errorf("rubric calls = %d, want 6", mock.CallCount())
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"85", 85},
		{"I'd give it 72 out of 100", 72},
		{"", 50},
		{"none", 50},
		{"999", 100},
		{"99999999999999999999999", 100},
	}
	for _, tt := range tests {
		if got := ParseScore(tt.in); got != tt.want {
			t.Errorf("ParseScore(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIncrement(t *testing.T) {
	tests := []struct {
		pct  float64
		want float64
	}{
		{100, 5}, {80, 5}, {79.9, 3}, {60, 3}, {59.9, 1}, {0, 1},
	}
	for _, tt := range tests {
		if got := Increment(tt.pct); got != tt.want {
			t.Errorf("Increment(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestProgressScenario(t *testing.T) {
	if got := ApplyIncrement(45, Increment(82)); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}
	if got := ApplyIncrement(98, Increment(90)); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}
	if got := Smooth(40, 80); got != 60 {
		t.Errorf("Smooth = %v, want 60", got)
	}
}

func TestResolveDifficultyAndPoints(t *testing.T) {
	tests := []struct {
		progress float64
		want     model.Difficulty
		points   int
	}{
		{0, model.DifficultyBeginner, 10},
		{29.9, model.DifficultyBeginner, 10},
		{30, model.DifficultyIntermediate, 15},
		{69.9, model.DifficultyIntermediate, 15},
		{70, model.DifficultyAdvanced, 20},
	}
	for _, tt := range tests {
		d := ResolveDifficulty(tt.progress)
		if d != tt.want || Points(d) != tt.points {
			t.Errorf("ResolveDifficulty(%v) = %s (%d points), want %s (%d)", tt.progress, d, Points(d), tt.want, tt.points)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("coding", model.DifficultyBeginner); got != "Coding Quiz - Beginner" {
		t.Errorf("Title = %q", got)
	}
}

func TestRecommend(t *testing.T) {
	t.Run("empty progress", func(t *testing.T) {
		recs := Recommend(nil)
		if len(recs) != 1 || recs[0].Subject != "coding" || recs[0].Difficulty != model.DifficultyBeginner || recs[0].QuizType != model.TypeMixed {
			t.Fatalf("recs = %+v", recs)
		}
	})

	t.Run("weakest first", func(t *testing.T) {
		recs := Recommend(map[string]float64{"math": 45, "coding": 20, "physics": 85, "ielts": 55})
		want := []struct {
			subject    string
			difficulty model.Difficulty
			priority   Priority
		}{
			{"coding", model.DifficultyBeginner, PriorityHigh},
			{"ielts", model.DifficultyIntermediate, PriorityMedium},
			{"math", model.DifficultyBeginner, PriorityMedium},
		}
		if len(recs) != len(want) {
			t.Fatalf("recs = %+v", recs)
		}
		for i, w := range want {
			r := recs[i]
			if r.Subject != w.subject || r.Difficulty != w.difficulty || r.Priority != w.priority {
				t.Errorf("recs[%d] = %+v, want %+v", i, r, w)
			}
		}
		if !strings.Contains(recs[0].Reason, "(20.0%)") {
			t.Errorf("reason = %q", recs[0].Reason)
		}
	})

	t.Run("weakest thresholds", func(t *testing.T) {
		tests := []struct {
			score float64
			want  model.Difficulty
		}{
			{29, model.DifficultyBeginner},
			{30, model.DifficultyIntermediate},
			{59, model.DifficultyIntermediate},
			{60, model.DifficultyAdvanced},
		}
		for _, tt := range tests {
			if got := Recommend(map[string]float64{"math": tt.score})[0].Difficulty; got != tt.want {
				t.Errorf("score %v: difficulty %s, want %s", tt.score, got, tt.want)
			}
		}
	})

	t.Run("ties broken by name", func(t *testing.T) {
		recs := Recommend(map[string]float64{"physics": 10, "math": 10})
		if recs[0].Subject != "math" {
			t.Errorf("weakest = %s, want math", recs[0].Subject)
		}
	})
}
