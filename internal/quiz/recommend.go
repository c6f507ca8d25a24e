package quiz

import (
	"fmt"
	"sort"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// maintainBelow is the progress under which a non-weakest subject is still
// recommended.
const maintainBelow = 80

// Recommendation suggests the next quiz to take.
type Recommendation struct {
	Subject    string             `json:"subject"`
	Difficulty model.Difficulty   `json:"difficulty"`
	Reason     string             `json:"reason"`
	QuizType   model.QuestionType `json:"quiz_type"`
	Priority   Priority           `json:"priority"`
}

// Recommend suggests quizzes from a progress map. The weakest subject
// comes first at high priority; every other subject below 80 follows at
// medium priority in name order. Ties for weakest go to the first name.
// An empty map yields a single beginner coding starter.
func Recommend(progress map[string]float64) []Recommendation {
	if len(progress) == 0 {
		return []Recommendation{{
			Subject:    "coding",
			Difficulty: model.DifficultyBeginner,
			Reason:     "Start with basic coding concepts",
			QuizType:   model.TypeMixed,
			Priority:   PriorityHigh,
		}}
	}

	subjects := make([]string, 0, len(progress))
	for s := range progress {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	weakest := subjects[0]
	for _, s := range subjects[1:] {
		if progress[s] < progress[weakest] {
			weakest = s
		}
	}

	recs := []Recommendation{weakestRecommendation(weakest, progress[weakest])}
	for _, s := range subjects {
		score := progress[s]
		if s == weakest || score >= maintainBelow {
			continue
		}
		d := model.DifficultyBeginner
		if score > 50 {
			d = model.DifficultyIntermediate
		}
		recs = append(recs, Recommendation{
			Subject:    s,
			Difficulty: d,
			Reason:     fmt.Sprintf("Maintain your %s skills", s),
			QuizType:   model.TypeMixed,
			Priority:   PriorityMedium,
		})
	}
	return recs
}

func weakestRecommendation(subject string, score float64) Recommendation {
	r := Recommendation{Subject: subject, QuizType: model.TypeMixed, Priority: PriorityHigh}
	switch {
	case score < 30:
		r.Difficulty = model.DifficultyBeginner
		r.Reason = fmt.Sprintf("Your %s score is low (%.1f%%). Start with beginner level.", subject, score)
	case score < 60:
		r.Difficulty = model.DifficultyIntermediate
		r.Reason = fmt.Sprintf("Your %s score is moderate (%.1f%%). Try intermediate level.", subject, score)
	default:
		r.Difficulty = model.DifficultyAdvanced
		r.Reason = fmt.Sprintf("Your %s score is good (%.1f%%). Challenge yourself with advanced level.", subject, score)
	}
	return r
}
