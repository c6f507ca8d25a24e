package quiz

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// MaxProgress caps every subject's progress scalar.
const MaxProgress = 100

// Increment is the progress gain for a quiz completed at percentage.
func Increment(percentage float64) float64 {
	switch {
	case percentage >= 80:
		return 5
	case percentage >= 60:
		return 3
	default:
		return 1
	}
}

// ApplyIncrement adds inc to old, capped at MaxProgress.
func ApplyIncrement(old, inc float64) float64 {
	return min(MaxProgress, old+inc)
}

// Smooth blends a 0-100 answer score into a progress scalar.
func Smooth(old float64, score int) float64 {
	return (old + float64(score)) / 2
}

// ResolveDifficulty maps a subject progress scalar to a quiz difficulty.
func ResolveDifficulty(progress float64) model.Difficulty {
	switch {
	case progress < 30:
		return model.DifficultyBeginner
	case progress < 70:
		return model.DifficultyIntermediate
	default:
		return model.DifficultyAdvanced
	}
}

// Points is the value of a question authored at d.
func Points(d model.Difficulty) int {
	switch d {
	case model.DifficultyBeginner:
		return 10
	case model.DifficultyIntermediate:
		return 15
	default:
		return 20
	}
}

// Title names a quiz, e.g. "Coding Quiz - Beginner".
func Title(subject string, d model.Difficulty) string {
	title := cases.Title(language.English)
	return fmt.Sprintf("%s Quiz - %s", title.String(subject), title.String(string(d)))
}
