package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/quiz"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		subject, _ := cmd.Flags().GetString("subject")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		qtype, _ := cmd.Flags().GetString("type")
		count, _ := cmd.Flags().GetInt("count")

		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.Log.Sync()

		ctx := cmd.Context()
		users := a.Store.Users()
		user, err := users.GetByUsername(ctx, username)
		if errors.Is(err, store.ErrNotFound) {
			user, err = users.Create(ctx, username, "")
		}
		if err != nil {
			return fmt.Errorf("load learner: %w", err)
		}

		fmt.Println("Authoring quiz...")
		q, questions, err := a.Quizzes.Create(ctx, user.ID, quiz.CreateRequest{
			Subject:    subject,
			Difficulty: model.Difficulty(difficulty),
			Type:       model.QuestionType(qtype),
			Count:      count,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n%s (%d questions)\n", q.Title, len(questions))
		fmt.Println(strings.Repeat("─", 60))

		in := bufio.NewScanner(os.Stdin)
		answers := make([]quiz.Answer, 0, len(questions))
		for _, question := range questions {
			fmt.Printf("\n%d. %s\n", question.Order, question.Text)
			for i, opt := range question.Options {
				fmt.Printf("   %c) %s\n", 'a'+i, opt)
			}
			fmt.Print("> ")
			start := time.Now()
			if !in.Scan() {
				break
			}
			answers = append(answers, quiz.Answer{
				QuestionID:       question.ID,
				UserAnswer:       resolveChoice(strings.TrimSpace(in.Text()), question.Options),
				TimeTakenSeconds: int(time.Since(start).Seconds()),
			})
		}
		if err := in.Err(); err != nil {
			return fmt.Errorf("read answers: %w", err)
		}

		res, err := a.Quizzes.Submit(ctx, user.ID, q.ID, answers)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(strings.Repeat("─", 60))
		for _, r := range res.Result.Questions {
			mark := "✗"
			if r.IsCorrect {
				mark = "✓"
			}
			fmt.Printf("%s %s\n  your answer: %s | correct: %s\n", mark, r.QuestionText, r.UserAnswer, r.CorrectAnswer)
		}
		fmt.Printf("\nScore: %.1f / %.1f (%.0f%%)\n", res.Result.TotalScore, res.Result.MaxScore, res.Result.Percentage)
		fmt.Printf("%s progress: %.1f (+%.0f)\n", q.Subject, res.Progress, res.Increment)
		return nil
	},
}

// resolveChoice maps a letter answer ("b") to its option text.
func resolveChoice(answer string, options []string) string {
	if len(answer) == 1 && len(options) > 0 {
		if i := int(strings.ToLower(answer)[0] - 'a'); i >= 0 && i < len(options) {
			return options[i]
		}
	}
	return answer
}

func init() {
	f := quizCmd.Flags()
	f.StringP("user", "u", "learner", "Learner username (created when missing)")
	f.StringP("subject", "s", "coding", "Quiz subject")
	f.StringP("difficulty", "d", "auto", "beginner, intermediate, advanced or auto")
	f.StringP("type", "t", "mixed", "multiple_choice, fill_blank, code_completion or mixed")
	f.IntP("count", "n", 5, "Number of questions")
}
