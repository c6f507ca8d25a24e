package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question without a learner profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		lang, _ := cmd.Flags().GetString("language")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.Log.Sync()

		reply := a.Engine.Respond(cmd.Context(), strings.ToLower(subject), strings.Join(args, " "), lang)
		if verbose {
			fmt.Printf("request:  %s\n", reply.RequestID)
			fmt.Printf("kind:     %s\n", reply.Kind)
			switch reply.Kind {
			case tutor.KindAnswer, tutor.KindFallback, tutor.KindError:
				fmt.Printf("language: %s\n", reply.Profile.Language.Name())
				fmt.Printf("emotion:  %s (%.0f%%)\n", reply.Profile.Emotion, reply.Profile.Confidence*100)
				fmt.Printf("style:    %s\n", reply.Profile.Style)
			}
			fmt.Println()
		}
		fmt.Println(reply.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("subject", "s", "coding", "Subject corpus to draw examples from")
	askCmd.Flags().StringP("language", "l", "auto", "Reply language: auto, en or ur-Latn")
	askCmd.Flags().BoolP("verbose", "v", false, "Print the detected signals")
}
