package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a class's materials",
	Long: `Ask a one-off question. The answer cites the document and page each
point came from.

Examples:
  study ask "what topics are on the midterm?"
  study ask "summarise lecture 4" --class "Biology 101"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var askClass string

func init() {
	askCmd.Flags().StringVar(&askClass, "class", "", "Class name or id")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil || classService == nil || documentService == nil {
		return errors.New("chat service not configured")
	}
	ctx := context.Background()

	class, err := selectClass(ctx, askClass)
	if err != nil {
		return err
	}
	documentService.SetClass(ctx, class.ID)
	chatService.Reset(class.ID)

	question := strings.Join(args, " ")
	if err := chatService.Submit(ctx, question); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return errors.New("question must not be empty")
		}
		return err
	}

	msgs := chatService.Messages()
	answer := msgs[len(msgs)-1]
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println("\nSources:")
		for _, c := range answer.Citations {
			if c.PageNumber > 0 {
				cmd.Printf("  %s, p. %d\n", c.Filename, c.PageNumber)
			} else {
				cmd.Printf("  %s\n", c.Filename)
			}
		}
	}
	return nil
}
