// Package cli implements the study command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
	"github.com/judelwin/smart-study-assistant/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by main before Execute runs. Commands check for nil
// so the package stays testable without full wiring.
var (
	authService     driving.AuthService
	classService    driving.ClassService
	documentService driving.DocumentService
	chatService     driving.ChatService
	uploadService   driving.UploadService
)

// Services bundles everything the commands need.
type Services struct {
	Auth     driving.AuthService
	Class    driving.ClassService
	Document driving.DocumentService
	Chat     driving.ChatService
	Upload   driving.UploadService
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	authService = s.Auth
	classService = s.Class
	documentService = s.Document
	chatService = s.Chat
	uploadService = s.Upload
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "study",
	Short: "Chat with your course materials",
	Long: `study keeps your class documents in sync with the backend and lets
you ask questions about them, with every answer cited back to the
document and page it came from.

Get started:
  study register              # create an account
  study class create "Bio 101"
  study docs upload notes.pdf --class "Bio 101"
  study ask "what is covered in week 3?"
  study tui                   # interactive mode`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "Enable verbose diagnostic output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
