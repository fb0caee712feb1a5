package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage classes",
	Long: `Create, list and delete classes. A class groups the documents you
upload and scopes every question you ask.

Examples:
  study class list
  study class create "Biology 101"
  study class delete "Biology 101"`,
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your classes",
	RunE:  runClassList,
}

var classCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a class",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassCreate,
}

var classDeleteCmd = &cobra.Command{
	Use:   "delete [name or id]",
	Short: "Delete a class and all its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassDelete,
}

func init() {
	classCmd.AddCommand(classListCmd)
	classCmd.AddCommand(classCreateCmd)
	classCmd.AddCommand(classDeleteCmd)
	rootCmd.AddCommand(classCmd)
}

func runClassList(cmd *cobra.Command, _ []string) error {
	if classService == nil {
		return errors.New("class service not configured")
	}
	if err := classService.Refresh(context.Background()); err != nil {
		return err
	}

	classes := classService.Classes()
	if len(classes) == 0 {
		cmd.Println("No classes yet. Create one with 'study class create <name>'.")
		return nil
	}

	selected := classService.Selected()
	for _, c := range classes {
		marker := " "
		if selected != nil && selected.ID == c.ID {
			marker = "*"
		}
		cmd.Printf("%s %-30s %s\n", marker, c.Name, c.ID)
	}
	return nil
}

func runClassCreate(cmd *cobra.Command, args []string) error {
	if classService == nil {
		return errors.New("class service not configured")
	}
	name := args[0]
	if err := classService.Create(context.Background(), name); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return errors.New("class name must not be empty")
		}
		return err
	}
	cmd.Printf("Created class %q\n", strings.TrimSpace(name))
	return nil
}

func runClassDelete(cmd *cobra.Command, args []string) error {
	if classService == nil {
		return errors.New("class service not configured")
	}
	ctx := context.Background()
	class, err := resolveClass(ctx, args[0])
	if err != nil {
		return err
	}
	if err := classService.Delete(ctx, class.ID); err != nil {
		return err
	}
	cmd.Printf("Deleted class %q\n", class.Name)
	return nil
}

// resolveClass finds a class by exact name or id, refreshing the local
// set first.
func resolveClass(ctx context.Context, nameOrID string) (*domain.Class, error) {
	if err := classService.Refresh(ctx); err != nil {
		return nil, err
	}
	for _, c := range classService.Classes() {
		if c.ID == nameOrID || c.Name == nameOrID {
			class := c
			return &class, nil
		}
	}
	return nil, fmt.Errorf("no class named %q", nameOrID)
}

// selectClass resolves the --class flag, or falls back to the current
// selection when the flag is empty.
func selectClass(ctx context.Context, flag string) (*domain.Class, error) {
	if flag != "" {
		class, err := resolveClass(ctx, flag)
		if err != nil {
			return nil, err
		}
		classService.Select(class.ID)
		return class, nil
	}
	if err := classService.Refresh(ctx); err != nil {
		return nil, err
	}
	class := classService.Selected()
	if class == nil {
		return nil, errors.New("no class available (create one with 'study class create')")
	}
	return class, nil
}
