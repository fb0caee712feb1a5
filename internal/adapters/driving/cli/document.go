package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage class documents",
	Long: `Upload, list and delete documents, and fetch temporary download
links. Uploaded documents are processed by the backend; 'docs list'
shows their ingestion status.

Examples:
  study docs upload syllabus.pdf notes.pdf --class "Biology 101"
  study docs list --class "Biology 101"
  study docs url <document-id>
  study docs delete <document-id>`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a class",
	RunE:  runDocsList,
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload files to a class",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsUpload,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

var docsURLCmd = &cobra.Command{
	Use:   "url [document-id]",
	Short: "Print a temporary download link",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsURL,
}

var docsClass string

func init() {
	docsListCmd.Flags().StringVar(&docsClass, "class", "", "Class name or id")
	docsUploadCmd.Flags().StringVar(&docsClass, "class", "", "Class name or id")
	docsDeleteCmd.Flags().StringVar(&docsClass, "class", "", "Class name or id")
	docsURLCmd.Flags().StringVar(&docsClass, "class", "", "Class name or id")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsURLCmd)
	rootCmd.AddCommand(docsCmd)
}

// bindDocumentClass points the document service at the class named by
// --class (or the current selection) and returns that class.
func bindDocumentClass(ctx context.Context) (*domain.Class, error) {
	if classService == nil || documentService == nil {
		return nil, errors.New("document service not configured")
	}
	class, err := selectClass(ctx, docsClass)
	if err != nil {
		return nil, err
	}
	documentService.SetClass(ctx, class.ID)
	return class, nil
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	class, err := bindDocumentClass(ctx)
	if err != nil {
		return err
	}

	docs := documentService.Documents()
	if len(docs) == 0 {
		cmd.Printf("No documents in %q yet.\n", class.Name)
		return nil
	}

	cmd.Printf("Documents in %q:\n", class.Name)
	for _, d := range docs {
		cmd.Printf("  %-30s %-12s %s\n", d.Filename, d.Status, d.ID)
	}
	if documentService.Polling() {
		cmd.Println("\nSome documents are still processing; run 'study docs list' again shortly.")
	}
	return nil
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}
	ctx := context.Background()
	class, err := bindDocumentClass(ctx)
	if err != nil {
		return err
	}

	names, err := uploadService.Upload(ctx, class.ID, args)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPayloadTooLarge):
			return errors.New("upload rejected: a file exceeds the backend's size limit")
		case errors.Is(err, domain.ErrRateLimited):
			return errors.New("upload rejected: too many requests, wait a moment and retry")
		}
		return err
	}

	cmd.Printf("Uploaded %d files to %q:\n", len(names), class.Name)
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	cmd.Println("Processing has started; check progress with 'study docs list'.")
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if _, err := bindDocumentClass(ctx); err != nil {
		return err
	}

	if err := documentService.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrDeleteInFlight) {
			return errors.New("another delete is still running, try again in a moment")
		}
		return err
	}
	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}

func runDocsURL(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if _, err := bindDocumentClass(ctx); err != nil {
		return err
	}

	url, err := documentService.DownloadURL(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no download link available for that document")
		}
		return err
	}
	cmd.Println(url)
	return nil
}
