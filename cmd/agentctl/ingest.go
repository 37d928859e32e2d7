package main

import (
	"context"
	"fmt"

	"okada-agent-be/internal/bootstrap"
	"okada-agent-be/internal/config"
	"okada-agent-be/internal/dto"
	"okada-agent-be/pkg/ingest"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var session, file, fileType string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index a file for a chat session and attach it",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()

			n, err := attachAndIngest(cmd.Context(), container, session, file, fileType)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s for session %s\n", n, file, session)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "chat session id")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to index")
	cmd.Flags().StringVarP(&fileType, "type", "t", "", "file type (csv, json, txt, md); defaults to the extension")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func buildContainer(ctx context.Context) (*bootstrap.Container, error) {
	cfg := config.Load()
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return bootstrap.NewContainer(ctx, db, cfg)
}

// attachAndIngest records the file on the session and indexes it in the
// foreground instead of through the queue.
func attachAndIngest(ctx context.Context, c *bootstrap.Container, session, file, fileType string) (int, error) {
	fileType = ingest.FileType(file, fileType)
	if _, err := c.IngestionService.AttachFile(ctx, session, &dto.AttachFileRequest{FilePath: file, FileType: fileType}); err != nil {
		return 0, err
	}
	return c.IngestionService.Ingest(ctx, session, file, fileType)
}
