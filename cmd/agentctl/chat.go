package main

import (
	"bufio"
	"fmt"
	"strings"

	"okada-agent-be/internal/dto"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var (
		session   string
		file      string
		useRAG    bool
		useWeb    bool
		showTrace bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Long:  "Reads one message per line from stdin. An empty line or /quit ends the session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			container, err := buildContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			if session == "" {
				session = uuid.NewString()
			}
			if file != "" {
				n, err := attachAndIngest(ctx, container, session, file, "")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Indexed %d chunks from %s\n", n, file)
			}
			fmt.Fprintf(out, "Session %s\n", session)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" || line == "/quit" {
					return nil
				}

				res, err := container.ChatService.SendMessage(ctx, &dto.SendChatRequest{
					SessionId:    session,
					Message:      line,
					UseRAG:       useRAG,
					UseWebSearch: useWeb,
				})
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					continue
				}
				if showTrace {
					fmt.Fprintf(out, "[%s %s %.2f] %s\n", res.MessageType, res.Strategy, res.Confidence, strings.Join(res.Path, " -> "))
				}
				for _, reply := range res.Replies {
					fmt.Fprintln(out, reply.Content)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "chat session id (random when empty)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to attach before the first message")
	cmd.Flags().BoolVar(&useRAG, "rag", true, "search the attached documents")
	cmd.Flags().BoolVar(&useWeb, "web", false, "allow web search")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the classification and route of each turn")
	return cmd
}
