// Package cli wires the cobra command tree over the application container.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/agentgate/internal/app"
	"github.com/doeshing/agentgate/internal/domain"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	chatCmd := newChatCommand(container)

	root := &cobra.Command{
		Use:   "agentgate [message]",
		Short: "AgentGate - scope-gated multi-agent assistant",
		Long:  "AgentGate routes questions to domain agents behind per-scope token exchange and synthesizes one answer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			chatCmd.SetArgs(args)
			return chatCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(chatCmd)
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newSessionCommand(container))
	root.AddCommand(newDataCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}

func newChatCommand(container *app.Container) *cobra.Command {
	var (
		session   string
		token     string
		showTrace bool
		asJSON    bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the agents a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			resp, err := container.ChatService.Process(domain.ChatRequest{
				Context:   ctx,
				Message:   strings.Join(args, " "),
				SessionID: session,
				UserToken: token,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return RenderJSON(cmd.OutOrStdout(), resp)
			}
			RenderResponse(cmd.OutOrStdout(), resp, showTrace)
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id for conversation continuity")
	cmd.Flags().StringVarP(&token, "token", "t", "default", "User token presented to the exchange")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Show the agent flow trace")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Override request timeout")

	return cmd
}
