package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"build-in-public/internal/hook"
)

// hookCmd serves the host's Stop and SessionEnd hooks. Hooks always exit 0;
// failures are only logged at debug level.
func (a *app) hookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Session hooks (payload JSON on stdin)",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Tally activity after each assistant response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.runStopHook(cmd.InOrStdin(), os.Getenv(hook.PluginRootEnv))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "session-end",
		Short: "Remind to post after a productive session and reset the tally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.runSessionEndHook(cmd.InOrStdin(), cmd.OutOrStdout(), os.Getenv(hook.PluginRootEnv))
			return nil
		},
	})
	return cmd
}

func (a *app) runStopHook(stdin io.Reader, root string) {
	payload := hook.ReadPayload(stdin)
	act, err := hook.RecordStop(root, payload)
	if err != nil {
		a.logger.Debug("stop hook skipped", "err", err)
		return
	}
	a.logger.Debug("activity recorded",
		"responses", act.Responses,
		"files_created", act.FilesCreated,
		"files_modified", act.FilesModified,
		"git_commits", act.GitCommits,
	)
}

func (a *app) runSessionEndHook(stdin io.Reader, stdout io.Writer, root string) {
	payload := hook.ReadPayload(stdin)
	substantial, err := hook.SessionEnd(root, payload)
	if err != nil {
		a.logger.Debug("session-end hook skipped", "err", err)
		return
	}
	if substantial {
		_, _ = io.WriteString(stdout, hook.Reminder)
	}
}
