package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"build-in-public/internal/store"
)

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	historyDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past generations, or print one run's JSON record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfg.DBPath); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
				return nil
			}
			st, err := store.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				run, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(run.Record)
				return err
			}

			runs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			writeHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

func writeHistory(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No history recorded yet.")
		return
	}
	fmt.Fprintln(w, historyHeaderStyle.Render(fmt.Sprintf("Recent runs (%d):", len(runs))))
	fmt.Fprintln(w)
	for _, r := range runs {
		project := r.Project
		if strings.TrimSpace(project) == "" {
			project = "n/a"
		}
		fmt.Fprintf(w, "  %s  %-20s  %dm  +%d ~%d files  %d commits\n",
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			project,
			r.DurationMinutes,
			r.FilesCreated,
			r.FilesModified,
			r.Commits,
		)
		fmt.Fprintln(w, historyDimStyle.Render("    id "+r.ID+"  session "+r.SessionID))
	}
}
