package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add a task (reads one task per line from stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var texts []string
		if len(args) > 0 {
			texts = []string{strings.TrimSpace(strings.Join(args, " "))}
		} else {
			for _, line := range strings.Split(readStdin(cmd), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					texts = append(texts, line)
				}
			}
			if len(texts) == 0 {
				texts = []string{""}
			}
		}

		rend.muted = true
		for i, text := range texts {
			if i == len(texts)-1 {
				rend.muted = false
			}
			t, err := st.Add(cmd.Context(), text)
			var ve *model.ValidationError
			if errors.As(err, &ve) {
				rend.muted = false
				return fmt.Errorf("please enter a task")
			}
			if err := nonFatal(cmd, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Text)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		pretty, _ := cmd.Flags().GetBool("pretty")
		if asJSON || pretty {
			rend.muted = true
		}

		mode := st.Filter()
		st.SetFilter(mode)
		snap := st.Snapshot()

		switch {
		case asJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap.Visible.Tasks)
		case pretty:
			out, err := renderChecklist(snap)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between pending and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := id.Parse(args[0])
		if err != nil {
			return err
		}
		ok, err := st.Toggle(cmd.Context(), taskID)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No task %d\n", taskID)
			return nil
		}
		return nonFatal(cmd, err)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompleted(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a task pending again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCompleted(cmd, args[0], false)
	},
}

// setCompleted toggles only when the task is not already in the wanted state.
func setCompleted(cmd *cobra.Command, arg string, want bool) error {
	taskID, err := id.Parse(arg)
	if err != nil {
		return err
	}
	t, err := st.Get(taskID)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(cmd.OutOrStdout(), "No task %d\n", taskID)
		return nil
	}
	if t.Completed == want {
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d unchanged\n", taskID)
		return nil
	}
	_, err = st.Toggle(cmd.Context(), taskID)
	return nonFatal(cmd, err)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := id.Parse(args[0])
		if err != nil {
			return err
		}
		ok, err := st.Delete(cmd.Context(), taskID)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No task %d\n", taskID)
			return nil
		}
		return nonFatal(cmd, err)
	},
}

var clearCompletedCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := st.ClearCompleted(cmd.Context(), gate(cmd))
		if errors.Is(err, store.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err := nonFatal(cmd, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed task(s)\n", n)
		return nil
	},
}

var clearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Remove every task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := st.ClearAll(cmd.Context(), gate(cmd))
		if errors.Is(err, store.ErrCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		if err := nonFatal(cmd, err); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s)\n", n)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := st.Stats()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(s)
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.String())
		return nil
	},
}

func readStdin(cmd *cobra.Command) string {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return ""
		}
		// Only read if stdin is explicitly a pipe (not a terminal, not a socket)
		if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
			return ""
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return ""
	}
	return string(data)
}

func init() {
	listCmd.Flags().Bool("json", false, "print visible tasks as JSON")
	listCmd.Flags().Bool("pretty", false, "render as a markdown checklist")

	statsCmd.Flags().Bool("json", false, "print counts as JSON")

	clearCompletedCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	clearAllCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCompletedCmd)
	rootCmd.AddCommand(clearAllCmd)
	rootCmd.AddCommand(statsCmd)
}
