package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
)

func checklistFor(snap store.Snapshot) markdown.Checklist {
	return markdown.NewChecklist("Tasks", snap.Visible.Tasks, snap.Mode, snap.Stats, nowFunc())
}

func renderChecklist(snap store.Snapshot) (string, error) {
	return markdown.RenderMarkdown(checklistFor(snap).Body())
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export visible tasks as a markdown checklist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := checklistFor(st.Snapshot()).Marshal()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add the items of a markdown checklist (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}
		c, err := markdown.ParseChecklist(in)
		if err != nil {
			return err
		}
		if len(c.Items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
			return nil
		}

		// Checklists list the newest first; add oldest first so order survives.
		items := slices.Clone(c.Items)
		slices.Reverse(items)

		rend.muted = true
		for _, it := range items {
			t, err := st.Add(cmd.Context(), it.Text)
			if err != nil && !isPersistErr(err) {
				rend.muted = false
				return err
			}
			if it.Completed {
				if _, err := st.Toggle(cmd.Context(), t.ID); err != nil && !isPersistErr(err) {
					rend.muted = false
					return err
				}
			}
		}
		rend.muted = false

		st.SetFilter(st.Filter())
		if err := st.LastPersistErr(); err != nil {
			_ = nonFatal(cmd, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s)\n", len(items))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
