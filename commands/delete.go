package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	deleteYes bool
	clearYes  bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one research",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole research history",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false,
		"Do not ask for confirmation")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false,
		"Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	out := cmd.OutOrStdout()

	if !deleteYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete research %s? (y/N): ", id)) {
		fmt.Fprintln(out, "Delete cancelled.")
		return nil
	}

	ack, err := newClient().Delete(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete research %s: %w", id, err)
	}
	util.LogInfo("Research deleted", util.F("id", id), util.F("status", ack.Status))

	fmt.Fprintf(out, "Research %s deleted.\n", id)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !clearYes && !confirm(cmd.InOrStdin(), out, "Clear the whole research history? This cannot be undone. (y/N): ") {
		fmt.Fprintln(out, "Clear cancelled.")
		return nil
	}

	ack, err := newClient().ClearHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear research history: %w", err)
	}
	util.LogInfo("Research history cleared", util.F("status", ack.Status))

	fmt.Fprintln(out, "Research history cleared.")
	return nil
}

// confirm prints prompt and reads one answer. Only y or Y confirms.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	var response string
	fmt.Fscanln(in, &response)
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}
