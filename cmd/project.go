package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

var projectDeleteYes bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create or delete a project",
}

var projectNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectNew,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a project",
	Long: `Delete a project. Entries recorded for it are kept.
When entries still reference the project and stdin is a terminal,
confirmation is asked for unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectDelete,
}

func init() {
	projectDeleteCmd.Flags().BoolVarP(&projectDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := app.ledger.CreateProject(name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Project %s created\n", strings.TrimSpace(name))
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	out := cmd.OutOrStdout()

	used, err := app.ledger.ProjectUsage(name)
	if err != nil {
		return err
	}
	if used > 0 && !projectDeleteYes && isTerminal(int(os.Stdin.Fd())) {
		prompt := fmt.Sprintf("%d entries reference project %s and will be kept. Delete anyway? [y/N]", used, name)
		ok, err := confirm(bufio.NewReader(cmd.InOrStdin()), prompt, out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := app.ledger.DeleteProject(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Project %s deleted\n", name)
	return nil
}

// confirm prints prompt to w and reads a yes/no answer from reader.
// Anything but "y" or "yes" is a no; EOF counts as no.
func confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	if _, err := fmt.Fprint(w, prompt+" "); err != nil {
		return false, err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
