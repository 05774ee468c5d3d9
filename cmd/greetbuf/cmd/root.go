package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// exitUsage is returned for configuration and command line errors.
const exitUsage = 2

var (
	configFile string

	// appFs is where the config file is read from.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:           "greetbuf",
	Short:         "Print a greeting held in a manually managed buffer",
	Args:          cobra.NoArgs,
	RunE:          runGreeting,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: built-in settings, nothing is read)")
}

// ExitError carries the process exit code out of a command.
// Err is reported on stderr when set; a nil Err means the command already reported the outcome.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps an error returned by rootCmd to a process exit code and reports it on stderr.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return exitUsage
}

func Execute() {
	if code := exitCode(rootCmd.Execute()); code != 0 {
		os.Exit(code)
	}
}
