package cmd

import (
	"fmt"
	"io"

	"netprofiler/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	appliedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	restoredStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	failedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reportResult prints the one-line outcome of an apply or revert and returns
// err marked as reported.
func reportResult(out io.Writer, result *types.ApplyResult, err error) error {
	what := "the saved snapshot"
	if result.ProfileName != "" {
		what = fmt.Sprintf("profile %q", result.ProfileName)
	}

	switch result.Outcome {
	case types.OutcomeApplied:
		fmt.Fprintf(out, "%s %s on %s: %s (verified after %d read(s))\n",
			appliedStyle.Render("APPLIED"), what, result.Interface, result.Target, result.VerifyAttempts)
		return nil
	case types.OutcomeRolledBack:
		if result.RollbackSucceeded {
			fmt.Fprintf(out, "%s %s failed on %s: %v. The previous configuration was restored.\n",
				restoredStyle.Render("ROLLED BACK"), what, result.Interface, result.Err)
		} else {
			fmt.Fprintf(out, "%s %s failed on %s: %v. Restoring the previous configuration also failed: %v. "+
				"The interface may be in neither state and needs manual attention.\n",
				failedStyle.Render("ROLLBACK FAILED"), what, result.Interface, result.Err, result.RollbackErr)
		}
	default:
		fmt.Fprintf(out, "%s %s could not be applied to %s: %v. No changes were made.\n",
			failedStyle.Render("FAILED"), what, result.Interface, result.Err)
	}

	if err == nil {
		err = result.Err
	}
	return reportedError{err: err}
}
