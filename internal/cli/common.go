package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}

// StartSpinner shows a progress spinner on stderr. It returns nil in quiet
// mode; StopSpinner accepts nil.
func StartSpinner(quiet bool, suffix string) *spinner.Spinner {
	if quiet {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s
}

// StopSpinner stops s and prints msg in its place when msg is not empty.
func StopSpinner(s *spinner.Spinner, msg string) {
	if s == nil {
		return
	}
	if msg != "" {
		s.FinalMSG = msg + "\n"
	}
	s.Stop()
}
