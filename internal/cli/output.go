package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer
	Err io.Writer
}

// NewFormatter reads the --json and --quiet flags of cmd and writes to the
// command's output streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// Human reports whether the formatter prints for people
func (f *OutputFormatter) Human() bool {
	return !f.JSON && !f.Quiet
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() string }); ok {
			_, err := fmt.Fprintln(f.out(), idGetter.GetID())
			return err
		}
		return nil
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]interface{}{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]interface{}{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.err(), "❌ Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(f.err(), "💡 Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports err under code and returns it wrapped with the exit code
// the process should end with
func (f *OutputFormatter) Fail(exitCode int, code string, err error, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error formatting error message: %v\n", fmtErr)
	}
	return &CodeError{Code: exitCode, Err: err, Reported: true}
}

// Printf writes human output; it is silent in JSON and quiet mode
func (f *OutputFormatter) Printf(format string, args ...interface{}) {
	if !f.Human() {
		return
	}
	fmt.Fprintf(f.out(), format, args...)
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data interface{}) error {
	if s, ok := data.(fmt.Stringer); ok {
		_, err := fmt.Fprintln(f.out(), s.String())
		return err
	}
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) err() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}
