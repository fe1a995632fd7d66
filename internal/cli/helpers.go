package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/services/tag"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// AddOutputFlags registers the --json and --quiet flags every command carries
func AddOutputFlags(fs *pflag.FlagSet) {
	fs.Bool("json", false, "Output in JSON format")
	fs.Bool("quiet", false, "Minimal output (ID only)")
}

// IDArg returns the ID given as the first positional argument or with --id
func IDArg(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	id, _ := cmd.Flags().GetString("id")
	return strings.TrimSpace(id)
}

// ParsePriority maps a priority name or digit to its value
func ParsePriority(s string) (models.Priority, error) {
	p, ok := models.ParsePriority(s)
	if !ok {
		return 0, fmt.Errorf("%w: invalid priority '%s' (must be: low, medium, high)", storage.ErrInvalid, s)
	}
	return p, nil
}

// ParseStatus maps active/inactive (or 1/0) to a repeat task status
func ParseStatus(s string) (models.RepeatTaskStatus, error) {
	st, ok := models.ParseRepeatTaskStatus(s)
	if !ok {
		return 0, fmt.Errorf("%w: invalid status '%s' (must be: active, inactive)", storage.ErrInvalid, s)
	}
	return st, nil
}

// SplitTags turns "a, b,,a" into [a b]
func SplitTags(s string) []string {
	return tag.NormalizeTags(strings.Split(s, ","))
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime reads an RFC 3339 instant, or a local date with optional HH:MM
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid time '%s' (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)", storage.ErrInvalid, s)
}

// DayBounds returns local midnight of t and of the following day
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Confirm asks a yes/no question; anything but y or yes declines
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s (y/N): ", prompt)

	var response string
	if _, err := fmt.Fscanln(in, &response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
