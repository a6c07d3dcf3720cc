package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/watchparty/cli/pkg/config"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Field is one line of a record. Records keep their field order.
type Field struct {
	Key   string
	Value interface{}
}

// Table is a rendered list: one row per item, cells already formatted
type Table struct {
	Headers []string
	Rows    [][]string
}

// Printer writes command results in one format. Data goes to Out, status
// messages to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format OutputFormat
}

// New returns a printer writing both streams to w
func New(w io.Writer, format OutputFormat) *Printer {
	return &Printer{Out: w, Err: w, Format: format}
}

// Default prints to the color-aware stdout/stderr in the configured format
func Default() *Printer {
	return &Printer{Out: color.Output, Err: color.Error, Format: GetOutputFormat()}
}

// JSON writes v as indented JSON regardless of format
func (p *Printer) JSON(v interface{}) error {
	data, err := codec.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Out, string(data))
	return err
}

// Print writes a value: JSON in json mode, else a title and pretty JSON
func (p *Printer) Print(title string, data interface{}) error {
	if p.Format == FormatJSON {
		return p.JSON(data)
	}
	if title != "" {
		color.New(color.Bold).Fprintf(p.Out, "%s:\n", title)
	}
	return p.JSON(data)
}

// PrintList writes a list. raw is what json mode emits; t is what the
// human formats render. An empty table prints empty instead.
func (p *Printer) PrintList(title string, raw interface{}, t Table, empty string) error {
	if p.Format == FormatJSON {
		return p.JSON(raw)
	}
	if len(t.Rows) == 0 {
		p.Info("%s", empty)
		return nil
	}

	if p.Format == FormatText && title != "" {
		color.New(color.Bold).Fprintf(p.Out, "%s (%d)\n\n", title, len(t.Rows))
	}
	p.table(t.Headers, t.Rows)
	return nil
}

// PrintRecord writes a single object. raw is what json mode emits.
func (p *Printer) PrintRecord(title string, raw interface{}, fields []Field) error {
	switch p.Format {
	case FormatJSON:
		return p.JSON(raw)
	case FormatTable:
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Key, cell(f.Value)})
		}
		p.table([]string{"Field", "Value"}, rows)
		return nil
	}

	if title != "" {
		color.New(color.Bold, color.Underline).Fprintln(p.Out, title)
	}
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	bold := color.New(color.Bold)
	for _, f := range fields {
		bold.Fprintf(p.Out, "  %-*s  ", width+1, f.Key+":")
		fmt.Fprintln(p.Out, cell(f.Value))
	}
	return nil
}

// Success prints a success message. Status messages are suppressed in json
// mode so stdout stays machine readable.
func (p *Printer) Success(msg string, args ...interface{}) {
	p.status(color.FgGreen, "✓ ", msg, args...)
}

// Info prints an informational message
func (p *Printer) Info(msg string, args ...interface{}) {
	p.status(color.FgCyan, "", msg, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(msg string, args ...interface{}) {
	p.status(color.FgYellow, "Warning: ", msg, args...)
}

// Error prints an error message. Errors are printed in every format.
func (p *Printer) Error(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(p.Err, "Error: "+msg+"\n", args...)
}

func (p *Printer) status(attr color.Attribute, prefix, msg string, args ...interface{}) {
	if p.Format == FormatJSON {
		return
	}
	color.New(attr).Fprintf(p.Err, prefix+msg+"\n", args...)
}

func (p *Printer) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	bold.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func cell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case []string:
		if len(val) == 0 {
			return "-"
		}
		return strings.Join(val, ", ")
	}
	return fmt.Sprintf("%v", v)
}

// Print outputs data in the configured format with optional title
func Print(title string, data interface{}) error {
	return Default().Print(title, data)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	Default().Success(msg, args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	Default().Error(msg, args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	Default().Info(msg, args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	Default().Warning(msg, args...)
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := codec.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
