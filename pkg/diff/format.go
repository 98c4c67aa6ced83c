package diff

import (
	"fmt"
	"strings"
)

// Report is the change report for one file.
type Report struct {
	Path    string
	Mode    Mode
	Records []Record
}

// Empty reports whether the two compared texts were identical.
func (r *Report) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// String renders the report with Format.
func (r *Report) String() string {
	if r == nil {
		return ""
	}
	return Format(r.Records)
}

// Format produces the human-readable change report.
//
// Output format, one block per record:
//
//	Line 2:
//	- old text
//	+ new text
//
// The header line ends with a space before the newline. Added records
// omit the "-" line and Deleted records omit the "+" line. No records
// render as the empty string.
func Format(records []Record) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "Line %d: \n", rec.Line)
		switch rec.Kind {
		case Changed:
			fmt.Fprintf(&b, "- %s\n+ %s\n", rec.Old, rec.New)
		case Added:
			fmt.Fprintf(&b, "+ %s\n", rec.New)
		case Deleted:
			fmt.Fprintf(&b, "- %s\n", rec.Old)
		}
	}
	return b.String()
}
