// Package report renders differ reports into the stable Markdown summary
// document downstream tooling consumes. The structured form is the
// differ.Report value itself.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/truespec/truespec/differ"
)

// severityOrder fixes the section order of the Markdown rendering.
var severityOrder = []differ.Severity{
	differ.SeverityBreaking,
	differ.SeverityWarning,
	differ.SeverityInfo,
}

// Markdown renders a report into the summary document format. The output is
// line-terminated with \n and byte-stable for equal reports.
func Markdown(r *differ.Report) string {
	// A Caser is stateful and not safe for concurrent use, so each render
	// gets its own.
	titleCaser := cases.Title(language.English)

	var b strings.Builder

	b.WriteString("## TrueSpec Summary\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Breaking: %d\n", r.Summary.Breaking)
	fmt.Fprintf(&b, "- Warning: %d\n", r.Summary.Warning)
	fmt.Fprintf(&b, "- Info: %d\n", r.Summary.Info)

	if len(r.Items) == 0 {
		b.WriteString("\nNo differences found.\n")
		return b.String()
	}

	for _, sev := range severityOrder {
		var messages []string
		for _, f := range r.Items {
			if f.Severity == sev {
				messages = append(messages, f.Message)
			}
		}
		if len(messages) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n### %s (%d)\n", titleCaser.String(sev.String()), len(messages))
		for _, msg := range messages {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	return b.String()
}
