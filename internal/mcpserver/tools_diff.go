package mcpserver

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/truespec/truespec/differ"
	"github.com/truespec/truespec/report"
)

type diffInput struct {
	Base         specInput `json:"base"                    jsonschema:"The base/original OpenAPI document"`
	Head         specInput `json:"head"                    jsonschema:"The revised OpenAPI document to compare against the base"`
	BreakingOnly bool      `json:"breaking_only,omitempty" jsonschema:"Only include breaking findings"`
	NoMarkdown   bool      `json:"no_markdown,omitempty"   jsonschema:"Omit the rendered Markdown summary"`
}

type diffFinding struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation,omitempty"`
}

type diffOutput struct {
	TotalFindings int           `json:"total_findings"`
	BreakingCount int           `json:"breaking_count"`
	WarningCount  int           `json:"warning_count"`
	InfoCount     int           `json:"info_count"`
	Findings      []diffFinding `json:"findings,omitempty"`
	Markdown      string        `json:"markdown,omitempty"`
	Summary       string        `json:"summary"`
}

func handleDiff(ctx context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	base, err := input.Base.resolve(ctx)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	head, err := input.Head.resolve(ctx)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	rep, err := differ.Diff(base, head)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	output := diffOutput{
		Findings: makeSlice[diffFinding](len(rep.Items)),
	}

	for _, f := range rep.Items {
		// When breaking_only is set, skip non-breaking findings.
		if input.BreakingOnly && f.Severity != differ.SeverityBreaking {
			continue
		}

		finding := diffFinding{
			Severity: f.Severity.String(),
			Code:     string(f.Code),
			Message:  f.Message,
		}
		if f.Operation != nil {
			finding.Operation = f.Operation.String()
		}
		output.Findings = append(output.Findings, finding)

		// Count by severity from the displayed findings.
		switch f.Severity {
		case differ.SeverityBreaking:
			output.BreakingCount++
		case differ.SeverityWarning:
			output.WarningCount++
		default:
			output.InfoCount++
		}
	}

	output.TotalFindings = len(output.Findings)
	if !input.NoMarkdown {
		output.Markdown = report.Markdown(rep)
	}
	output.Summary = buildDiffSummary(output)

	return nil, output, nil
}

func buildDiffSummary(output diffOutput) string {
	if output.TotalFindings == 0 {
		return "No differences found."
	}

	summary := ""
	if output.BreakingCount > 0 {
		summary = "Breaking changes detected. "
	}

	summary += formatCount(output.TotalFindings, "finding") + " reported"
	if output.BreakingCount > 0 {
		summary += " (" + formatCount(output.BreakingCount, "breaking change") + ")."
	} else {
		summary += "."
	}

	return summary
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
