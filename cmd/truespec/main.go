package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/truespec/truespec"
	"github.com/truespec/truespec/cmd/truespec/commands"
	"github.com/truespec/truespec/internal/mcpserver"
)

// validCommands lists all valid command names for typo suggestions
var validCommands = []string{
	"diff", "serve", "mcp", "version", "help",
}

// levenshteinDistance calculates the minimum edit distance between two strings
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range len(b) + 1 {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// suggestCommand returns the closest matching command if the edit distance is <= 2
func suggestCommand(input string) string {
	var bestMatch string
	bestDistance := 3 // Only suggest if distance <= 2

	for _, cmd := range validCommands {
		distance := levenshteinDistance(input, cmd)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = cmd
		}
	}

	return bestMatch
}

func printUsage() {
	fmt.Println("truespec - OpenAPI differential engine")
	fmt.Println()
	fmt.Println("Usage: truespec <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  diff      Compare two OpenAPI documents and report contract drift")
	fmt.Println("  serve     Run the reports HTTP adapter")
	fmt.Println("  mcp       Run the MCP server over stdio")
	fmt.Println("  version   Print the version")
	fmt.Println("  help      Show this help")
	fmt.Println()
	fmt.Println("Run 'truespec <command> -h' for command-specific flags.")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "diff":
		err = commands.HandleDiff(ctx, args)
	case "serve":
		err = commands.HandleServe(ctx, args)
	case "mcp":
		err = mcpserver.Run(ctx)
	case "version":
		fmt.Println(truespec.Version())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "truespec: unknown command %q\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "truespec: %v\n", err)
		os.Exit(1)
	}
}
