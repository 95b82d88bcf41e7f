// Command msgscan scans PHP workspaces for translation calls and turns the
// literal message ids it finds into a JSON catalog. Call sites it cannot
// resolve to a literal are reported for manual review instead of guessed at.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "scan":
		os.Exit(runScan(args))
	case "watch":
		os.Exit(runWatch(args))
	case "diff":
		os.Exit(runDiff(args))
	case "serve":
		os.Exit(runServe(args))
	case "setup":
		runSetup(args)
	case "version":
		fmt.Printf("msgscan %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: msgscan <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan       Scan a workspace and write the message catalog")
	fmt.Println("  watch      Scan, then keep the catalog updated on file changes")
	fmt.Println("  diff       Compare the workspace against an existing catalog")
	fmt.Println("  serve      Start the MCP server over a catalog")
	fmt.Println("  setup      Register the MCP server with detected AI agents")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  --root <dir>        Workspace to scan (default: current directory)")
	fmt.Println("  --catalog <file>    Catalog path (default: .msgscan/catalog.json)")
	fmt.Println("  --pattern <src>     Translator call prefix (default: $this->translate)")
	fmt.Println("  --category <name>   Default category (default: default)")
	fmt.Println("  --verbose           Debug logging")
}

// parseFlags splits args into --flag value pairs and bare switches. Later
// occurrences win.
func parseFlags(args []string) map[string]string {
	out := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 3 || arg[:2] != "--" {
			continue
		}
		name := arg[2:]
		switch name {
		case "verbose", "json", "auto":
			out[name] = "true"
		default:
			if i+1 < len(args) {
				out[name] = args[i+1]
				i++
			}
		}
	}
	return out
}
