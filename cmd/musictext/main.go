// musictext - plain-text music notation CLI tool
//
// Usage:
//
//	musictext lily [--minimal] [--source] [file]   Render LilyPond source
//	musictext score [file]                         Render 2-D score JSON
//	musictext spans [--styles] [file]              Render editor spans JSON
//	musictext check [file]                         Parse and report errors/warnings
//	musictext version                              Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neumenon/musictext/musictext"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	minimal := false
	sourceComment := false
	withStyles := false
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--minimal":
			minimal = true
		case arg == "--source":
			sourceComment = true
		case arg == "--styles":
			withStyles = true
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "lily":
		res := parseInput(input)
		opts := musictext.DefaultLilyOptions()
		opts.Minimal = minimal
		opts.SourceComment = sourceComment
		fmt.Print(musictext.EmitLilyWithOptions(res.Document, opts))
	case "score":
		res := parseInput(input)
		out, err := musictext.EmitScoreJSON(res.Document)
		if err != nil {
			fatal("encode score: %v", err)
		}
		fmt.Println(out)
	case "spans":
		res := parseInput(input)
		spans, styles := musictext.EmitSpanStyles(res.Document)
		var payload interface{} = spans
		if withStyles {
			payload = map[string]interface{}{"spans": spans, "styles": styles}
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fatal("encode spans: %v", err)
		}
		fmt.Println(string(out))
	case "check":
		cmdCheck(input)
	case "version", "-v", "--version":
		fmt.Printf("musictext %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// parseInput reads all input and parses it, dying on structural errors.
func parseInput(r io.Reader) *musictext.ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	res := musictext.Parse(string(data))
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
	}
	if res.HasErrors() {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		os.Exit(1)
	}
	return res
}

// cmdCheck parses and reports without rendering anything.
func cmdCheck(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	res := musictext.Parse(string(data))
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w.Error())
	}
	for _, e := range res.Errors {
		fmt.Printf("error: %s\n", e.Error())
	}
	staves := res.Document.Staves()
	fmt.Printf("%d stave(s), %d directive(s), %d error(s), %d warning(s)\n",
		len(staves), len(res.Document.Directives), len(res.Errors), len(res.Warnings))
	if res.HasErrors() {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `musictext - plain-text music notation tool

Usage:
  musictext lily [--minimal] [--source] [file]   Render LilyPond source
  musictext score [file]                         Render 2-D score JSON
  musictext spans [--styles] [file]              Render editor spans JSON
  musictext check [file]                         Parse and report errors/warnings
  musictext version                              Print version info

Options:
  --minimal     Emit just the music expression, no header or layout
  --source      Reproduce the input as a comment in the output
  --styles      Include the editor style stream alongside the spans

If no file is given, reads from stdin.

Examples:
  echo "|1 2 3" | musictext lily --minimal
  # Output: \fixed c' { | c4 d4 e4 }

  musictext score melody.txt > melody.json
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "musictext: "+format+"\n", args...)
	os.Exit(1)
}
