// limpet - fixed-memory JSON engine CLI
//
// Usage:
//
//	limpet validate [options] [file]   Check that input is well-formed JSON
//	limpet fmt [options] [file]        Normalize and re-indent JSON
//	limpet convert [options] [file]    Convert between JSON and CBOR
//	limpet hash [options] [file...]    Print BLAKE3 digests of canonical JSON
//	limpet version                     Print version info
//
// Every subcommand parses through the engine, so input is validated and
// normalized to canonical text before further processing.
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/pretty"

	"github.com/Neumenon/limpet/bridge"
	"github.com/Neumenon/limpet/limpet"
	"github.com/Neumenon/limpet/stream"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		cmdValidate(os.Args[2:])
	case "fmt":
		cmdFmt(os.Args[2:])
	case "convert":
		cmdConvert(os.Args[2:])
	case "hash":
		cmdHash(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("limpet %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `limpet - fixed-memory JSON engine CLI

Usage:
  limpet validate [options] [file]   Check that input is well-formed JSON
  limpet fmt [options] [file]        Normalize and re-indent JSON
  limpet convert [options] [file]    Convert between JSON and CBOR
  limpet hash [options] [file...]    Print BLAKE3 digests of canonical JSON
  limpet version                     Print version info

Options:
  --config PATH    YAML configuration file (default: $LIMPET_CONFIG)
  -c, --jsonc      Accept // comments and trailing commas on JSON input
  -q, --quiet      validate: no output, status code only
  --ugly           fmt: minified one-line output
  --indent STR     fmt: indentation per nesting level (default two spaces)
  --to FORMAT      convert: target format, cbor or json (default cbor)
  --pretty         convert: indent JSON output

If no file is given, reads from stdin.

Examples:
  echo '{ "b": 1, "a": 2 }' | limpet fmt --ugly
  # Output: {"b":1,"a":2}

  echo '{"n":0.1}' | limpet hash
  # Output: <64 hex digits>  -

  limpet convert --to cbor doc.json > doc.cbor
  limpet convert --to json doc.cbor | limpet validate
`)
}

// cmdValidate: parse input, report well-formedness via exit status.
func cmdValidate(args []string) {
	flags := pflag.NewFlagSet("validate", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML configuration")
	acceptJSONC := flags.BoolP("jsonc", "c", false, "accept comments and trailing commas")
	quiet := flags.BoolP("quiet", "q", false, "no output, status code only")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	c := newContext(cfg)
	defer c.Close()

	data := readInput(flags.Arg(0))
	if err := readDocument(c, data, *acceptJSONC); err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "limpet: invalid: %v\n", err)
		}
		os.Exit(1)
	}
	if !*quiet {
		fmt.Println("valid")
	}
}

// cmdFmt: parse input and re-emit it indented (or minified).
func cmdFmt(args []string) {
	flags := pflag.NewFlagSet("fmt", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML configuration")
	acceptJSONC := flags.BoolP("jsonc", "c", false, "accept comments and trailing commas")
	ugly := flags.Bool("ugly", false, "minified one-line output")
	indent := flags.String("indent", "  ", "indentation per nesting level")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	ind := *indent
	if !flags.Changed("indent") && cfg.Format.Indent != "" {
		ind = cfg.Format.Indent
	}

	c := newContext(cfg)
	defer c.Close()

	data := readInput(flags.Arg(0))
	if err := readDocument(c, data, *acceptJSONC); err != nil {
		fatal("parse input: %v", err)
	}

	out, err := stream.AppendValue(c, nil)
	if err != nil {
		fatal("serialize: %v", err)
	}

	if *ugly {
		os.Stdout.Write(pretty.Ugly(out))
		fmt.Println()
		return
	}
	os.Stdout.Write(pretty.PrettyOptions(out, &pretty.Options{
		Width:    80,
		Indent:   ind,
		SortKeys: cfg.Format.SortKeys,
	}))
}

// cmdConvert: JSON -> deterministic CBOR, or CBOR -> canonical JSON.
func cmdConvert(args []string) {
	flags := pflag.NewFlagSet("convert", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML configuration")
	acceptJSONC := flags.BoolP("jsonc", "c", false, "accept comments and trailing commas")
	target := flags.String("to", "cbor", "target format: cbor or json")
	prettyOut := flags.Bool("pretty", false, "indent JSON output")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	c := newContext(cfg)
	defer c.Close()

	data := readInput(flags.Arg(0))

	switch *target {
	case "cbor":
		if err := readDocument(c, data, *acceptJSONC); err != nil {
			fatal("parse input: %v", err)
		}
		blob, err := bridge.MarshalCBOR(c)
		if err != nil {
			fatal("encode cbor: %v", err)
		}
		os.Stdout.Write(blob)

	case "json":
		if err := bridge.UnmarshalCBOR(c, data); err != nil {
			fatal("decode cbor: %v", err)
		}
		out, err := stream.AppendValue(c, nil)
		if err != nil {
			fatal("serialize: %v", err)
		}
		if *prettyOut {
			os.Stdout.Write(pretty.Pretty(out))
			return
		}
		os.Stdout.Write(out)
		fmt.Println()

	default:
		fatal("unknown target format: %s", *target)
	}
}

// cmdHash: print the BLAKE3 digest of each input's canonical text.
func cmdHash(args []string) {
	flags := pflag.NewFlagSet("hash", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to YAML configuration")
	acceptJSONC := flags.BoolP("jsonc", "c", false, "accept comments and trailing commas")
	flags.Parse(args)

	cfg := loadConfig(*configPath)
	c := newContext(cfg)
	defer c.Close()

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	for _, path := range paths {
		c.Reset()
		data := readInput(path)
		if err := readDocument(c, data, *acceptJSONC); err != nil {
			fatal("%s: %v", displayName(path), err)
		}
		d, err := stream.HashValue(c)
		if err != nil {
			fatal("%s: %v", displayName(path), err)
		}
		fmt.Printf("%s  %s\n", stream.FormatDigest(d), displayName(path))
	}
}

// readDocument parses data onto a fresh epoch of c, optionally
// stripping JSONC extensions first.
func readDocument(c *limpet.Context, data []byte, acceptJSONC bool) error {
	if acceptJSONC {
		return bridge.ReadJSONC(c, data)
	}
	return stream.ReadBytes(c, data)
}

// readInput returns the whole input: the named file, or stdin for ""
// and "-".
func readInput(path string) []byte {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("read stdin: %v", err)
		}
		return data
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("read input: %v", err)
	}
	return data
}

func displayName(path string) string {
	if path == "" {
		return "-"
	}
	return path
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "limpet: "+format+"\n", args...)
	os.Exit(1)
}
