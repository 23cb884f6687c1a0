// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command mdhtml compiles a Markdown file to HTML.
//
// Usage:
//
//	mdhtml [flags] input.md
//
// By default, the output is a complete HTML document
// written next to the input with an ".html" extension.
// An input of "-" reads standard input,
// and an output of "-" writes to standard output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"zombiezen.com/go/mdhtml"
	"zombiezen.com/go/mdhtml/internal/frontmatter"
)

// tracer traces with key 'mdhtml.cli'.
func tracer() tracing.Trace {
	return tracing.Select("mdhtml.cli")
}

func main() {
	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.mdhtml.cli":   "Info",
		"trace.mdhtml.parse": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "mdhtml: error configuring tracing:", err)
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	input       string
	output      string
	fragment    bool
	escape      bool
	frontMatter bool
	document    mdhtml.DocumentOptions
}

// errUsage is returned by parseFlags when the command line is malformed.
var errUsage = errors.New("usage error")

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := new(options)
	fset := flag.NewFlagSet("mdhtml", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprintln(fset.Output(), "usage: mdhtml [flags] input.md")
		fset.PrintDefaults()
	}
	fset.StringVar(&opts.output, "o", "", "output `path` (default: input with .html extension; - for stdout)")
	fset.BoolVar(&opts.fragment, "fragment", false, "render only the compiled tree, without a document wrapper")
	fset.BoolVar(&opts.escape, "escape", false, "escape HTML special characters in text and attributes")
	fset.BoolVar(&opts.frontMatter, "frontmatter", true, "read title and lang from a YAML front matter header")
	fset.StringVar(&opts.document.Title, "title", "", "document `title` (default: front matter title or \"Title\")")
	fset.StringVar(&opts.document.Lang, "lang", "", "document `language` (default: front matter lang or \"en\")")
	tlevel := fset.String("trace", "Info", "Trace level [Debug|Info|Error]")
	if err := fset.Parse(args); err != nil {
		return nil, errUsage
	}
	if fset.NArg() != 1 {
		fset.Usage()
		return nil, errUsage
	}
	if !setTraceLevel(*tlevel) {
		fmt.Fprintf(stderr, "mdhtml: unknown trace level %q\n", *tlevel)
		return nil, errUsage
	}

	opts.input = fset.Arg(0)
	if opts.output == "" {
		if opts.input == "-" {
			opts.output = "-"
		} else {
			opts.output = strings.TrimSuffix(opts.input, filepath.Ext(opts.input)) + ".html"
			if opts.output == opts.input {
				opts.output += ".html"
			}
		}
	}
	return opts, nil
}

// setTraceLevel sets the level of the command's and the parser's tracers
// from a level name.
func setTraceLevel(name string) bool {
	level := tracing.LevelInfo
	switch strings.ToLower(name) {
	case "debug":
		level = tracing.LevelDebug
	case "info":
		level = tracing.LevelInfo
	case "error":
		level = tracing.LevelError
	default:
		return false
	}
	tracer().SetTraceLevel(level)
	tracing.Select("mdhtml.parse").SetTraceLevel(level)
	return true
}

// run executes the command and returns its exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	source, err := readInput(opts.input, stdin)
	if err != nil {
		tracer().Errorf("%v", err)
		return 1
	}
	out, err := convert(source, opts)
	if err != nil {
		tracer().Errorf("%s: %v", opts.input, err)
		return 1
	}
	if err := writeOutput(opts.output, stdout, out); err != nil {
		tracer().Errorf("%v", err)
		return 1
	}
	tracer().Infof("wrote %s", opts.output)
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	return os.WriteFile(path, data, 0o666)
}

// convert compiles Markdown source to HTML.
func convert(source []byte, opts *options) ([]byte, error) {
	text, err := decodeSource(source)
	if err != nil {
		return nil, err
	}
	docOpts := opts.document
	if opts.frontMatter {
		meta, body, err := frontmatter.Split(text)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			tracer().Debugf("front matter: title=%q lang=%q", meta.Title, meta.Lang)
			if docOpts.Title == "" {
				docOpts.Title = meta.Title
			}
			if docOpts.Lang == "" {
				docOpts.Lang = meta.Lang
			}
		}
		text = body
	}

	root, err := mdhtml.Compile(text)
	if err != nil {
		return nil, err
	}
	r := &mdhtml.HTMLRenderer{EscapeText: opts.escape}
	var out []byte
	if opts.fragment {
		out = r.AppendNode(nil, root)
	} else {
		out = r.AppendDocument(nil, root, &docOpts)
	}
	return append(out, '\n'), nil
}

// decodeSource converts source to UTF-8,
// honoring a UTF-8 or UTF-16 byte order mark.
func decodeSource(source []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), source)
	if err != nil {
		return "", fmt.Errorf("decode source: %w", err)
	}
	return string(decoded), nil
}
