// Command curv is the command-line front end for the language: it
// wires internal/system's ambient namespace, internal/driver's
// pipeline and internal/printer's value rendering together behind
// five subcommands (§A.1) — eval, repl, watch, doc and test — plus a
// man page generated straight from the urfave/cli/v2 app description.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/russross/blackfriday/v2"
	"github.com/urfave/cli/v2"

	"github.com/curv-lang/curv/internal/driver"
	"github.com/curv-lang/curv/internal/printer"
	"github.com/curv-lang/curv/internal/system"
	"github.com/curv-lang/curv/internal/value"
)

var styleNames = map[string]printer.Style{
	"c":    printer.StyleC,
	"json": printer.StyleJSON,
	"xml":  printer.StyleXML,
	"expr": printer.StyleExpr,
	"curv": printer.StyleCurv,
}

func resolveStyle(c *cli.Context) (printer.Style, error) {
	name := c.String("format")
	style, ok := styleNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown --format %q (want one of c, json, xml, expr, curv)", name)
	}
	return style, nil
}

// reportError prints err to stderr, as a JSON object when --json is
// set (so a caller scripting `curv` gets a stable machine-readable
// shape instead of parsing prose), and returns the process exit code
// it should cause.
func reportError(c *cli.Context, err error) int {
	if c.Bool("json") {
		fmt.Fprintf(os.Stderr, "{\"error\": %s}\n", jsonString(err.Error()))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}

func jsonString(s string) string {
	return printer.Print(value.FromRef(value.NewString(s)), printer.StyleJSON)
}

func main() {
	app := &cli.App{
		Name:                 "curv",
		Usage:                "a language for mathematical art and geometric modeling",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "c", Usage: "number/value print style: c, json, xml, expr, curv"},
			&cli.BoolFlag{Name: "json", Usage: "report errors as JSON instead of plain text"},
		},
		Commands: []*cli.Command{
			evalCommand,
			replCommand,
			watchCommand,
			docCommand,
			testCommand,
			manCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var evalCommand = &cli.Command{
	Name:      "eval",
	Usage:     "evaluate a .curv file and print its result",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("eval requires exactly one file argument", 1)
		}
		style, err := resolveStyle(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		d := driver.New(system.NewDefault())
		v, err := d.EvalFile(c.Args().First())
		if err != nil {
			return cli.Exit("", reportError(c, err))
		}
		fmt.Println(printer.Print(v, style))
		return nil
	},
}

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "start an interactive read-eval-print loop",
	Action: func(c *cli.Context) error {
		style, err := resolveStyle(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		d := driver.New(system.NewDefault())
		r := &driver.REPL{Driver: d, Style: style, In: os.Stdin, Out: os.Stdout}
		r.Run()
		return nil
	},
}

var watchCommand = &cli.Command{
	Name:      "watch",
	Usage:     "re-evaluate a file every time it changes on disk",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("watch requires exactly one file argument", 1)
		}
		style, err := resolveStyle(c)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		d := driver.New(system.NewDefault())

		stop := make(chan struct{})
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		go func() {
			<-sig
			close(stop)
		}()

		return d.Watch(c.Args().First(), style, os.Stdout, stop)
	},
}

var testCommand = &cli.Command{
	Name:      "test",
	Usage:     "run a file's `test name = expr` assertions",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("test requires exactly one file argument", 1)
		}
		d := driver.New(system.NewDefault())
		results, err := d.RunTests(c.Args().First())
		if err != nil {
			return cli.Exit("", reportError(c, err))
		}
		if !driver.PrintTestResults(os.Stdout, results) {
			return cli.Exit("", 1)
		}
		return nil
	},
}

var docCommand = &cli.Command{
	Name:      "doc",
	Usage:     "print documentation for a topic as plain text",
	ArgsUsage: "<topic>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("doc requires exactly one topic argument", 1)
		}
		topic := c.Args().First()
		md, ok := docTopics[topic]
		if !ok {
			return cli.Exit(fmt.Sprintf("no documentation for %q", topic), 1)
		}
		html := blackfriday.Run([]byte(md))
		fmt.Println(stripTags(string(html)))
		return nil
	},
}

var manCommand = &cli.Command{
	Name:  "man",
	Usage: "print the curv man page",
	Action: func(c *cli.Context) error {
		text, err := c.App.ToMan()
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}
