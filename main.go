package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hesusruiz/formrite/rite"
)

// Name of the optional configuration file, looked up in the current directory
const defaultConfigFile = "formrite.yaml"

// options are the command line flags merged with the configuration file
type options struct {
	input    string
	output   string
	format   string
	prefix   string
	locale   string
	template string
	dryrun   bool
}

// outputName derives the output file from the input one, replacing its extension
func outputName(input, format string) string {
	ext := path.Ext(input)
	if len(ext) == 0 {
		return input + "." + format
	}
	return strings.TrimSuffix(input, ext) + "." + format
}

// loadConfig reads the configuration file. A missing default file is not an error.
func loadConfig(fileName string, explicit bool) (*yaml.YAML, error) {
	if _, err := os.Stat(fileName); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return yaml.ParseYaml("")
		}
		return nil, err
	}
	return yaml.ParseYamlFile(fileName)
}

// build compiles the input file and produces the output in the requested format
func build(opts *options, sugar *zap.SugaredLogger) ([]byte, error) {

	res, err := rite.CompileFile(opts.input, rite.Config{
		ClassPrefix: opts.prefix,
		Locale:      opts.locale,
		Logger:      sugar,
	})
	if err != nil {
		return nil, err
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	if opts.format == "json" {
		return json.MarshalIndent(res.Metadata(), "", "  ")
	}

	pageOpts := rite.PageOptions{}
	if opts.template != "" {
		tpl, err := os.ReadFile(opts.template)
		if err != nil {
			return nil, fmt.Errorf("reading page template: %w", err)
		}
		pageOpts.Template = string(tpl)
	}

	page, err := res.RenderPage(pageOpts)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// buildAndWrite builds the output and writes it, unless this is a dry run
func buildAndWrite(opts *options, sugar *zap.SugaredLogger) error {
	out, err := build(opts, sugar)
	if err != nil {
		return err
	}

	// Do nothing if flag dryrun was specified
	if opts.dryrun {
		return nil
	}

	return os.WriteFile(opts.output, out, 0664)
}

// processWatch checks periodically if the input file has been modified, and if so
// it processes the file and writes the result to the output file
func processWatch(opts *options, sugar *zap.SugaredLogger) error {

	var oldTimestamp time.Time

	// Loop forever
	for {

		info, err := os.Stat(opts.input)
		if err != nil {
			return err
		}
		currentTimestamp := info.ModTime()

		// If the file is newer than last time, process it
		if oldTimestamp.Before(currentTimestamp) {
			oldTimestamp = currentTimestamp
			fmt.Println("************Processing*************")

			// Errors in the document are reported and we keep watching
			if err := buildAndWrite(opts, sugar); err != nil {
				var pathErr *fs.PathError
				if errors.As(err, &pathErr) && pathErr.Path == opts.output {
					return err
				}
				fmt.Fprintln(os.Stderr, err)
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	var z *zap.Logger
	var err error

	// Setup the logging system
	if c.Bool("debug") {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	configFile := c.String("config")
	config, err := loadConfig(configFile, c.IsSet("config"))
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}

	opts := &options{
		input:    "index.md",
		output:   c.String("output"),
		format:   strings.ToLower(c.String("format")),
		prefix:   config.String("class-prefix", rite.DefaultClassPrefix),
		locale:   config.String("locale", ""),
		template: config.String("template", ""),
		dryrun:   c.Bool("dryrun"),
	}
	if c.IsSet("prefix") {
		opts.prefix = c.String("prefix")
	}
	if opts.format != "html" && opts.format != "json" {
		return fmt.Errorf("unknown output format %q: expected html or json", opts.format)
	}

	// Get the input file name
	if c.Args().Present() {
		opts.input = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using \"%v\"\n", opts.input)
	}

	if len(opts.output) == 0 {
		opts.output = outputName(opts.input, opts.format)
	}

	if !opts.dryrun {
		fmt.Printf("processing %v and generating %v\n", opts.input, opts.output)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", opts.input)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		return processWatch(opts, sugar)
	}

	return buildAndWrite(opts, sugar)
}

func main() {

	app := &cli.App{
		Name:     "formrite",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "compile a formrite document into a page of form slides",
		UsageText: "formrite [options] [INPUT_FILE] (default input file is index.md)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the result to `FILE` (default is input file name with the extension of the format)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "html",
				Usage:   "output format, html for a standalone page or json for the slide metadata",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "prefix of the generated class names",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   defaultConfigFile,
				Usage:   "read defaults from the YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
