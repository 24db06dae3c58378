package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/uniknow/c4puml/pkg/config"
	c4errors "github.com/uniknow/c4puml/pkg/errors"
	c4io "github.com/uniknow/c4puml/pkg/io"
	"github.com/uniknow/c4puml/pkg/pipeline"
)

type exportFlags struct {
	output       string
	legend       bool
	sequence     bool
	detailed     bool
	includeURLs  []string
	includeFiles []string
	views        []string
	formats      string
	configPath   string
	noCache      bool
	refresh      bool
	interactive  bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export [workspace.json]",
		Short: "Write one C4-PlantUML diagram per view",
		Long: `Export reads a workspace and writes <key>.puml for every view, plus
<key>-<n>.puml for each animation frame. With --format dot or svg the
views are also laid out with Graphviz.

Flags override values from c4puml.toml.`,
		Example: `  c4puml export workspace.json -o docs/diagrams
  c4puml export workspace.json --legend --view context --view containers
  c4puml export workspace.json --format puml,svg
  c4puml export workspace.json --include-url https://example.com/theme.puml=theme
  c4puml export -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args, &f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", ".", "output directory")
	flags.BoolVar(&f.legend, "legend", false, "add a legend to every diagram")
	flags.BoolVar(&f.sequence, "sequence", false, "draw dynamic views as sequence diagrams")
	flags.BoolVar(&f.detailed, "detailed", false, "show kind and technology in DOT/SVG labels")
	flags.StringArrayVar(&f.includeURLs, "include-url", nil, "add an !includeurl, optionally labelled as url=label (repeatable)")
	flags.StringArrayVar(&f.includeFiles, "include-file", nil, "add an !include, optionally labelled as path=label (repeatable)")
	flags.StringArrayVar(&f.views, "view", nil, "export only this view key (repeatable)")
	flags.StringVar(&f.formats, "format", pipeline.FormatPlantUML, "comma-separated formats: puml, dot, svg")
	flags.StringVar(&f.configPath, "config", "", "project file (default ./"+config.FileName+")")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "pick views interactively")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, args []string, f *exportFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}

	input := cfg.Workspace
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return c4errors.New(c4errors.ErrCodeInvalidInput, "no workspace given and none set in %s", config.FileName)
	}

	opts, output, err := f.options(cmd, cfg.PipelineOptions(), cfg.Output)
	if err != nil {
		return err
	}
	opts.Logger = logger

	if f.interactive {
		keys, err := pickViews(input, opts.Views)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			printInfo("No views selected")
			return nil
		}
		opts.Views = keys
	}

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Exporting "+input+"...")
	spinner.Start()
	result, err := runner.ExecuteFile(ctx, input, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	paths, err := c4io.WriteDiagrams(output, result.Diagrams)
	if err != nil {
		return err
	}
	for _, a := range result.Artifacts {
		path, err := c4io.WriteArtifact(output, a.Key, "."+a.Format, a.Data)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	prog.done(fmt.Sprintf("Wrote %d files", len(paths)))

	name := result.WorkspaceName
	if name == "" {
		name = input
	}
	printSuccess("Exported %s", StyleHighlight.Render(name))
	printStats(len(result.Diagrams), result.Stats.FrameCount, result.CacheInfo.DiagramsHit)
	for _, p := range paths {
		printFile(p)
	}
	for _, ve := range result.ViewErrors {
		printError("%s: %s", ve.Key, c4errors.UserMessage(ve.Err))
	}
	if len(result.ViewErrors) == 0 && !opts.Wants(pipeline.FormatSVG) {
		fmt.Fprintln(stdout)
		printNextStep("Render images", "c4puml export "+input+" --format puml,svg")
	}
	return result.Err()
}

// options merges the flags that were set on top of the config file values.
func (f *exportFlags) options(cmd *cobra.Command, base pipeline.Options, output string) (pipeline.Options, string, error) {
	opts := base
	changed := cmd.Flags().Changed

	if changed("output") || output == "" {
		output = f.output
	}
	if changed("legend") {
		opts.Legend = f.legend
	}
	if changed("sequence") {
		opts.Sequence = f.sequence
	}
	if changed("detailed") {
		opts.Detailed = f.detailed
	}
	if changed("view") {
		opts.Views = f.views
	}
	if changed("format") || len(opts.Formats) == 0 {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return opts, "", err
		}
		opts.Formats = formats
	}
	for _, s := range f.includeURLs {
		loc, label := parseInclude(s)
		opts.Includes = append(opts.Includes, pipeline.Include{URL: loc, Label: label})
	}
	for _, s := range f.includeFiles {
		loc, label := parseInclude(s)
		opts.Includes = append(opts.Includes, pipeline.Include{File: loc, Label: label})
	}
	opts.Refresh = f.refresh
	return opts, output, nil
}

// parseInclude splits "locator=label". The label is taken at the last "="
// only when it cannot be part of a URL query, so
// "https://host/x.puml?a=b" keeps its query intact.
func parseInclude(s string) (locator, label string) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return s, ""
	}
	prefix, suffix := s[:i], s[i+1:]
	if suffix == "" || strings.ContainsAny(suffix, "/?&") || strings.Contains(prefix, "?") {
		return s, ""
	}
	return prefix, suffix
}

// pickViews shows the interactive view picker for the workspace at path.
// preselected keys start checked.
func pickViews(path string, preselected []string) ([]string, error) {
	ws, err := c4io.ImportWorkspace(path)
	if err != nil {
		return nil, err
	}
	if ws.Views.IsEmpty() {
		return nil, c4errors.New(c4errors.ErrCodeInvalidInput, "workspace %s has no views", path)
	}

	m := newViewPicker(ws.Views.Views(), preselected)
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("view picker: %w", err)
	}
	return final.(ViewPickerModel).Selected(), nil
}
