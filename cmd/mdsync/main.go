package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kk-code-lab/mdsync/internal/config"
	fsutil "github.com/kk-code-lab/mdsync/internal/fs"
	"github.com/kk-code-lab/mdsync/internal/markdown"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	log    zerolog.Logger
	parser *markdown.Parser
	stdin  io.Reader
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "mdsync",
		Short: "Inspect and edit Markdown documents from the command line",
		Long: `mdsync parses Markdown into a line-tracked tree and applies the same
formatting and structural edits a rendered editor performs.

FILE arguments accept "-" for standard input. Edited documents are printed to
standard output unless --write is given.

Configuration:
  1. --config flag (explicit path)
  2. ./mdsync.yaml
  3. $HOME/.config/mdsync/mdsync.yaml

Environment Variables:
  MDSYNC_EDITOR_TAB_WIDTH   - tab stop width used for cursor movement
  MDSYNC_LOGGING_LEVEL      - trace, debug, info, warn, error
  MDSYNC_MARKDOWN_TABLES    - enable GFM tables (and other markdown.* keys)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr(), cmd.Annotations[annotationConfig] == "optional")
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.config/mdsync/mdsync.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every action at debug level")

	root.AddCommand(
		c.treeCmd(),
		c.formatCmd(),
		c.stateCmd(),
		c.editCmd(),
		c.keysCmd(),
		c.openCmd(),
		c.outlineCmd(),
		c.statsCmd(),
		c.commandsCmd(),
		c.configCmd(),
	)
	return root
}

// annotationConfig marks commands that run without a readable config file.
const annotationConfig = "mdsync/config"

func (c *cli) setup(stderr io.Writer, optional bool) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		if !optional {
			return err
		}
		cfg = config.Default()
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = zerolog.DebugLevel
	}
	var w io.Writer = stderr
	if cfg.Logging.Console {
		w = zerolog.ConsoleWriter{Out: stderr, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
	}
	c.log = zerolog.New(w).Level(level).With().Timestamp().Logger()
	c.parser = markdown.NewParser(cfg.Markdown)
	return nil
}

// load reads FILE, or standard input for "-".
func (c *cli) load(path string) (*fsutil.Document, error) {
	if path == "-" {
		return fsutil.Read(c.stdin, "stdin")
	}
	doc, err := fsutil.Load(path)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("path", path).
		Str("encoding", doc.Encoding.String()).
		Bool("crlf", doc.CRLF).
		Int64("bytes", doc.Size).
		Msg("loaded document")
	return doc, nil
}

// emit prints text or, with write set, saves it back to path.
func (c *cli) emit(cmd *cobra.Command, doc *fsutil.Document, path, text string, write bool) error {
	if !write || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := doc.Save(path, text, c.cfg.Editor.KeepCRLF); err != nil {
		return err
	}
	c.log.Info().Str("path", path).Int("bytes", len(text)).Msg("saved document")
	return nil
}

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII text displays correctly.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
