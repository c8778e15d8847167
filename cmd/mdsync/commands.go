package main

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/mdsync/internal/app"
	"github.com/kk-code-lab/mdsync/internal/config"
	fsutil "github.com/kk-code-lab/mdsync/internal/fs"
	"github.com/kk-code-lab/mdsync/internal/format"
	"github.com/kk-code-lab/mdsync/internal/markdown"
	"github.com/kk-code-lab/mdsync/internal/session"
	"github.com/kk-code-lab/mdsync/internal/structure"
	"github.com/kk-code-lab/mdsync/internal/textutil"
	"github.com/kk-code-lab/mdsync/internal/ui/input"
)

// position is the cursor location shared by commands that act at a point.
// Offset is a byte offset; Line is 1-indexed and Col counts characters.
type position struct {
	offset int
	line   int
	col    int
}

func (p *position) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.offset, "offset", -1, "cursor byte offset")
	cmd.Flags().IntVar(&p.line, "line", 0, "cursor line (1-indexed, overrides --offset)")
	cmd.Flags().IntVar(&p.col, "col", 0, "cursor column in characters (0-indexed)")
}

// resolve returns the byte offset p names in text. Without any flag the
// cursor sits at the end of the text.
func (p position) resolve(text string) int {
	switch {
	case p.line > 0:
		return textutil.CharToByteIndex(text, textutil.LineColToCharIndex(text, p.line-1, p.col))
	case p.offset >= 0:
		return textutil.FloorCharBoundary(text, p.offset)
	default:
		return len(text)
	}
}

func (c *cli) treeCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the parsed node tree with line spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.load(args[0])
			if err != nil {
				return err
			}
			tree, err := c.parser.Parse(doc.Text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			markdown.Walk(tree.Root, func(n *markdown.Node, depth int) bool {
				fmt.Fprintf(out, "%s%s [%d-%d]%s\n",
					strings.Repeat("  ", depth), n.Type.Name(), n.StartLine, n.EndLine, describe(n.Type, width))
				return true
			})
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "truncate literals to this many cells")
	return cmd
}

// describe renders the attributes worth showing for a node type.
func describe(t markdown.NodeType, width int) string {
	quote := func(s string) string {
		return " " + textutil.TruncateWidth(textutil.PrintableLiteral(s), width, "…")
	}
	switch v := t.(type) {
	case markdown.Heading:
		if v.Setext {
			return fmt.Sprintf(" level=%d setext", v.Level)
		}
		return fmt.Sprintf(" level=%d", v.Level)
	case markdown.List:
		if v.ListType.Ordered {
			return fmt.Sprintf(" ordered start=%d delim=%q tight=%v", v.ListType.Start, v.ListType.Delimiter, v.Tight)
		}
		return fmt.Sprintf(" bullet tight=%v", v.Tight)
	case markdown.TaskItem:
		return fmt.Sprintf(" checked=%v", v.Checked)
	case markdown.CodeBlock:
		if v.Language != "" {
			return " lang=" + v.Language
		}
	case markdown.Text:
		return quote(v.Literal)
	case markdown.Code:
		return quote(v.Literal)
	case markdown.Link:
		return " url=" + v.URL
	case markdown.Image:
		return " url=" + v.URL
	case markdown.Table:
		return fmt.Sprintf(" columns=%d", v.NumColumns)
	case markdown.TableRow:
		if v.Header {
			return " header"
		}
	case markdown.FootnoteReference:
		return " label=" + v.Label
	case markdown.FootnoteDefinition:
		return " label=" + v.Label
	}
	return ""
}

func (c *cli) formatCmd() *cobra.Command {
	var (
		name       string
		start, end int
		chars      bool
		write      bool
	)
	cmd := &cobra.Command{
		Use:   "format FILE",
		Short: "Apply a formatting command to a selection",
		Long: `Apply a formatting command to the byte range [--start, --end).

Without --start the selection is the end of the document. Use --chars to give
character indexes instead of byte offsets. See "mdsync commands" for names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := format.ParseCommand(name)
			if err != nil {
				return err
			}
			doc, err := c.load(args[0])
			if err != nil {
				return err
			}
			var sel *format.Selection
			if start >= 0 {
				if end < 0 {
					end = start
				}
				if chars {
					start = textutil.CharToByteIndex(doc.Text, start)
					end = textutil.CharToByteIndex(doc.Text, end)
				}
				sel = &format.Selection{Start: start, End: end}
			}
			res := format.Apply(doc.Text, sel, command)
			ev := c.log.Debug().Str("command", command.String()).Bool("applied", res.Applied).Int("cursor", res.Cursor)
			if res.Selection != nil {
				ev = ev.Int("sel_start", res.Selection.Start).Int("sel_end", res.Selection.End)
			}
			ev.Msg("format")
			return c.emit(cmd, doc, args[0], res.Text, write)
		},
	}
	cmd.Flags().StringVarP(&name, "command", "c", "", "formatting command (bold, italic, heading2, link, ...)")
	cmd.Flags().IntVar(&start, "start", -1, "selection start")
	cmd.Flags().IntVar(&end, "end", -1, "selection end (defaults to --start)")
	cmd.Flags().BoolVar(&chars, "chars", false, "interpret --start and --end as character indexes")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

func (c *cli) stateCmd() *cobra.Command {
	var pos position
	cmd := &cobra.Command{
		Use:   "state FILE",
		Short: "List the formats active at a cursor position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.load(args[0])
			if err != nil {
				return err
			}
			st := format.Detect(doc.Text, pos.resolve(doc.Text))
			var active []string
			for _, command := range format.Commands() {
				if st.Active(command) {
					active = append(active, command.String())
				}
			}
			if len(active) == 0 {
				active = append(active, "none")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(active, "\n"))
			return err
		},
	}
	pos.register(cmd)
	return cmd
}

func parseStructuralKey(name string) (structure.Key, error) {
	for k := structure.KeyEnter; k <= structure.KeyShiftTab; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return structure.KeyNone, fmt.Errorf("unknown key %q (want enter, backspace, tab or shift-tab)", name)
}

func (c *cli) editCmd() *cobra.Command {
	var (
		pos   position
		key   string
		write bool
	)
	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Apply a structural key press at a cursor position",
		Long: `Apply the edit a rendered editor performs for a key press: Enter splits
paragraphs and list items, Backspace at the start of an item merges it into
the previous one, Tab and Shift+Tab change list nesting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseStructuralKey(key)
			if err != nil {
				return err
			}
			doc, err := c.load(args[0])
			if err != nil {
				return err
			}
			s := c.newSession(doc.Text)
			line, col := textutil.ByteOffsetToLineCol(doc.Text, pos.resolve(doc.Text))
			ctx, ok := s.FocusContextAt(line+1, col)
			if !ok {
				return fmt.Errorf("no editable block at line %d", line+1)
			}
			edit := structure.HandleKey(doc.Text, ctx, k)
			if !edit.Performed {
				c.log.Warn().Str("key", k.String()).Str("kind", ctx.Kind.String()).Msg("no structural edit")
				fmt.Fprintln(cmd.ErrOrStderr(), "no structural edit")
				return c.emit(cmd, doc, args[0], doc.Text, false)
			}
			c.log.Debug().
				Str("key", k.String()).
				Str("kind", ctx.Kind.String()).
				Int("cursor_line", edit.Cursor.Line).
				Int("cursor_offset", edit.Cursor.Offset).
				Msg("structural edit")
			return c.emit(cmd, doc, args[0], edit.NewSource, write)
		},
	}
	pos.register(cmd)
	cmd.Flags().StringVarP(&key, "key", "k", "enter", "enter, backspace, tab or shift-tab")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

func (c *cli) keysCmd() *cobra.Command {
	var (
		pos    position
		script string
		write  bool
	)
	cmd := &cobra.Command{
		Use:   "keys FILE",
		Short: "Replay a key script through the editing session",
		Long: `Replay whitespace separated key names as if typed in the editor, e.g.

  mdsync keys notes.md --line 3 --script 'end enter type:hello ctrl+b'

Modifiers are written ctrl+, alt+ and shift+. A type:TEXT token types TEXT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := input.ParseKeys(script)
			if err != nil {
				return err
			}
			doc, err := c.load(args[0])
			if err != nil {
				return err
			}
			s := c.newSession(doc.Text)
			if _, err := s.Dispatch(session.SetCursorAction{Offset: pos.resolve(doc.Text)}); err != nil {
				return err
			}
			n, err := input.Replay(s, events)
			if err != nil {
				return err
			}
			c.log.Debug().Int("events", n).Int("cursor", s.Cursor()).Bool("dirty", s.Dirty()).Msg("replayed keys")
			return c.emit(cmd, doc, args[0], s.Source(), write)
		},
	}
	pos.register(cmd)
	cmd.Flags().StringVarP(&script, "script", "s", "", "key names to replay")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func (c *cli) sessionOptions() []session.Option {
	return []session.Option{
		session.WithParser(c.parser),
		session.WithLogger(c.log),
		session.WithTabWidth(c.cfg.Editor.TabWidth),
	}
}

func (c *cli) newSession(text string) *session.Session {
	return session.New(text, c.sessionOptions()...)
}

func (c *cli) openCmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "open [FILE]",
		Short: "Edit a document in the terminal",
		Long: `Open FILE in the interactive editor. A FILE that does not exist yet is
created on the first save (^S). Without FILE an unnamed buffer is opened.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			doc := &fsutil.Document{}
			if len(args) == 1 {
				path = args[0]
				loaded, err := c.load(path)
				switch {
				case err == nil:
					doc = loaded
				case path != "-" && errors.Is(err, iofs.ErrNotExist):
					c.log.Info().Str("path", path).Msg("new document")
				default:
					return err
				}
			}

			// The terminal belongs to the editor; logs go to --log or nowhere.
			logger := c.log.Output(io.Discard)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer func() {
					_ = f.Close()
				}()
				logger = c.log.Output(f)
			}

			editor, err := app.NewApplication(nil, app.Options{
				Path:     path,
				Document: doc,
				KeepCRLF: c.cfg.Editor.KeepCRLF,
				Logger:   logger,
				Session:  c.sessionOptions(),

				EditorCommand:    c.cfg.Editor.Command,
				ClipboardCommand: c.cfg.Editor.Clipboard,
			})
			if err != nil {
				return fmt.Errorf("initialize terminal: %w", err)
			}
			defer func() {
				_ = editor.Close()
			}()
			editor.Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&logFile, "log", "", "append JSON logs to this file while editing")
	return cmd
}

// expand resolves FILE and DIR arguments into Markdown file paths.
func (c *cli) expand(args []string, hidden bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if arg == "-" {
			paths = append(paths, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := fsutil.FindMarkdown(arg, hidden)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			paths = append(paths, e.FullPath)
		}
	}
	return paths, nil
}

func (c *cli) outlineCmd() *cobra.Command {
	var hidden bool
	cmd := &cobra.Command{
		Use:   "outline FILE|DIR...",
		Short: "Print the heading outline of documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.expand(args, hidden)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, path := range paths {
				doc, err := c.load(path)
				if err != nil {
					return err
				}
				tree, err := c.parser.Parse(doc.Text)
				if err != nil {
					return err
				}
				outline := markdown.ExtractOutline(tree)
				if len(paths) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "== %s\n", path)
				}
				for _, item := range outline.Items {
					fmt.Fprintf(out, "%s- %s (line %d)\n", strings.Repeat("  ", int(item.Level)-1), item.Title, item.Line)
				}
				fmt.Fprintf(out, "%s, %d min read\n", outline.Summary(), outline.ReadTimeMinutes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files when walking directories")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	var (
		hidden bool
		table  bool
	)
	cmd := &cobra.Command{
		Use:   "stats FILE|DIR...",
		Short: "Count words, characters and lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.expand(args, hidden)
			if err != nil {
				return err
			}
			var tw *tabwriter.Writer
			if table {
				tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "FILE\tWORDS\tCHARS\tNO SPACES\tLINES\tPARAGRAPHS")
			}
			for _, path := range paths {
				doc, err := c.load(path)
				if err != nil {
					return err
				}
				st := markdown.ComputeStats(doc.Text)
				if tw != nil {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", path, st.Words, st.Characters, st.CharactersNoSpaces, st.Lines, st.Paragraphs)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, st.Compact())
			}
			if tw != nil {
				return tw.Flush()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files when walking directories")
	cmd.Flags().BoolVarP(&table, "table", "t", false, "print every counter in a table")
	return cmd
}

func (c *cli) commandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List formatting commands with their shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tICON\tSHORTCUT\tDESCRIPTION")
			for _, command := range format.Commands() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", command.String(), command.Icon(), command.ShortcutLabel(), command.Tooltip())
			}
			return tw.Flush()
		},
	}
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfig: "optional"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := c.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().WriteFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeYAML(cmd.OutOrStdout(), c.cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
