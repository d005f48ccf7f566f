package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/session"
	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Machine  MachineFlags
	Replace  string
	Groups   int
	Database string

	// IDGenerator allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator session.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Operate a machine interactively",
		Long: `Open a session on a machine and type on it line by line.

Every line read from stdin is typed on the same machine, so the rotors keep
turning from one line to the next. Lines starting with ':' are commands:

  :display XYZ   turn the rotors to XYZ
  :status        show the machine and its window
  :quit          end the session

With --db every key press and display change is journaled, and the session
can later be checked with "enigma replay".

Example:
  enigma run --keysheet day.yaml --display BLA --db ./journal.db
  echo HELLOWORLD | enigma run --rotors "II IV V" --rings "1 20 11"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(opts, cmd)
		},
	}

	addMachineFlags(cmd, &opts.Machine)
	cmd.Flags().StringVar(&opts.Replace, "replace", "", "letter to type for characters without a key (default skip)")
	cmd.Flags().IntVar(&opts.Groups, "groups", 0, "split output into groups of n letters")
	cmd.Flags().StringVar(&opts.Database, "db", Env().Database, "journal the session to this SQLite database")

	return cmd
}

func runConsole(opts *RunOptions, cmd *cobra.Command) error {
	textOpts, err := textOptions(opts.Replace, opts.Groups)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	ks, err := opts.Machine.KeySheet(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid key sheet", err)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	sessOpts := []session.Option{session.WithLogger(slog.Default())}
	if opts.IDGenerator != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Database != "" {
		slog.Debug("opening database", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", &DatabaseError{Path: opts.Database, Err: err})
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		sessOpts = append(sessOpts, session.WithRecorder(st))
	}

	sess, err := session.New(ctx, ks, sessOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid machine settings", err)
	}
	defer sess.Close()

	c := &console{
		sess:     sess,
		out:      cmd.OutOrStdout(),
		textOpts: textOpts,
		groups:   opts.Groups,
		journal:  opts.Database != "",
	}
	c.status()

	lines := readLines(ctx, cmd.InOrStdin())
	for {
		select {
		case <-ctx.Done():
			slog.Debug("session stopped", "session", sess.ID())
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := c.handle(ctx, line)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return WrapExitError(ExitFailure, "session error", err)
			}
			if done {
				return nil
			}
		}
	}
}

// readLines feeds lines of r to the returned channel until EOF or ctx ends.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			slog.Warn("error reading input", "error", err)
		}
	}()
	return lines
}

// console interprets input lines for one session.
type console struct {
	sess     *session.Session
	out      io.Writer
	textOpts []enigma.TextOption
	groups   int
	journal  bool
}

// handle processes one line. It reports done for :quit. Invalid commands
// print a message and keep the session open; journal failures end it.
func (c *console) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if !strings.HasPrefix(line, ":") {
		presses, err := c.sess.Type(ctx, line, c.textOpts...)
		if err != nil {
			return false, err
		}
		if len(presses) == 0 {
			return false, nil
		}
		fmt.Fprintf(c.out, "%s  %s\n", enigma.Group(session.Lamps(presses), c.groups), c.sess.Display())
		return false, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		fmt.Fprintln(c.out, "empty command")
		return false, nil
	}
	switch fields[0] {
	case "quit", "q":
		return true, nil
	case "status":
		c.status()
	case "display":
		if len(fields) != 2 {
			fmt.Fprintln(c.out, "usage: :display XYZ")
			return false, nil
		}
		change, err := c.sess.SetDisplay(ctx, fields[1])
		if err != nil {
			if enigma.IsConfigError(err) {
				fmt.Fprintf(c.out, "%s %v\n", failMark(), err)
				return false, nil
			}
			return false, err
		}
		fmt.Fprintf(c.out, "%s %s\n", heading("Display:"), change.Display)
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", fields[0])
	}
	return false, nil
}

func (c *console) status() {
	fmt.Fprintf(c.out, "%s %s\n", heading("Machine:"), c.sess.Machine())
	if c.journal {
		fmt.Fprintf(c.out, "%s %s\n", heading("Session:"), c.sess.ID())
	}
}
