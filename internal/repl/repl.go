// Package repl implements the line-oriented calculator session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/zephyrtronium/smartcalc"
	"github.com/zephyrtronium/smartcalc/internal/observability"
)

// HelpText is printed for /help.
const HelpText = `This calculator supports arbitrarily large integers, variables,
brackets, addition, subtraction, multiplication, division and power.
  x = 7        assign a variable (names are letters only)
  2 * (x - 1)  evaluate an expression
  /vars        list variables
  /clear       forget all variables
  /help        show this text
  /exit        quit`

// MaxLine is the longest line a session accepts.
const MaxLine = 1 << 20

// Options configures a Session.
type Options struct {
	// Prompt is written before each line when Interactive is set.
	Prompt string
	// Interactive indicates that input comes from a terminal.
	Interactive bool
	// Color enables red diagnostics.
	Color bool
	// Engine holds options for every engine the session creates.
	Engine []smartcalc.Option
	// Logger receives session logs. It may be nil.
	Logger *slog.Logger
	// Recorder receives metrics. Nil means no metrics.
	Recorder observability.Recorder
}

// Session reads lines, computes them, and writes the results.
type Session struct {
	id    string
	in    *bufio.Scanner
	out   io.Writer
	opts  Options
	eng   *smartcalc.Engine
	diag  *color.Color
	log   *slog.Logger
	rec   observability.Recorder
	lines int
}

// New creates a session reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Session {
	id := uuid.New().String()
	sc := bufio.NewScanner(in)
	sc.Buffer(nil, MaxLine)
	diag := color.New(color.FgRed)
	if opts.Color {
		diag.EnableColor()
	} else {
		diag.DisableColor()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = observability.Noop{}
	}
	return &Session{
		id:   id,
		in:   sc,
		out:  out,
		opts: opts,
		eng:  smartcalc.New(opts.Engine...),
		diag: diag,
		log:  observability.EnrichLogger(opts.Logger, id),
		rec:  rec,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Engine returns the engine currently used by the session.
func (s *Session) Engine() *smartcalc.Engine {
	return s.eng
}

// Run processes lines until /exit, end of input, or cancellation of ctx.
// End of input is not an error.
func (s *Session) Run(ctx context.Context) (err error) {
	elapsed := observability.TimedOperation()
	observability.LogSessionStart(s.log, s.opts.Interactive, s.eng.Env().Len())
	defer func() {
		observability.LogSessionEnd(s.log, s.lines, float64(elapsed().Microseconds())/1000, err)
	}()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.opts.Interactive {
			if _, err := io.WriteString(s.out, s.opts.Prompt); err != nil {
				return fmt.Errorf("write prompt: %w", err)
			}
		}
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return fmt.Errorf("read line: %w", err)
			}
			return nil
		}
		s.lines++
		done, err := s.Line(ctx, s.in.Text())
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Line handles a single line of input. It reports whether the session
// should end.
func (s *Session) Line(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false, nil
	case strings.HasPrefix(line, "/"):
		return s.command(ctx, line)
	}
	elapsed := observability.TimedOperation()
	r := s.eng.Compute(line)
	d := elapsed()
	observability.LogCompute(s.log, r.Kind.String(), r.Err, d)
	s.rec.RecordCompute(ctx, r.Kind.String(), d)
	switch {
	case r.Kind == smartcalc.Silent:
		return false, nil
	case r.Ok():
		_, err := fmt.Fprintln(s.out, r)
		return false, writeErr(err)
	default:
		_, err := s.diag.Fprintln(s.out, r)
		return false, writeErr(err)
	}
}

func (s *Session) command(ctx context.Context, cmd string) (bool, error) {
	known := true
	defer func() {
		observability.LogCommand(s.log, cmd, known)
	}()
	var err error
	switch cmd {
	case "/exit":
		s.rec.RecordCommand(ctx, cmd)
		_, err = fmt.Fprintln(s.out, "Bye!")
		return true, writeErr(err)
	case "/help":
		_, err = fmt.Fprintln(s.out, HelpText)
	case "/vars":
		env := s.eng.Env()
		for _, name := range env.Names() {
			x, _ := env.Lookup(name)
			if _, err = fmt.Fprintf(s.out, "%s = %v\n", name, x); err != nil {
				break
			}
		}
	case "/clear":
		s.eng = smartcalc.New(s.opts.Engine...)
	default:
		known = false
		_, err = s.diag.Fprintln(s.out, "Unknown command")
		// Unknown commands are grouped so arbitrary input does not become
		// a metric attribute.
		s.rec.RecordCommand(ctx, "unknown")
		return false, writeErr(err)
	}
	s.rec.RecordCommand(ctx, cmd)
	return false, writeErr(err)
}

func writeErr(err error) error {
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// IsTerminal reports whether r is a terminal.
func IsTerminal(r any) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
