package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/zephyrtronium/smartcalc"
	"github.com/zephyrtronium/smartcalc/internal/config"
	"github.com/zephyrtronium/smartcalc/internal/observability"
	"github.com/zephyrtronium/smartcalc/internal/repl"
)

const usage = `usage: smartcalc [options] [expr...]

options:
  -c FILE   configuration file (default $SMARTCALC_CONFIG)
  -f FILE   read lines from FILE instead of stdin ("-" for stdin)
  -l LEVEL  log level: debug, info, warn, error
  -n        disable coloured output
  -h        show this help

If expressions are given, they are computed in order and smartcalc exits.
Otherwise, lines are read interactively.`

type flags struct {
	config  string
	input   string
	level   string
	nocolor bool
	args    []string
}

func main() {
	log.SetFlags(0)
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	f, code := parseFlags(args)
	if f == nil {
		return code
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		log.Println(err)
		return 1
	}
	if f.level != "" {
		cfg.LogLevel = f.level
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Println(err)
		return 1
	}
	logger, closer, err := observability.OpenLogger(cfg.LogFile, level)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := observability.Recorder(observability.Noop{})
	if cfg.Metrics {
		// Totals are logged at the logger's own level so that enabling
		// metrics is enough to see them.
		p := observability.NewProvider(max(level, slog.LevelInfo))
		rec = observability.NewRecorder()
		defer func() {
			if err := p.Shutdown(context.Background(), logger); err != nil {
				logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	engopts := []smartcalc.Option{smartcalc.SetVars(cfg.Vars()), smartcalc.Logger(logger)}
	if cfg.MaxBits != 0 {
		engopts = append(engopts, smartcalc.MaxBits(cfg.MaxBits))
	}

	var src io.Reader
	interactive := false
	if len(f.args) > 0 {
		src = strings.NewReader(strings.Join(f.args, "\n"))
	} else {
		in, err := infile(f.input)
		if err != nil {
			log.Println(err)
			return 1
		}
		if in != os.Stdin {
			defer in.Close()
		}
		src = in
		interactive = repl.IsTerminal(in)
	}

	s := repl.New(src, os.Stdout, repl.Options{
		Prompt:      cfg.Prompt,
		Interactive: interactive,
		Color:       cfg.Color && !f.nocolor && repl.IsTerminal(os.Stdout),
		Engine:      engopts,
		Logger:      logger,
		Recorder:    rec,
	})
	if err := s.Run(ctx); err != nil {
		logger.Error("session ended with error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func parseFlags(args []string) (*flags, int) {
	opts, optind, err := getopt.Getopts(args, "c:f:l:nh")
	if err != nil {
		log.Println(err)
		log.Println(usage)
		return nil, 2
	}
	f := &flags{}
	for _, opt := range opts {
		switch opt.Option {
		case 'c':
			f.config = opt.Value
		case 'f':
			f.input = opt.Value
		case 'l':
			f.level = opt.Value
		case 'n':
			f.nocolor = true
		case 'h':
			fmt.Println(usage)
			return nil, 0
		}
	}
	f.args = args[optind:]
	return f, 0
}

// infile opens the input named by -f, which is stdin if name is empty or "-".
func infile(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
