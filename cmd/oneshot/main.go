package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alexflint/go-arg"

	"oneshot/internal/app"
	"oneshot/internal/shared/config"
	"oneshot/internal/shared/errors"
	"oneshot/internal/shared/logger"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

type options struct {
	Port   string `arg:"positional,required" placeholder:"PORT" help:"TCP port to accept one connection on (1-65535)"`
	Config string `arg:"--config" placeholder:"FILE" help:"optional INI file with [log] and [listener] sections"`
}

func (options) Description() string {
	return "oneshot accepts a single TCP connection, prints the first message and replies with a fixed acknowledgment."
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	opts, port, err := parseArgs(argv, stdout, stderr)
	if stderrors.Is(err, arg.ErrHelp) {
		return exitSuccess
	}
	if err != nil {
		return report(stderr, err)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		// Use standard fmt before logger is initialized.
		return report(stderr, err)
	}
	logger.Init(cfg.LogConf, stderr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	responder := app.New(cfg, port, stdout)
	if err := responder.Run(ctx); err != nil {
		logger.Error().
			Str("kind", errors.KindOf(err).String()).
			Str("state", responder.State().String()).
			Msgf("oneshot failed")
		return report(stderr, err)
	}
	return exitSuccess
}

// parseArgs validates the command line before any socket exists.
func parseArgs(argv []string, stdout, stderr io.Writer) (*options, int, error) {
	var opts options
	p, err := arg.NewParser(arg.Config{Program: "oneshot"}, &opts)
	if err != nil {
		return nil, 0, errors.NewError(errors.KindUsage, "ERROR, invalid command line definition").Base(err)
	}

	if err := p.Parse(argv); err != nil {
		if stderrors.Is(err, arg.ErrHelp) {
			p.WriteHelp(stdout)
			return nil, 0, err
		}
		p.WriteUsage(stderr)
		if opts.Port == "" {
			return nil, 0, errors.NewError(errors.KindUsage, "ERROR, no port provided")
		}
		return nil, 0, errors.NewError(errors.KindUsage, "ERROR, invalid arguments").Base(err)
	}

	port, err := strconv.Atoi(opts.Port)
	if err != nil {
		return nil, 0, errors.NewError(errors.KindUsage, "ERROR, invalid port '", opts.Port, "'").Base(err)
	}
	if port < 1 || port > 65535 {
		return nil, 0, errors.NewError(errors.KindUsage, "ERROR, port ", port, " out of range 1-65535")
	}
	return &opts, port, nil
}

func report(w io.Writer, err error) int {
	fmt.Fprintln(w, err)
	return exitFailure
}
