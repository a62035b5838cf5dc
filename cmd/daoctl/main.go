// Command daoctl reads and writes creator communities from a terminal.
// Every command prints JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/app"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type options struct {
	Timeout time.Duration `long:"timeout" env:"DAOCTL_TIMEOUT" description:"deadline of a single command" default:"2m"`
	Verbose bool          `short:"v" long:"verbose" description:"log reader activity on stderr"`

	Chain app.ChainConfig `group:"Chain options"`
}

var opts options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	register(parser)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// withStack builds the reader stack, runs fn and prints its result.
func withStack(fn func(ctx context.Context, s *app.Stack) (any, error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	logger := zap.NewNop()
	if opts.Verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}
	defer func() {
		_ = logger.Sync()
	}()

	stack, err := app.Build(ctx, opts.Chain, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	out, err := fn(ctx, stack)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, out)
}

func printJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
