package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchparty/cli/internal/cmd"
	clierrors "github.com/watchparty/cli/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		return 1
	}
	return 0
}
