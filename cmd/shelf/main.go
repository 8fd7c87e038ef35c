package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shelf/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(newCLI())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		var loginErr *app.LoginRequiredError
		if errors.As(err, &loginErr) {
			fmt.Fprintln(os.Stderr, "shelf: sign in there, then rerun with --token <token>")
		}
		return 1
	}
	return 0
}
