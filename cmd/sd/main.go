// Command sd is the staffdesk client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	in, out, errOut := stdio()
	code := run(ctx, os.Args[1:], in, out, errOut)
	stop()
	os.Exit(code)
}
