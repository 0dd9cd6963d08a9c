package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session; one login serves every command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.interactive {
				return errors.New("already in a shell")
			}
			c.interactive = true
			defer func() { c.interactive = false }()
			return c.shell(cmd)
		},
	}
}

// shell reads command lines until EOF or exit. Every line gets its own
// command tree over the same cli, so state carries across lines.
func (c *cli) shell(cmd *cobra.Command) error {
	c.printer.Info("staffdesk shell, type 'help' for commands and 'exit' to leave")
	for {
		fmt.Fprint(c.errOut, "sd> ")
		line, err := c.lines.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		args, perr := shlex.Split(strings.TrimSpace(line))
		switch {
		case perr != nil:
			c.report(perr)
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return nil
		default:
			c.runLine(cmd, args)
		}
		if eof {
			fmt.Fprintln(c.errOut)
			return nil
		}
	}
}

func (c *cli) runLine(parent *cobra.Command, args []string) {
	root := newRootCmd(c)
	root.SetArgs(args)
	if err := root.ExecuteContext(parent.Context()); err != nil {
		c.report(err)
	}
}
