package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/igankevich/cpio"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <archive>",
		Short: "List the entries of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			r := cpio.NewReader(in)
			for {
				h, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				fmt.Printf("%s %8d %s\n", h.FileMode(), h.Size, h.Name)
			}
			return nil
		},
	}
	return cmd
}
