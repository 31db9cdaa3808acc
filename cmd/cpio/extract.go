package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/igankevich/cpio"
)

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <archive> [dest]",
		Short: "Extract an archive into dest (default: current directory)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			dest := "."
			if len(args) == 2 {
				dest = args[1]
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			r := cpio.NewReader(in)
			ex := cpio.NewExtractor(dest)

			for {
				h, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				if verbose {
					log.WithField("name", h.Name).Info("extracting")
				}
				if err := ex.Extract(h, r); err != nil {
					return err
				}
			}
			return ex.Finish()
		},
	}
	return cmd
}
