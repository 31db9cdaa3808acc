package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/igankevich/cpio"
)

// formatFlag implements pflag.Value so --format is validated at parse
// time instead of at first use.
type formatFlag struct {
	value cpio.Format
	set   bool
}

func (f *formatFlag) String() string {
	if !f.set {
		return "newc"
	}
	return f.value.String()
}

func (f *formatFlag) Set(s string) error {
	switch s {
	case "newc":
		f.value = cpio.FormatNewASCII
	case "crc":
		f.value = cpio.FormatNewCRC
	case "bin":
		f.value = cpio.FormatOldBinary
	case "odc":
		f.value = cpio.FormatPortableASCII
	default:
		return fmt.Errorf("unknown format %q: want newc, crc, bin, or odc", s)
	}
	f.set = true
	return nil
}

func (f *formatFlag) Type() string { return "format" }

var _ pflag.Value = (*formatFlag)(nil)

func newCreateCommand() *cobra.Command {
	format := &formatFlag{value: cpio.FormatNewASCII}
	var strict bool

	cmd := &cobra.Command{
		Use:   "create <output> <path>...",
		Short: "Pack paths into a new archive",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()

			w := cpio.NewWriter(out, format.value)
			w.SetStrict(strict)

			for _, root := range args[1:] {
				err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if verbose {
						log.WithField("path", path).Debug("archiving")
					}
					return w.AppendPath(path, path)
				})
				if err != nil {
					return err
				}
			}
			return w.Close()
		},
	}
	cmd.Flags().VarP(format, "format", "f", "archive format: newc, crc, bin, odc")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject duplicate (dev, ino) entries")
	return cmd
}
