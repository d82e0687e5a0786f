package main

import (
	"github.com/spf13/cobra"

	"atlaspack/atlas"
)

func newUnpackCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "unpack <atlases.json>",
		Short: "Restore the original images from packed atlases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			n, err := atlas.Unpack(cmd.Context(), args[0], outDir)
			if err != nil {
				return err
			}
			prog.done("unpacked", "sprites", n, "output", outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "unpacked", "output directory")
	return cmd
}
