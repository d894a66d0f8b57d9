package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subocr/internal/convert"
	"subocr/internal/ocr/tessdata"
	"subocr/internal/ocr/tesseract"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags convert.Flags

	cmd := &cobra.Command{
		Use:   "convert <subtitles.xml>",
		Short: "Recognise a BDN subtitle export and write SubRip",
		Long: `Recognise every subtitle image of a BDN export (index XML plus PNGs) and
write the text as SubRip. Subtitles that fail are reported and left out; the
command exits non-zero when any subtitle failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.Apply(cmd, base)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			stderr := cmd.ErrOrStderr()
			opts := []convert.Option{
				convert.WithSetup(tessdata.Setup),
				convert.WithStdout(cmd.OutOrStdout()),
			}
			var bar *convert.ProgressBar
			if isTerminal(stderr) {
				bar = convert.NewProgressBar(stderr, "recognising")
				opts = append(opts, convert.WithProgress(bar.Update))
			}

			svc, err := convert.NewService(cfg, tesseract.New, logger, opts...)
			if err != nil {
				return err
			}
			result, err := svc.Convert(cmd.Context(), flags.Request(args[0], cfg))
			if bar != nil {
				bar.Finish()
			}
			if result != nil {
				convert.RenderFailures(stderr, result.Batch)
				if result.Written && result.Output != "" {
					fmt.Fprintf(stderr, "Wrote %d cues to %s (%d of %d subtitles failed)\n",
						result.Cues, result.Output, result.Failed(), result.Events)
				}
			}
			return err
		},
	}

	flags.Register(cmd)
	return cmd
}
