package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subocr/internal/ocr/tesseract"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print subocr and Tesseract versions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subocr %s\n", version)
			fmt.Fprintf(out, "tesseract %s\n", tesseract.Version())
			return nil
		},
	}
}
