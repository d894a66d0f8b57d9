package convert_test

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"subocr/internal/convert"
	"subocr/internal/testsupport"
)

// parseConvertFlags runs args through a command carrying the convert flags
// and returns the positional arguments it received.
func parseConvertFlags(t *testing.T, flags *convert.Flags, args ...string) (*cobra.Command, []string) {
	t.Helper()
	var positional []string
	cmd := &cobra.Command{
		Use:           "convert",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			positional = args
			return nil
		},
	}
	flags.Register(cmd)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return cmd, positional
}

func TestFlagsDumpDirTakesSeparateValue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dumpDir := filepath.Join(t.TempDir(), "frames")

	cases := []struct {
		name    string
		args    []string
		wantPre string
		wantRaw string
	}{
		{name: "dump-dir before input", args: []string{"--dump-dir", dumpDir, "in.xml"}, wantPre: dumpDir},
		{name: "bare dump before input", args: []string{"--dump", "in.xml"}, wantPre: cfg.Paths.DumpDir},
		{name: "raw only", args: []string{"--dump-raw", "--dump-dir", dumpDir, "in.xml"}, wantRaw: dumpDir},
		{name: "both", args: []string{"in.xml", "--dump", "--dump-raw", "--dump-dir", dumpDir}, wantPre: dumpDir, wantRaw: dumpDir},
		{name: "none", args: []string{"in.xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var flags convert.Flags
			_, positional := parseConvertFlags(t, &flags, tc.args...)
			if !slices.Equal(positional, []string{"in.xml"}) {
				t.Fatalf("unexpected positional args %v", positional)
			}
			req := flags.Request(positional[0], cfg)
			if req.Input != "in.xml" || req.DumpDir != tc.wantPre || req.RawDumpDir != tc.wantRaw {
				t.Fatalf("unexpected request %+v", req)
			}
		})
	}
}

func TestFlagsApplyOverridesConfig(t *testing.T) {
	base := testsupport.NewConfig(t)
	base.OCR.Variables = map[string]string{"load_system_dawg": "0"}

	var flags convert.Flags
	cmd, _ := parseConvertFlags(t, &flags,
		"--lang", "fre+en", "--workers", "3", "-c", "preserve_interword_spaces=1",
		"--polarity", "DARK", "--border", "0", "--strict", "-o", "out.srt", "in.xml")

	cfg, err := flags.Apply(cmd, base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(cfg.OCR.Languages, []string{"fra", "eng"}) {
		t.Fatalf("unexpected languages %v", cfg.OCR.Languages)
	}
	if cfg.OCR.Workers != 3 || cfg.Preprocess.Border != 0 || cfg.Preprocess.Polarity != "dark" {
		t.Fatalf("unexpected overrides %+v %+v", cfg.OCR, cfg.Preprocess)
	}
	if cfg.OCR.Variables["preserve_interword_spaces"] != "1" || cfg.OCR.Variables["load_system_dawg"] != "0" {
		t.Fatalf("unexpected variables %v", cfg.OCR.Variables)
	}
	if _, ok := base.OCR.Variables["preserve_interword_spaces"]; ok {
		t.Fatal("Apply must not modify the base config")
	}
	if req := flags.Request("in.xml", cfg); !req.Strict || req.Output != "out.srt" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestFlagsApplyRejectsBadValues(t *testing.T) {
	base := testsupport.NewConfig(t)
	cases := map[string][]string{
		"workers":  {"--workers=-2", "in.xml"},
		"variable": {"-c", "novalue", "in.xml"},
		"polarity": {"--polarity", "sideways", "in.xml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var flags convert.Flags
			cmd, _ := parseConvertFlags(t, &flags, args...)
			_, err := flags.Apply(cmd, base)
			if !errors.Is(err, convert.ErrValidation) && !errors.Is(err, convert.ErrConfiguration) {
				t.Fatalf("expected rejection, got %v", err)
			}
		})
	}
}
