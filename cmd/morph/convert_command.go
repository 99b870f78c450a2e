package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"morph/internal/fileutil"
	"morph/internal/history"
	"morph/internal/logging"
	"morph/internal/registry"
	"morph/internal/services"
	"morph/internal/session"
	"morph/internal/tempfiles"
	"morph/internal/workerpool"
	"morph/internal/workflow"
)

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert <file> <target>",
		Short: "Convert a local file to the given target format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			input, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("stat input file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("input %q is a directory", input)
			}

			sourceExt := registry.NormalizeExtension(filepath.Ext(input))
			target := registry.NormalizeExtension(args[1])
			if !registry.IsSupported(sourceExt) {
				return fmt.Errorf("unsupported source format %q (run `morph formats`)", sourceExt)
			}
			if !registry.IsLegalTarget(sourceExt, target) {
				codes := make([]string, 0, 4)
				for _, t := range registry.LegalTargets(sourceExt) {
					codes = append(codes, t.Code)
				}
				return fmt.Errorf("cannot convert %s to %s; legal targets: %s", sourceExt, target, strings.Join(codes, ", "))
			}

			dest := strings.TrimSpace(outputPath)
			if dest == "" {
				dest = strings.TrimSuffix(input, filepath.Ext(input)) + "." + target
			}

			logger := logging.NewNop()
			temp, err := tempfiles.NewManager(cfg.Paths.TempDir, logger)
			if err != nil {
				return fmt.Errorf("prepare temp workspace: %w", err)
			}

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history ledger: %w", err)
				}
				defer store.Close()
			}

			pool := workerpool.New(1, logger)
			pool.Start()
			defer pool.Close()

			wf := workflow.NewManager(
				services.BuildDispatcher(cfg),
				pool,
				temp,
				store,
				nil,
				time.Duration(cfg.Limits.TimeoutSeconds)*time.Second,
				logger,
			)

			result, err := wf.Execute(cmd.Context(), workflow.Request{
				Selection: session.Selection{
					OwnerID:    "cli",
					FileHandle: input,
					FileName:   filepath.Base(input),
					SourceExt:  sourceExt,
					TargetExt:  target,
					Size:       info.Size(),
				},
				SizeHint: info.Size(),
				Fetch: func(_ context.Context, inputPath string) error {
					return fileutil.CopyFile(input, inputPath)
				},
				Deliver: func(_ context.Context, artifactPath string) error {
					return fileutil.CopyFileVerified(artifactPath, dest)
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s in %s)\n",
				dest,
				humanize.IBytes(uint64(result.OutputBytes)),
				result.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination path (defaults to the input name with the target extension)")
	return cmd
}
