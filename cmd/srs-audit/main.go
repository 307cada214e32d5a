// srs-audit audits a powers-of-tau ceremony transcript and prepares the
// post-audit artifacts for downstream tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	srsaudit "github.com/consensys/srs-audit"
	"github.com/consensys/srs-audit/logger"
	"github.com/consensys/srs-audit/transcript"
)

var dbDir string

var rootCmd = &cobra.Command{
	Use:           "srs-audit",
	Short:         "Audit a powers-of-tau structured reference string",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <transcript.dat>",
	Short: "Verify that a transcript encodes consistent powers of τ and ατ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Logger()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		log.Info().Str("file", args[0]).Msg("loading transcript")
		t, err := transcript.ReadTranscript(f)
		if err != nil {
			return err
		}

		log.Info().Int("degree", t.Degree).Msg("verifying")
		v := srsaudit.NewVerifier(nil)
		report, err := v.VerifyTranscript(t)
		if err != nil {
			return err
		}
		if !report.Ok() {
			for _, c := range report.Failed() {
				log.Error().Stringer("check", c).Msg("check failed")
			}
			return fmt.Errorf("transcript rejected: %d check(s) failed", len(report.Failed()))
		}
		log.Info().Msg("success ✅: transcript is a valid SRS")
		return nil
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare <degree>",
	Short: "Reshape verified ceremony data for the range-proof tooling",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Logger()

		degree, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid degree %q: %w", args[0], err)
		}

		log.Info().Msg("loading data")
		genFile, err := os.Open(filepath.Join(dbDir, "generator.dat"))
		if err != nil {
			return err
		}
		defer genFile.Close()
		generator, err := transcript.ReadFrVector(genFile, degree+1)
		if err != nil {
			return err
		}

		tFile, err := os.Open(filepath.Join(dbDir, "transcript.dat"))
		if err != nil {
			return err
		}
		defer tFile.Close()
		t, err := transcript.ReadTranscript(tFile)
		if err != nil {
			return err
		}

		log.Info().Msg("transforming")
		if err := transcript.Prepare(dbDir, degree, generator, t.TauG1); err != nil {
			return err
		}
		log.Info().Msg("transformed and written")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDir, "db", "setup_db", "directory holding the ceremony files")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(prepareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.Logger()
		log.Error().Err(err).Msg("srs-audit failed")
		os.Exit(1)
	}
}
