package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		hexBlock string
		file     string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "verify (--hex <block> | --file <path>)",
		Short: "Verify the sign block witness of a single block",
		Long: `verify decodes a serialized block given as hex or read raw from a file and
checks its sign block witness against the active signing policy. The exit
status is 1 when the block does not decode or the witness does not satisfy
the policy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBlockInput(hexBlock, file)
			if err != nil {
				return err
			}
			r := a.checkBlock(raw)
			a.log.Info("block checked", "hash", r.Hash, "ok", r.OK, "code", r.Code)
			if err := writeReports(a.stdout, asJSON, []report{r}); err != nil {
				return err
			}
			if !r.OK {
				return errVerificationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hexBlock, "hex", "", "Serialized block as hex")
	cmd.Flags().StringVar(&file, "file", "", "Path to a raw serialized block")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("hex", "file")
	cmd.MarkFlagsOneRequired("hex", "file")
	return cmd
}

func readBlockInput(hexBlock, file string) ([]byte, error) {
	switch {
	case hexBlock != "" && file != "":
		return nil, errors.New("only one of --hex and --file may be given")
	case hexBlock != "":
		raw, err := hex.DecodeString(strings.TrimSpace(hexBlock))
		if err != nil {
			return nil, fmt.Errorf("decode --hex: %w", err)
		}
		return raw, nil
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read block: %w", err)
		}
		return raw, nil
	default:
		return nil, errors.New("one of --hex or --file is required")
	}
}
