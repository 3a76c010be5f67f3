package main

import (
	"fmt"
	"os"
	"time"

	"dynafed.dev/signblock/consensus"
	"dynafed.dev/signblock/store"

	"github.com/spf13/cobra"
)

func (a *app) openStore(dbPath string) (*store.DB, error) {
	if dbPath == "" {
		dbPath = a.cfg.Store.Path
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("store opened", "path", db.Path())
	return db, nil
}

func newImportCmd(a *app) *cobra.Command {
	var (
		dbPath string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "import --file <path> [--db <path>]",
		Short: "Store a raw serialized block keyed by its block hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read block: %w", err)
			}
			db, err := a.openStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := db.PutBlock(raw)
			if err != nil {
				return err
			}
			display := consensus.DisplayHash(hash)
			a.log.Info("block imported", "hash", display, "bytes", len(raw))
			_, err = fmt.Fprintln(a.stdout, display)
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the block store (default from config)")
	cmd.Flags().StringVar(&file, "file", "", "Path to a raw serialized block")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		dbPath string
		hash   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "check [--db <path>] [--hash <block hash>]",
		Short: "Verify stored blocks and record a verdict for each",
		Long: `check verifies the sign block witness of every stored block, or only the
block named by --hash, and records the verdict in the store. The exit status
is 1 when any checked block fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			var hashes [][32]byte
			if hash != "" {
				h, err := consensus.ParseDisplayHash(hash)
				if err != nil {
					return fmt.Errorf("invalid --hash: %w", err)
				}
				hashes = [][32]byte{h}
			} else if hashes, err = db.BlockHashes(); err != nil {
				return err
			}

			reports := make([]report, 0, len(hashes))
			for _, h := range hashes {
				raw, ok, err := db.GetBlock(h)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("block %s not found", consensus.DisplayHash(h))
				}
				r := a.checkBlock(raw)
				if err := db.PutVerdict(h, r.verdict(time.Now().Unix())); err != nil {
					return err
				}
				reports = append(reports, r)
			}
			a.log.Info("store checked", "blocks", len(reports), "ok", allOK(reports))

			if err := writeReports(a.stdout, asJSON, reports); err != nil {
				return err
			}
			if !allOK(reports) {
				return errVerificationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the block store (default from config)")
	cmd.Flags().StringVar(&hash, "hash", "", "Check only this block (display hex)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}
