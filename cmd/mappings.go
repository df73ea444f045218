package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"asset-core/core/identity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mappingsCmd represents the mappings command
var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Manage the path to identity manifest",
	Long:  `Lists, edits, exports and imports the identity manifest held by the configured backend.`,
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every mapping as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer env.log.Sync()

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(env.mapper.Entries())
	},
}

var mappingsSetCmd = &cobra.Command{
	Use:   "set <path> [guid]",
	Short: "Map a path to an identity, minting one when omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if env.cfg.Server.ReadOnly() {
			return fmt.Errorf("mappings are read-only in the %s profile", env.cfg.Server.Profile)
		}

		path := args[0]
		var id identity.GUID
		if len(args) == 2 {
			if id, err = identity.Parse(args[1]); err != nil {
				return err
			}
			if !env.mapper.SetPath(path, id) {
				current, _ := env.mapper.GetIdentity(path)
				return fmt.Errorf("%s is already mapped to %s", path, current)
			}
		} else {
			id = env.mapper.Assign(path)
		}

		if err := env.mapper.Save(cmd.Context(), env.store); err != nil {
			return err
		}
		env.log.Info("Mapping saved", zap.String("path", path), zap.String("guid", id.String()))
		return nil
	},
}

var mappingsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the manifest to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer env.log.Sync()

		if err := env.mapper.Export(args[0]); err != nil {
			return err
		}
		env.log.Info("Manifest exported", zap.String("file", args[0]), zap.Int("entries", env.mapper.Len()))
		return nil
	},
}

var mappingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a manifest file into the configured backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer env.log.Sync()
		if env.cfg.Server.ReadOnly() {
			return fmt.Errorf("mappings are read-only in the %s profile", env.cfg.Server.Profile)
		}

		report, err := env.mapper.Import(args[0])
		if err != nil {
			return err
		}
		if err := env.mapper.Save(cmd.Context(), env.store); err != nil {
			return err
		}
		env.log.Info("Manifest imported",
			zap.String("file", args[0]),
			zap.Int("added", report.Added),
			zap.Int("skipped", report.Skipped),
			zap.Int("invalid", report.Invalid),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(mappingsCmd)
	mappingsCmd.AddCommand(mappingsListCmd, mappingsSetCmd, mappingsExportCmd, mappingsImportCmd)
}
