package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"asset-core/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on assets and the identity manifest",
	Long:  `Checks the bucket folder structure, that every mapped path exists, that no identity is mapped twice and the asset_paths schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), integrityAll)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityStructure)
	},
}

// mappingsCheckCmd represents the integrity mappings command
var mappingsCheckCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Compare the identity manifest with stored objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityMappings)
	},
}

// duplicatesCmd represents the integrity duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List identities mapped to more than one path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityDuplicates)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the asset_paths table against its model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integritySchema)
	},
}

// reconcileCmd represents the integrity reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the identity map, the manifest and the bucket",
	Long:  `Reports paths that are unmapped, unpersisted or missing. With --apply, persisted mappings are adopted, unmapped objects get identities and the manifest is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		apply, _ := cmd.Flags().GetBool("apply")

		env, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := env.log
		defer logg.Sync()

		svc := integrity.NewService(env.integrityOptions(0), logg)
		startTime := time.Now()

		if !apply {
			plan, err := svc.PlanReconcile(ctx)
			if err != nil {
				return fmt.Errorf("reconciliation failed: %w", err)
			}
			for _, a := range plan.Actions {
				logg.Info("Planned action", zap.String("type", string(a.Type)), zap.String("path", a.Path), zap.String("reason", a.Reason))
			}
			logg.Info("Reconciliation planned",
				zap.Int("total", plan.Summary.TotalItems),
				zap.Int("unmapped", plan.Summary.Unmapped),
				zap.Int("unpersisted", plan.Summary.Unpersisted),
				zap.Int("missing_objects", plan.Summary.MissingObjects),
				zap.Int("mismatches", plan.Summary.Mismatches),
				zap.Duration("execution_time", time.Since(startTime)),
			)
			if len(plan.Actions) > 0 {
				logg.Info("Run with --apply to execute the planned actions.")
			}
			return nil
		}

		plan, executed, err := svc.ApplyReconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconciliation failed: %w", err)
		}
		logg.Info("Reconciliation completed",
			zap.Int("executed", executed),
			zap.Int("adopted", plan.Summary.AdoptActions),
			zap.Int("assigned", plan.Summary.AssignActions),
			zap.Int("persisted", plan.Summary.PersistActions),
			zap.Duration("execution_time", time.Since(startTime)),
		)
		return nil
	},
}

type integrityScope int

const (
	integrityAll integrityScope = iota
	integrityStructure
	integrityMappings
	integrityDuplicates
	integritySchema
)

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, mappingsCheckCmd, duplicatesCmd, schemaCmd, reconcileCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
	mappingsCheckCmd.Flags().Bool("json", false, "Save the detailed report as JSON")
	reconcileCmd.Flags().Bool("apply", false, "Execute the planned actions")
}

func runIntegrityChecks(ctx context.Context, scope integrityScope) error {
	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := env.log
	defer logg.Sync()

	svc := integrity.NewService(env.integrityOptions(0), logg)
	all := scope == integrityAll

	if all || scope == integrityStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if scope == integrityStructure && fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else if scope == integrityStructure {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	if all || scope == integrityMappings {
		logg.Info("Checking mapped assets (this might take a while)...", zap.Int("entries", env.mapper.Len()))
		startTime := time.Now()
		report, err := svc.CheckMappings(ctx)
		if err != nil {
			return fmt.Errorf("mapping check failed: %w", err)
		}

		if jsonOutput, _ := mappingsCheckCmd.Flags().GetBool("json"); jsonOutput && scope == integrityMappings {
			filename := fmt.Sprintf("integrity_mappings_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			logg.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		logg.Info("Mapping integrity check completed",
			zap.Int("total", report.Total),
			zap.Int("missing", len(report.Missing)),
			zap.Int("unmapped", len(report.Unmapped)),
			zap.Duration("execution_time", time.Since(startTime)),
		)
	}

	if all || scope == integrityDuplicates {
		logg.Info("Checking duplicate identities...")
		duplicates := svc.CheckDuplicates()
		if len(duplicates) == 0 {
			logg.Info("Every identity maps to a single path.")
		}
		for _, d := range duplicates {
			logg.Warn("Identity mapped to multiple paths",
				zap.String("guid", d.GUID.String()),
				zap.Strings("paths", d.Paths),
			)
		}
	}

	if all || scope == integritySchema {
		if env.db == nil {
			logg.Warn("Skipping schema check, no database connection")
			return nil
		}
		logg.Info("Checking asset_paths schema...", zap.String("driver", env.cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
			return nil
		}
		if report.Matched {
			logg.Info("Schema matches expected definition.")
			return nil
		}
		logg.Warn("Schema mismatches found")
		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
	return nil
}
