package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/infrastructure/spreadsheet"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		file, tenant string
		dryRun       bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Assess every row of an xlsx workbook",
		Long: `Reads the first sheet of the workbook. The header row must name the
columns ID, Usia, TekananDarah, Kolesterol, BMI and Merokok; Tanggal is
optional. Rows with bad values are reported and skipped.

With --dry-run the rows are scored locally and nothing is stored, so no
database or broker is needed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer f.Close()

			rows, err := spreadsheet.ReadRows(f)
			if err != nil {
				return err
			}

			engine := service.NewDecisionEngine()
			var assess *usecase.AssessRisk
			if !dryRun {
				svc, err := a.services(cmd.Context())
				if err != nil {
					return err
				}
				defer svc.close()
				assess = svc.assess
			}

			resp, err := usecase.NewImportAssessments(assess, engine, a.cfg.Engine.ImportConcurrency, a.logger).
				Execute(cmd.Context(), dto.ImportAssessmentsRequest{TenantID: tenantID, Rows: rows, DryRun: dryRun})
			if err != nil && !resp.Aborted {
				return err
			}
			if perr := printImport(cmd.OutOrStdout(), resp, dryRun, asJSON); perr != nil {
				return perr
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "xlsx workbook to import")
	f.StringVar(&tenant, "tenant", "", "tenant UUID owning the assessments")
	f.BoolVar(&dryRun, "dry-run", false, "score rows without storing them")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

// printImport writes the per-row results. An aborted batch still prints the
// rows handled before the failure so the operator knows what was stored.
func printImport(out io.Writer, resp dto.ImportAssessmentsResponse, dryRun, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	printf(tw, "ROW\tID\tNILAI\tRISIKO\tERROR\n")
	for _, r := range resp.Results {
		score := "-"
		if r.Error == "" {
			score = fmt.Sprintf("%.2f", r.RiskScore)
		}
		printf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Row, r.PatientRef, score, r.RiskLevel, r.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	suffix := ""
	switch {
	case resp.Aborted:
		suffix = " (aborted)"
	case dryRun:
		suffix = " (dry run)"
	}
	printf(out, "imported %d, failed %d%s\n", resp.Imported, resp.Failed, suffix)
	return nil
}
