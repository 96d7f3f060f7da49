package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/infrastructure/spreadsheet"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		out, tenant, query, sort, locale string
		limit                            int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a tenant's assessment history to an xlsx workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := parseTenant(tenant)
			if err != nil {
				return err
			}
			if locale == "" {
				locale = a.cfg.Engine.Locale
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			resp, err := usecase.NewExportAssessments(svc.list, spreadsheet.NewExporter(locale)).
				Execute(cmd.Context(), dto.ExportAssessmentsRequest{ListAssessmentsRequest: dto.ListAssessmentsRequest{
					TenantID: tenantID,
					Search:   query,
					Sort:     sort,
					Limit:    limit,
				}}, f)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("close %s: %w", out, closeErr)
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}

			printf(cmd.OutOrStdout(), "exported %d assessments to %s\n", resp.Count, out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "hasil-diagnosa.xlsx", "output workbook path")
	f.StringVar(&tenant, "tenant", "", "tenant UUID to export")
	f.StringVarP(&query, "query", "q", "", "only assessments matching this text")
	f.StringVar(&sort, "sort", "", `sort column, "-" prefix for descending (default newest first)`)
	f.IntVar(&limit, "limit", 0, "export at most this many assessments (0 means all)")
	f.StringVar(&locale, "locale", "", "label language, id or en (default from config)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
