package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/service"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		age, cholesterol, bmi, smoking float64
		bloodPressure, locale          string
		asJSON                         bool
	)

	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score one set of measurements without storing it",
		Example: `  cardioctl score --age 45 --bp 130/85 --cholesterol 220 --bmi 27 --smoking 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if locale == "" {
				locale = a.cfg.Engine.Locale
			}

			// Unset flags stay nil so they are reported as missing.
			set := func(name string, v float64) *float64 {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				return &v
			}
			in := dto.MeasurementInput{
				Age:           set("age", age),
				BloodPressure: bloodPressure,
				Cholesterol:   set("cholesterol", cholesterol),
				BMI:           set("bmi", bmi),
				SmokingYears:  set("smoking", smoking),
			}

			resp, err := usecase.NewComputeRisk(service.NewDecisionEngine(), locale).
				Execute(cmd.Context(), dto.ComputeRiskRequest{MeasurementInput: in})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			printf(out, "Nilai Risiko:      %.2f\n", resp.RiskScore)
			printf(out, "Keterangan Risiko: %s (%s)\n", resp.RiskLabel, resp.RiskLevel)
			printf(out, "Aktivasi:          low=%.3f medium=%.3f high=%.3f\n",
				resp.Activations.Low, resp.Activations.Medium, resp.Activations.High)
			if resp.Activations.Fallback {
				printf(out, "%s\n", "No rule fired; medium fallback applied.")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&age, "age", 0, "age in years")
	f.StringVar(&bloodPressure, "bp", "", `blood pressure, "systolic/diastolic" or systolic only`)
	f.Float64Var(&cholesterol, "cholesterol", 0, "total cholesterol in mg/dL")
	f.Float64Var(&bmi, "bmi", 0, "body mass index")
	f.Float64Var(&smoking, "smoking", 0, "years of smoking")
	f.StringVar(&locale, "locale", "", "label language, id or en (default from config)")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

