package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/cardiorisk/pkg/postgres"
)

const selectColumns = `
	id, tenant_id, patient_ref, assessed_on,
	age, systolic_bp, blood_pressure, cholesterol, bmi, smoking_years,
	risk_score, risk_level,
	activation_low, activation_medium, activation_high, fallback,
	version, created_at, updated_at`

// sortColumns maps sort keys onto SQL columns. Only these ever reach ORDER BY.
var sortColumns = map[string]string{
	port.SortAssessedOn:   "assessed_on",
	port.SortPatientRef:   "patient_ref",
	port.SortAge:          "age",
	port.SortSystolicBP:   "systolic_bp",
	port.SortCholesterol:  "cholesterol",
	port.SortBMI:          "bmi",
	port.SortSmokingYears: "smoking_years",
	port.SortRiskScore:    "risk_score",
	port.SortRiskLevel:    "CASE risk_level WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END",
}

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// Save upserts an assessment. A write carrying an older version than the
// stored row is ignored.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.RiskAssessment) error {
	m := assessment.Measurements()
	act := assessment.Activations()

	query := `
		INSERT INTO risk_assessments (
			id, tenant_id, patient_ref, assessed_on,
			age, systolic_bp, blood_pressure, cholesterol, bmi, smoking_years,
			risk_score, risk_level,
			activation_low, activation_medium, activation_high, fallback,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			patient_ref = EXCLUDED.patient_ref,
			assessed_on = EXCLUDED.assessed_on,
			age = EXCLUDED.age,
			systolic_bp = EXCLUDED.systolic_bp,
			blood_pressure = EXCLUDED.blood_pressure,
			cholesterol = EXCLUDED.cholesterol,
			bmi = EXCLUDED.bmi,
			smoking_years = EXCLUDED.smoking_years,
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			activation_low = EXCLUDED.activation_low,
			activation_medium = EXCLUDED.activation_medium,
			activation_high = EXCLUDED.activation_high,
			fallback = EXCLUDED.fallback,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE risk_assessments.tenant_id = EXCLUDED.tenant_id
			AND risk_assessments.version <= EXCLUDED.version
	`

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			assessment.ID(),
			assessment.TenantID(),
			assessment.PatientRef(),
			assessment.AssessedOn(),
			decimal.NewFromFloat(m.Age()),
			decimal.NewFromFloat(m.SystolicBP()),
			assessment.BloodPressure(),
			decimal.NewFromFloat(m.Cholesterol()),
			decimal.NewFromFloat(m.BMI()),
			decimal.NewFromFloat(m.SmokingYears()),
			decimal.NewFromFloat(assessment.Score()),
			assessment.Level().String(),
			act.Low,
			act.Medium,
			act.High,
			act.Fallback,
			assessment.Version(),
			assessment.CreatedAt(),
			assessment.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save assessment: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.RiskAssessment, error) {
	query := `SELECT ` + selectColumns + `
		FROM risk_assessments
		WHERE tenant_id = $1 AND id = $2`

	assessment, err := scanAssessment(r.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", port.ErrAssessmentNotFound, id)
		}
		return nil, err
	}
	return assessment, nil
}

// List returns one page of a tenant's assessments and the total match count.
func (r *AssessmentRepository) List(ctx context.Context, tenantID uuid.UUID, filter port.ListFilter) ([]*model.RiskAssessment, int, error) {
	where, args := buildWhere(tenantID, filter.Search)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM risk_assessments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM risk_assessments
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		selectColumns, where, orderBy(filter), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]*model.RiskAssessment, 0, filter.Limit)
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, total, nil
}

// buildWhere returns the tenant-scoped WHERE clause and its arguments. A
// search term matches patient reference, raw blood pressure or risk level;
// a display label such as "Tinggi" matches its level exactly.
func buildWhere(tenantID uuid.UUID, search string) (string, []any) {
	args := []any{tenantID}
	search = strings.TrimSpace(search)
	if search == "" {
		return "tenant_id = $1", args
	}

	pattern := "%" + escapeLike(search) + "%"
	args = append(args, pattern)
	clause := "tenant_id = $1 AND (patient_ref ILIKE $2 OR blood_pressure ILIKE $2 OR risk_level ILIKE $2"

	if level, ok := valueobject.RiskLevelFromLabel(search); ok {
		args = append(args, level.String())
		clause += " OR risk_level = $3"
	}
	return clause + ")", args
}

func orderBy(filter port.ListFilter) string {
	col, ok := sortColumns[filter.SortBy]
	if !ok {
		col = sortColumns[port.SortAssessedOn]
	}
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, created_at %s, id", col, dir, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanAssessment(row pgx.Row) (*model.RiskAssessment, error) {
	var (
		id            uuid.UUID
		tenantID      uuid.UUID
		patientRef    string
		assessedOn    time.Time
		age           decimal.Decimal
		systolicBP    decimal.Decimal
		bloodPressure string
		cholesterol   decimal.Decimal
		bmi           decimal.Decimal
		smokingYears  decimal.Decimal
		riskScore     decimal.Decimal
		riskLevelStr  string
		act           service.Activations
		version       int
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&id, &tenantID, &patientRef, &assessedOn,
		&age, &systolicBP, &bloodPressure, &cholesterol, &bmi, &smokingYears,
		&riskScore, &riskLevelStr,
		&act.Low, &act.Medium, &act.High, &act.Fallback,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	measurements, err := valueobject.NewClinicalMeasurements(
		age.InexactFloat64(),
		systolicBP.InexactFloat64(),
		cholesterol.InexactFloat64(),
		bmi.InexactFloat64(),
		smokingYears.InexactFloat64(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to restore measurements: %w", err)
	}

	return model.Reconstruct(
		id, tenantID, patientRef, assessedOn.UTC(), measurements, bloodPressure,
		riskScore.InexactFloat64(), riskLevel, act,
		version, createdAt, updatedAt,
	), nil
}
