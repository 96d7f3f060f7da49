package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	"github.com/bibbank/cardiorisk/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles and
// returns the caller's tenant.
func requireRole(ctx context.Context, roles ...string) (uuid.UUID, error) {
	claims, err := auth.Authorize(ctx, roles...)
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		return uuid.Nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	case err != nil:
		return uuid.Nil, status.Error(codes.Internal, "internal error")
	}
	return claims.TenantID, nil
}

// Compile-time assertion that CardioRiskHandler implements CardioRiskServiceServer.
var _ CardioRiskServiceServer = (*CardioRiskHandler)(nil)

// CardioRiskHandler implements the gRPC CardioRiskServiceServer interface.
type CardioRiskHandler struct {
	UnimplementedCardioRiskServiceServer
	computeRisk     *usecase.ComputeRisk
	assessRisk      *usecase.AssessRisk
	getAssessment   *usecase.GetAssessment
	listAssessments *usecase.ListAssessments
	logger          *slog.Logger
}

// NewCardioRiskHandler creates a new gRPC handler.
func NewCardioRiskHandler(
	computeRisk *usecase.ComputeRisk,
	assessRisk *usecase.AssessRisk,
	getAssessment *usecase.GetAssessment,
	listAssessments *usecase.ListAssessments,
	logger *slog.Logger,
) *CardioRiskHandler {
	return &CardioRiskHandler{
		computeRisk:     computeRisk,
		assessRisk:      assessRisk,
		getAssessment:   getAssessment,
		listAssessments: listAssessments,
		logger:          logger,
	}
}

// Proto-aligned request/response message types.

// MeasurementsMsg represents the proto Measurements message. Numeric fields
// are optional so that an omitted value is rejected instead of read as zero.
type MeasurementsMsg struct {
	Age           *float64 `json:"age,omitempty"`
	BloodPressure string   `json:"blood_pressure"`
	Cholesterol   *float64 `json:"cholesterol,omitempty"`
	BMI           *float64 `json:"bmi,omitempty"`
	SmokingYears  *float64 `json:"smoking_years,omitempty"`
}

func (m *MeasurementsMsg) toInput() dto.MeasurementInput {
	if m == nil {
		return dto.MeasurementInput{}
	}
	return dto.MeasurementInput{
		Age:           m.Age,
		BloodPressure: m.BloodPressure,
		Cholesterol:   m.Cholesterol,
		BMI:           m.BMI,
		SmokingYears:  m.SmokingYears,
	}
}

// ActivationsMsg represents the proto Activations message.
type ActivationsMsg struct {
	Low      float64 `json:"low"`
	Medium   float64 `json:"medium"`
	High     float64 `json:"high"`
	Fallback bool    `json:"fallback"`
}

func toActivationsMsg(a dto.ActivationsResponse) *ActivationsMsg {
	return &ActivationsMsg{Low: a.Low, Medium: a.Medium, High: a.High, Fallback: a.Fallback}
}

// AssessmentMsg represents the proto RiskAssessment message.
type AssessmentMsg struct {
	ID            string                 `json:"id"`
	TenantID      string                 `json:"tenant_id"`
	PatientRef    string                 `json:"patient_ref"`
	AssessedOn    string                 `json:"assessed_on"`
	BloodPressure string                 `json:"blood_pressure"`
	RiskLevel     string                 `json:"risk_level"`
	CreatedAt     *timestamppb.Timestamp `json:"created_at"`
	Activations   *ActivationsMsg        `json:"activations"`
	Age           float64                `json:"age"`
	SystolicBP    float64                `json:"systolic_bp"`
	Cholesterol   float64                `json:"cholesterol"`
	BMI           float64                `json:"bmi"`
	SmokingYears  float64                `json:"smoking_years"`
	RiskScore     float64                `json:"risk_score"`
	Version       int32                  `json:"version"`
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	return &AssessmentMsg{
		ID:            a.ID.String(),
		TenantID:      a.TenantID.String(),
		PatientRef:    a.PatientRef,
		AssessedOn:    a.AssessedOn,
		BloodPressure: a.BloodPressure,
		Age:           a.Age,
		SystolicBP:    a.SystolicBP,
		Cholesterol:   a.Cholesterol,
		BMI:           a.BMI,
		SmokingYears:  a.SmokingYears,
		RiskScore:     a.RiskScore,
		RiskLevel:     a.RiskLevel,
		Activations:   toActivationsMsg(a.Activations),
		Version:       int32(a.Version),
		CreatedAt:     timestamppb.New(a.CreatedAt),
	}
}

// ComputeRiskRequest represents the proto ComputeRiskRequest message.
type ComputeRiskRequest struct {
	Measurements *MeasurementsMsg `json:"measurements"`
}

// ComputeRiskResponse represents the proto ComputeRiskResponse message.
type ComputeRiskResponse struct {
	RiskLevel   string          `json:"risk_level"`
	RiskLabel   string          `json:"risk_label"`
	Activations *ActivationsMsg `json:"activations"`
	RiskScore   float64         `json:"risk_score"`
}

// AssessRiskRequest represents the proto AssessRiskRequest message.
type AssessRiskRequest struct {
	PatientRef   string           `json:"patient_ref"`
	AssessedOn   string           `json:"assessed_on,omitempty"`
	Measurements *MeasurementsMsg `json:"measurements"`
}

// AssessRiskResponse represents the proto AssessRiskResponse message.
type AssessRiskResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListAssessmentsRequest represents the proto ListAssessmentsRequest message.
type ListAssessmentsRequest struct {
	Query  string `json:"q,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
	Offset int32  `json:"offset,omitempty"`
}

// ListAssessmentsResponse represents the proto ListAssessmentsResponse message.
type ListAssessmentsResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
	Total       int32            `json:"total"`
}

// ComputeRisk scores measurements without storing them.
func (h *CardioRiskHandler) ComputeRisk(ctx context.Context, req *ComputeRiskRequest) (*ComputeRiskResponse, error) {
	if _, err := requireRole(ctx, auth.RoleClinician, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.computeRisk.Execute(ctx, dto.ComputeRiskRequest{MeasurementInput: req.Measurements.toInput()})
	if err != nil {
		return nil, h.toStatus(ctx, "compute risk", err)
	}

	return &ComputeRiskResponse{
		RiskScore:   result.RiskScore,
		RiskLevel:   result.RiskLevel,
		RiskLabel:   result.RiskLabel,
		Activations: toActivationsMsg(result.Activations),
	}, nil
}

// AssessRisk scores and stores a patient's measurements.
func (h *CardioRiskHandler) AssessRisk(ctx context.Context, req *AssessRiskRequest) (*AssessRiskResponse, error) {
	tenantID, err := requireRole(ctx, auth.RoleClinician, auth.RoleAPIClient)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	h.logger.InfoContext(ctx, "assessing risk",
		slog.String("tenant_id", tenantID.String()),
		slog.String("patient_ref", req.PatientRef),
	)

	result, err := h.assessRisk.Execute(ctx, dto.AssessRiskRequest{
		TenantID:         tenantID,
		PatientRef:       req.PatientRef,
		AssessedOn:       req.AssessedOn,
		MeasurementInput: req.Measurements.toInput(),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "assess risk", err)
	}

	return &AssessRiskResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment returns one stored assessment of the caller's tenant.
func (h *CardioRiskHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	tenantID, err := requireRole(ctx, auth.RoleClinician, auth.RoleAuditor, auth.RoleAPIClient)
	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{
		TenantID:     tenantID,
		AssessmentID: assessmentID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "get assessment", err)
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListAssessments pages through the caller's assessment history.
func (h *CardioRiskHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	tenantID, err := requireRole(ctx, auth.RoleClinician, auth.RoleAuditor, auth.RoleAPIClient)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = &ListAssessmentsRequest{}
	}

	result, err := h.listAssessments.Execute(ctx, dto.ListAssessmentsRequest{
		TenantID: tenantID,
		Search:   req.Query,
		Sort:     req.Sort,
		Limit:    int(req.Limit),
		Offset:   int(req.Offset),
	})
	if err != nil {
		return nil, h.toStatus(ctx, "list assessments", err)
	}

	out := &ListAssessmentsResponse{
		Assessments: make([]*AssessmentMsg, 0, len(result.Assessments)),
		Total:       int32(result.Total),
	}
	for _, a := range result.Assessments {
		out.Assessments = append(out.Assessments, toAssessmentMsg(a))
	}
	return out, nil
}

// toStatus maps use case errors onto gRPC codes. Internal details are logged
// and not returned to the caller.
func (h *CardioRiskHandler) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, valueobject.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return status.Error(codes.Internal, "internal error")
	}
}
