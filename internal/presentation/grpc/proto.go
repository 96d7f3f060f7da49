package grpc

// proto.go defines the gRPC server interface for bib/cardio/v1/cardio.proto.
// It stands in for buf-generated code; messages travel with the json codec
// registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "bib.cardio.v1.CardioRiskService"

// CardioRiskServiceServer is the server API for CardioRiskService.
type CardioRiskServiceServer interface {
	ComputeRisk(context.Context, *ComputeRiskRequest) (*ComputeRiskResponse, error)
	AssessRisk(context.Context, *AssessRiskRequest) (*AssessRiskResponse, error)
	GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error)
	ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error)
	mustEmbedUnimplementedCardioRiskServiceServer()
}

// UnimplementedCardioRiskServiceServer provides forward-compatible default implementations.
type UnimplementedCardioRiskServiceServer struct{}

func (UnimplementedCardioRiskServiceServer) ComputeRisk(context.Context, *ComputeRiskRequest) (*ComputeRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputeRisk not implemented")
}
func (UnimplementedCardioRiskServiceServer) AssessRisk(context.Context, *AssessRiskRequest) (*AssessRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessRisk not implemented")
}
func (UnimplementedCardioRiskServiceServer) GetAssessment(context.Context, *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedCardioRiskServiceServer) ListAssessments(context.Context, *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAssessments not implemented")
}
func (UnimplementedCardioRiskServiceServer) mustEmbedUnimplementedCardioRiskServiceServer() {}

// RegisterCardioRiskServiceServer registers the CardioRiskServiceServer with the gRPC server.
func RegisterCardioRiskServiceServer(s grpclib.ServiceRegistrar, srv CardioRiskServiceServer) {
	s.RegisterService(&_CardioRiskService_serviceDesc, srv)
}

var _CardioRiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CardioRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ComputeRisk", Handler: _CardioRiskService_ComputeRisk_Handler},
		{MethodName: "AssessRisk", Handler: _CardioRiskService_AssessRisk_Handler},
		{MethodName: "GetAssessment", Handler: _CardioRiskService_GetAssessment_Handler},
		{MethodName: "ListAssessments", Handler: _CardioRiskService_ListAssessments_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/cardio/v1/cardio.proto",
}

func _CardioRiskService_ComputeRisk_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ComputeRiskRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardioRiskServiceServer).ComputeRisk(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ComputeRisk"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CardioRiskServiceServer).ComputeRisk(ctx, req.(*ComputeRiskRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CardioRiskService_AssessRisk_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessRiskRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardioRiskServiceServer).AssessRisk(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/AssessRisk"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CardioRiskServiceServer).AssessRisk(ctx, req.(*AssessRiskRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CardioRiskService_GetAssessment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetAssessmentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardioRiskServiceServer).GetAssessment(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetAssessment"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CardioRiskServiceServer).GetAssessment(ctx, req.(*GetAssessmentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CardioRiskService_ListAssessments_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListAssessmentsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardioRiskServiceServer).ListAssessments(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListAssessments"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CardioRiskServiceServer).ListAssessments(ctx, req.(*ListAssessmentsRequest))
	}
	return interceptor(ctx, req, info, handler)
}
