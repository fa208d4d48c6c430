// Package grpcserver implements the AvailabilityService gRPC server.
//
// It delegates all business logic to session.Registry and handles only the
// gRPC transport concerns: metadata extraction, error mapping, and
// conversion between session views and protobuf Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/availability-service/internal/session"
)

// Server implements AvailabilityServer.
type Server struct {
	sessions *session.Registry
}

// NewServer constructs a gRPC Server backed by the given session registry.
func NewServer(sessions *session.Registry) *Server {
	return &Server{sessions: sessions}
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// FetchJobs reloads the caller's job list, unfiltered.
func (s *Server) FetchJobs(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	v, err := sess.Fetch(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(v)
}

// ApplyFilter filters the caller's job list by their availability.
func (s *Server) ApplyFilter(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	v, err := sess.ApplyFilter(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(v)
}

// GetView returns the caller's current screen state.
func (s *Server) GetView(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(sess.View())
}

// ToggleDay flips one weekday. Request: {"day": "Monday"}.
func (s *Server) ToggleDay(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	day := req.GetFields()["day"].GetStringValue()
	if day == "" {
		return nil, status.Error(codes.InvalidArgument, "day is required")
	}
	a, err := sess.ToggleDay(day)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{
		"availability":    a,
		"unavailableDays": a.UnavailableDays(),
	})
}

// SubmitJob records interest in a displayed job. Request: {"jobId": "rec1"}.
func (s *Server) SubmitJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	jobID := req.GetFields()["jobId"].GetStringValue()
	if jobID == "" {
		return nil, status.Error(codes.InvalidArgument, "jobId is required")
	}
	card, err := sess.Submit(ctx, jobID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(card)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Server) session(ctx context.Context) (*session.Session, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(userID), nil
}

// userIDFromCtx extracts the x-user-id value forwarded by the Gateway
// via gRPC metadata.
func userIDFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	return vals[0], nil
}

// toGRPCError maps session errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, session.ErrJobNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if errors.Is(err, session.ErrSourceUnavailable) {
		return status.Error(codes.Unavailable, "job source unavailable")
	}
	var ve *session.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	return status.Error(codes.Internal, "internal server error")
}

// toStruct converts any JSON-encodable value to a protobuf Struct by way of
// its JSON form, so field names match the HTTP API.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
