package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/diagnostics"
)

// keyFrom reads event and year. The year may be sent as a number.
func keyFrom(req *structpb.Struct) (event, year string) {
	fields := req.GetFields()
	event = fields["event"].GetStringValue()
	switch v := fields["year"].GetKind().(type) {
	case *structpb.Value_StringValue:
		year = v.StringValue
	case *structpb.Value_NumberValue:
		year = strconv.FormatFloat(v.NumberValue, 'f', -1, 64)
	}
	return event, year
}

func (s *GRPCServer) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	event, year := keyFrom(req)

	res, err := s.timetables.Compile(ctx, event, year)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"event":           res.Event,
		"year":            res.Year,
		"generated":       res.Generated,
		"added":           res.Stats.Added,
		"replaced":        res.Stats.Replaced,
		"unchanged":       res.Stats.Unchanged,
		"keptManual":      res.Stats.KeptManual,
		"fallbackMatched": res.Stats.FallbackMatched,
		"warnings":        res.Count(diagnostics.LevelWarning),
		"errors":          res.Count(diagnostics.LevelError),
		"archive":         res.Archive,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) GetTimetable(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	event, year := keyFrom(req)

	doc, err := s.timetables.GetTimetable(ctx, event, year)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) ExportICS(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	event, year := keyFrom(req)

	body, err := s.timetables.ExportICS(ctx, event, year)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"ics": structpb.NewStringValue(body),
	}}, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidKey):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrMissingConfiguration), errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "compile timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
