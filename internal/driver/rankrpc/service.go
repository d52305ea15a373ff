package rankrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "rankrpc.Reducer"

// Partial is one rank's contribution to a collective reduction: for
// every redshift bin, a running sum, sum-of-squares, and sample count
// (enough to fold several ranks' partial statistics into the
// combined mean/std spec.md §4.7 calls for).
type Partial struct {
	Redshifts []float64
	Sum       []float64
	SumSq     []float64
	Count     []int64
}

// ToStruct encodes p as a structpb.Struct, the wire type this
// service's Submit method carries in place of a generated message.
func (p Partial) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"redshifts": floatsToAny(p.Redshifts),
		"sum":       floatsToAny(p.Sum),
		"sumsq":     floatsToAny(p.SumSq),
		"count":     int64sToAny(p.Count),
	})
}

// PartialFromStruct decodes a Partial previously produced by ToStruct.
func PartialFromStruct(s *structpb.Struct) (Partial, error) {
	redshifts, err := anyToFloats(s.Fields["redshifts"])
	if err != nil {
		return Partial{}, fmt.Errorf("rankrpc: decoding redshifts: %w", err)
	}
	sum, err := anyToFloats(s.Fields["sum"])
	if err != nil {
		return Partial{}, fmt.Errorf("rankrpc: decoding sum: %w", err)
	}
	sumSq, err := anyToFloats(s.Fields["sumsq"])
	if err != nil {
		return Partial{}, fmt.Errorf("rankrpc: decoding sumsq: %w", err)
	}
	count, err := anyToFloats(s.Fields["count"])
	if err != nil {
		return Partial{}, fmt.Errorf("rankrpc: decoding count: %w", err)
	}
	counts := make([]int64, len(count))
	for i, c := range count {
		counts[i] = int64(c)
	}
	return Partial{Redshifts: redshifts, Sum: sum, SumSq: sumSq, Count: counts}, nil
}

func floatsToAny(xs []float64) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func int64sToAny(xs []int64) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func anyToFloats(v *structpb.Value) ([]float64, error) {
	if v == nil {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("expected list value")
	}
	out := make([]float64, len(list.Values))
	for i, item := range list.Values {
		out[i] = item.GetNumberValue()
	}
	return out, nil
}

// Reducer is the server-side implementation a rank-0 process runs:
// Submit receives one peer rank's Partial and folds it into an
// accumulator supplied by the caller.
type Reducer struct {
	Accumulate func(Partial)
}

func (r *Reducer) submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := PartialFromStruct(req)
	if err != nil {
		return nil, err
	}
	r.Accumulate(p)
	return &structpb.Struct{}, nil
}

// reducerServer is the interface grpc.Server.RegisterService checks
// the registered implementation against (HandlerType must point to an
// interface type).
type reducerServer interface {
	submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// serviceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// would emit for a single-method Reducer service: the same
// grpc.ServiceDesc/grpc.MethodDesc shape generated code registers,
// populated without a .proto file or generated stubs.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*reducerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Submit",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				req := new(structpb.Struct)
				if err := dec(req); err != nil {
					return nil, err
				}
				reducer := srv.(*Reducer)
				if interceptor == nil {
					return reducer.submit(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Submit"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return reducer.submit(ctx, req.(*structpb.Struct))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
	},
}

// Register attaches the Reducer service to server.
func Register(server *grpc.Server, r *Reducer) {
	server.RegisterService(&serviceDesc, r)
}

// Submit calls Submit on the reducer listening at conn, sending p.
func Submit(ctx context.Context, conn grpc.ClientConnInterface, p Partial) error {
	req, err := p.ToStruct()
	if err != nil {
		return fmt.Errorf("rankrpc: encoding partial: %w", err)
	}
	resp := new(structpb.Struct)
	return conn.Invoke(ctx, "/"+serviceName+"/Submit", req, resp)
}
