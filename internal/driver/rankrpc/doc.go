// Package rankrpc is the cross-rank collective-reduction transport of
// spec.md §4.7/§5: once every rank has integrated its own cone's
// rays, rank 0 gathers each peer's partial sums over gRPC and folds
// them into the run's final statistics.
//
// There is no .proto file behind this service — the wire payload is
// the stock google.golang.org/protobuf/types/known/structpb.Struct
// message, carrying a flat map of partial-sum/count fields, and the
// service is registered by hand with a grpc.ServiceDesc rather than
// protoc-generated stubs.
package rankrpc
