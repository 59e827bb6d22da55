// Package status exposes the sequencer status over gRPC.
//
// The service is registered with a hand-written service descriptor and speaks
// well-known protobuf types only: the request is google.protobuf.Empty and
// the reply is a google.protobuf.Struct snapshot of the last tick.
package status
