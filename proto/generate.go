// Package proto holds the hand-authored substrate.proto IDL. The
// generated client/server stubs (substrate.pb.go, substrate_grpc.pb.go)
// are produced by `go generate` and are not checked into this tree.
package proto

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative substrate.proto
