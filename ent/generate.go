// Package ent is the generated entity client for the cross-run index
// store. Run `go generate ./ent` to produce it from ent/schema/*.go.
package ent

//go:generate go run -mod=mod entgo.io/ent/cmd/ent generate ./schema
