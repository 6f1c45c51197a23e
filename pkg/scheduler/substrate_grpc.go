package scheduler

import (
	"context"
	"fmt"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
	pb "github.com/intentguard/core/proto"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCSubstrate dispatches injected tasks to a remote execution substrate
// over gRPC (§4.4 "the execution substrate... is responsible for
// countdown, human confirmation, and actual invocation"), mirroring
// llmclassifier.GRPCClassifier's wrapped-connection shape.
type GRPCSubstrate struct {
	conn   *grpc.ClientConn
	client pb.SubstrateClient
}

// NewGRPCSubstrate dials addr and wraps it as an ExecutionSubstrate.
func NewGRPCSubstrate(addr string) (*GRPCSubstrate, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("scheduler: dial substrate: %w", err)
	}
	return &GRPCSubstrate{conn: conn, client: pb.NewSubstrateClient(conn)}, nil
}

// Inject implements ExecutionSubstrate.
func (s *GRPCSubstrate) Inject(ctx context.Context, tier models.Tier, room, prompt string, categories []category.Category) error {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	resp, err := s.client.Inject(ctx, &pb.InjectRequest{
		Tier:       string(tier),
		Room:       room,
		Prompt:     prompt,
		Categories: names,
	})
	if err != nil {
		return fmt.Errorf("scheduler: inject via substrate: %w", err)
	}
	if !resp.GetAccepted() {
		return fmt.Errorf("scheduler: substrate rejected task for room %q", room)
	}
	return nil
}

// Close tears down the underlying connection.
func (s *GRPCSubstrate) Close() error {
	return s.conn.Close()
}
