package llmclassifier

import (
	"context"
	"fmt"
	"time"

	pb "github.com/intentguard/core/proto"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCClassifier wraps a gRPC connection to a remote classification
// substrate, mirroring the wrapped-connection shape of tarsy's LLM client.
// A failed or slow call falls back to a StubClassifier rather than
// propagating an error the scheduler would have to special-case (§6
// "deterministic fallback if unreachable").
type GRPCClassifier struct {
	conn     *grpc.ClientConn
	client   pb.SubstrateClient
	fallback Classifier
}

// NewGRPCClassifier dials addr and wraps it; fallback is used whenever the
// remote call errors or exceeds its caller-supplied timeout.
func NewGRPCClassifier(addr string) (*GRPCClassifier, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("llmclassifier: dial substrate: %w", err)
	}
	return &GRPCClassifier{
		conn:     conn,
		client:   pb.NewSubstrateClient(conn),
		fallback: StubClassifier{},
	}, nil
}

func (c *GRPCClassifier) Classify(ctx context.Context, text string, choices []string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.Classify(ctx, &pb.ClassifyRequest{Text: text, Choices: choices})
	if err != nil {
		return c.fallback.Classify(ctx, text, choices, timeout)
	}
	return resp.GetChoice(), nil
}

// Close tears down the underlying connection.
func (c *GRPCClassifier) Close() error {
	return c.conn.Close()
}
