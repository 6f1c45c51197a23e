package index

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/intentguard/core/ent"
	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestClient starts a disposable Postgres container and auto-migrates
// the ent schema onto it, bypassing the embedded golang-migrate files so
// tests don't depend on migration-ordering bugs.
func newTestClient(t *testing.T) *Client {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	drv, err := sql.Open(dialect.Postgres, connStr)
	require.NoError(t, err)

	entClient := ent.NewClient(ent.Driver(drv))
	require.NoError(t, entClient.Schema.Create(ctx))

	client := &Client{Client: entClient, db: drv.DB()}
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestClient_RecordAndListRuns(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.RecordRun(ctx, RunSummary{ID: "run-001", Status: "ok"}, []StepResultRecord{
		{StepNum: 0, Status: "ok", DurationMS: 12},
		{StepNum: 1, Status: "ok", DurationMS: 8},
	})
	require.NoError(t, err)

	runs, err := client.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-001", runs[0].ID)
	assert.Equal(t, "ok", runs[0].Status)
}

func TestClient_GetRun_IncludesSteps(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.RecordRun(ctx, RunSummary{ID: "run-002", Status: "warning"}, []StepResultRecord{
		{StepNum: 0, Status: "ok", DurationMS: 5},
		{StepNum: 1, Status: "warning", DurationMS: 3, Error: "no documents gathered"},
	}))

	r, err := client.GetRun(ctx, "run-002")
	require.NoError(t, err)
	assert.Equal(t, "warning", r.Status)
	assert.Len(t, r.Edges.Steps, 2)
}

func TestClient_LatestIdentity_ErrorsWhenEmpty(t *testing.T) {
	client := newTestClient(t)
	_, err := client.LatestIdentity(context.Background())
	assert.Error(t, err)
}

func TestClient_DriftLog_FiltersByTool(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.RecordDriftEvent(ctx, "git_force_push", 0.4, 0.55, []string{"version_control"}, time.Now()))
	require.NoError(t, client.RecordDriftEvent(ctx, "deploy", 0.1, 0.2, []string{"deployment", "security"}, time.Now()))

	events, err := client.DriftLog(ctx, "git_force_push", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "git_force_push", events[0].Tool)
}

func TestClient_RecordIdentitySnapshot(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.RecordRun(ctx, RunSummary{ID: "run-003", Status: "ok"}, nil))
	require.NoError(t, client.RecordIdentitySnapshot(ctx, "run-003", models.IdentityVector{
		SovereigntyScore: 0.72,
		CategoryScores:   map[category.Category]float64{"security": 0.9},
		Signature:        "deadbeef",
	}))

	snap, err := client.LatestIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.72, snap.SovereigntyScore)
	assert.Equal(t, "deadbeef", snap.Signature)
}

func TestClient_RecordTaskExecution(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.RecordTaskExecution(ctx, "nightly-digest", "infra-room", "trusted", time.Now()))

	count, err := client.TaskExecution.Query().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
