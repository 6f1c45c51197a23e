package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentguard/core/pkg/category"
	"github.com/intentguard/core/pkg/cost"
	"github.com/intentguard/core/pkg/models"
	"github.com/intentguard/core/pkg/notify"
)

type fakeConfirm struct {
	granted bool
	calls   int
}

func (f *fakeConfirm) Confirm(ctx context.Context, id string, timeout time.Duration) (notify.Confirmation, error) {
	f.calls++
	return notify.Confirmation{Granted: f.granted, By: "test"}, nil
}

type fakeCostSink struct {
	records []cost.Record
}

func (f *fakeCostSink) Record(ctx context.Context, r cost.Record) (cost.Outcome, error) {
	f.records = append(f.records, r)
	return cost.Outcome{CostUSD: 0.01}, nil
}

type erroringConfirm struct{}

func (erroringConfirm) Confirm(ctx context.Context, id string, timeout time.Duration) (notify.Confirmation, error) {
	return notify.Confirmation{}, errors.New("confirmation channel unavailable")
}

func TestLocalSubstrate_GeneralTierWaitsForConfirmation(t *testing.T) {
	confirm := &fakeConfirm{granted: true}
	invoked := false
	s := &LocalSubstrate{
		Notify:  notify.NewLoggingSink(nil),
		Confirm: confirm,
		Cost:    cost.NoopSink{},
	}
	s.Invoke = func(ctx context.Context, room, prompt string, categories []category.Category) error {
		invoked = true
		return nil
	}

	err := s.Inject(context.Background(), models.TierGeneral, "room-1", "run the thing", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, confirm.calls)
	assert.True(t, invoked)
}

func TestLocalSubstrate_GeneralTierDeclinedSkipsInvoke(t *testing.T) {
	confirm := &fakeConfirm{granted: false}
	invoked := false
	s := &LocalSubstrate{
		Notify:  notify.NewLoggingSink(nil),
		Confirm: confirm,
		Cost:    cost.NoopSink{},
	}
	s.Invoke = func(ctx context.Context, room, prompt string, categories []category.Category) error {
		invoked = true
		return nil
	}

	err := s.Inject(context.Background(), models.TierGeneral, "room-1", "run the thing", nil)
	require.NoError(t, err)
	assert.False(t, invoked)
}

func TestLocalSubstrate_BlockedTierRefused(t *testing.T) {
	s := NewLocalSubstrate(nil)
	err := s.Inject(context.Background(), models.TierBlocked, "room-1", "run the thing", nil)
	require.Error(t, err)
}

func TestLocalSubstrate_TrustedTierSkipsConfirmationAndReportsCost(t *testing.T) {
	sink := &fakeCostSink{}
	invoked := false
	s := &LocalSubstrate{
		Notify:  notify.NewLoggingSink(nil),
		Confirm: &fakeConfirm{granted: false},
		Cost:    sink,
	}
	s.Invoke = func(ctx context.Context, room, prompt string, categories []category.Category) error {
		invoked = true
		return nil
	}

	err := s.Inject(context.Background(), models.TierTrusted, "room-1", "run the thing", nil)
	require.NoError(t, err)
	assert.True(t, invoked)
	require.Len(t, sink.records, 1)
	assert.Equal(t, "room-1", sink.records[0].Task)
}

func TestLocalSubstrate_ConfirmationErrorPropagates(t *testing.T) {
	s := &LocalSubstrate{
		Notify:  notify.NewLoggingSink(nil),
		Confirm: erroringConfirm{},
		Cost:    cost.NoopSink{},
	}
	err := s.Inject(context.Background(), models.TierGeneral, "room-1", "run the thing", nil)
	require.Error(t, err)
}
