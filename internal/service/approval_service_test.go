package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/domain"
	"feedgen/internal/service"
	"feedgen/internal/sheets"
)

func generated(id string, status domain.GenerationStatus, approved bool, gap ...string) *domain.GenerationResult {
	attrs := domain.NewAttributeMap()
	for i := 0; i+1 < len(gap); i += 2 {
		attrs.Set(gap[i], gap[i+1])
	}
	return &domain.GenerationResult{
		Approved:             approved,
		Status:               status,
		ItemID:               id,
		OriginalTitle:        "Shoe " + id,
		GeneratedTitle:       "Acme Shoe " + id,
		GeneratedDescription: "A shoe.",
		GapAttributes:        attrs,
		Input:                domain.NewInputRecord([]string{"id", "title", "color"}, []string{id, "Shoe " + id, ""}),
		ProcessedAt:          time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestApprovalService_ApproveAndUnapprove(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, sheets.AppendResults(ctx, store, feedConfig().GeneratedSheet, []*domain.GenerationResult{
		generated("A-1", domain.GenerationStatusSuccess, false),
		generated("A-2", domain.GenerationStatusFailed, false),
		generated("A-3", domain.GenerationStatusNonCompliant, false),
	}))
	svc := service.NewApprovalService(store, feedConfig().GeneratedSheet, nil)

	n, err := svc.Approve(ctx, []string{"A-1", "A-2", " A-3 "})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Approved)
	assert.False(t, results[1].Approved)
	assert.True(t, results[2].Approved)
	assert.Equal(t, "Acme Shoe A-1", results[0].GeneratedTitle)

	n, err = svc.Unapprove(ctx, []string{"A-3"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err = svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, results[2].Approved)
}

func TestApprovalService_InvalidIDs(t *testing.T) {
	svc := service.NewApprovalService(newStore(t), feedConfig().GeneratedSheet, nil)

	_, err := svc.Approve(context.Background(), []string{" ", ""})
	assert.True(t, errors.Is(err, domain.ErrInvalidItemIDs))
}

func TestApprovalService_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, sheets.AppendResults(ctx, store, feedConfig().GeneratedSheet, []*domain.GenerationResult{
		generated("A-1", domain.GenerationStatusSuccess, false),
	}))
	svc := service.NewApprovalService(store, feedConfig().GeneratedSheet, nil)

	_, err := svc.Approve(ctx, []string{"Z-9"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
