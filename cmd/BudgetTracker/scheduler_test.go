package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingAuditor struct {
	runs atomic.Int32
	err  error
}

func (a *countingAuditor) Run(context.Context) (application.DriftReport, error) {
	a.runs.Add(1)
	return application.DriftReport{}, a.err
}

func TestStartDriftAuditScheduler(t *testing.T) {
	auditor := &countingAuditor{}
	scheduler, err := StartDriftAuditScheduler("@every 1s", auditor, zap.NewNop())
	require.NoError(t, err)
	defer scheduler.Stop()

	assert.Eventually(t, func() bool { return auditor.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartDriftAuditScheduler_InvalidSpec(t *testing.T) {
	_, err := StartDriftAuditScheduler("every now and then", &countingAuditor{err: errors.New("unused")}, zap.NewNop())
	assert.Error(t, err)
}
