package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedJob string

func (n namedJob) Name() string              { return string(n) }
func (n namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrderAndRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(namedJob("balance-audit")))
	require.NoError(t, registry.Register(namedJob("other")))

	assert.Error(t, registry.Register(namedJob("balance-audit")))
	assert.Error(t, registry.Register(namedJob("")))
	assert.Error(t, registry.Register(nil))

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "balance-audit", jobs[0].Name())
	assert.Equal(t, "other", jobs[1].Name())

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0])
}
