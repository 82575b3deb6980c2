// file: internal/service/gateway/probe_test.go

package gateway

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"CDCGateway/internal/registry"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_RecordsPerDatasetOutcome(t *testing.T) {
	g, f, _ := newTestGateway(t, nil)
	f.rows = []domain.Row{{"x": 1}}
	f.errFor[domain.HostChronicData] = fmt.Errorf("%w: 7yww-23y7", port.ErrAccessDenied)
	f.errFor[domain.HostData] = fmt.Errorf("%w: 7yww-23y7", port.ErrAccessDenied)

	names := []string{"brfss_diabetes", "unknown_dataset"}
	results, err := g.Probe(context.Background(), names, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "brfss_diabetes", results[0].Name)
	assert.False(t, results[0].OK)
	assert.Contains(t, results[0].Error, "access denied")

	assert.Equal(t, "unknown_dataset", results[1].Name)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "invalid dataset")

	// brfss_diabetes: chronicdata 失败后回退到 data，共两次请求；未知名称不发请求
	assert.Len(t, f.calls(), 2)
	for _, p := range f.calls() {
		assert.Equal(t, "1", p.Params().Get("$limit"))
	}
}

func TestProbe_DefaultsToWholeRegistry(t *testing.T) {
	g, f, reg := newTestGateway(t, nil)
	f.rows = []domain.Row{{"x": 1}}

	results, err := g.Probe(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, results, reg.Len())
	for i, r := range results {
		assert.True(t, r.OK, r.Name)
		assert.Equal(t, 1, r.Rows)
		assert.Equal(t, reg.Names()[i], r.Name)
	}
	assert.Len(t, f.calls(), reg.Len())
}

func TestProbe_CancelledContext(t *testing.T) {
	g, _, _ := newTestGateway(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Probe(ctx, []string{"brfss_diabetes"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbe_CacheReusesVerdict(t *testing.T) {
	g, f, _ := newTestGateway(t, nil)
	f.rows = []domain.Row{{"x": 1}}
	g.EnableProbeCache(16, time.Minute)

	first, err := g.Probe(context.Background(), []string{"places_county_2024"}, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].OK)
	assert.False(t, first[0].Cached)

	second, err := g.Probe(context.Background(), []string{"places_county_2024"}, 1)
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.True(t, second[0].OK)
	assert.Len(t, f.calls(), 1)

	// 关闭后重新访问上游
	g.EnableProbeCache(0, 0)
	_, err = g.Probe(context.Background(), []string{"places_county_2024"}, 1)
	require.NoError(t, err)
	assert.Len(t, f.calls(), 2)
}

func TestProbe_CacheKeyFollowsRegistry(t *testing.T) {
	g, f, reg := newTestGateway(t, nil)
	f.rows = []domain.Row{{"x": 1}}
	g.EnableProbeCache(16, time.Minute)

	_, err := g.Probe(context.Background(), []string{"places_county_2024"}, 1)
	require.NoError(t, err)

	require.NoError(t, reg.Apply(map[string]registry.Override{"places_county_2024": {ID: "abcd-1234"}}))
	res, err := g.Probe(context.Background(), []string{"places_county_2024"}, 1)
	require.NoError(t, err)
	assert.False(t, res[0].Cached)
	assert.Equal(t, "abcd-1234", res[0].ID)
	assert.Len(t, f.calls(), 2)
}

func TestTool_DescribesAllMethods(t *testing.T) {
	g, _, _ := newTestGateway(t, nil)
	tool := g.Tool()
	assert.Equal(t, ToolName, tool.Name)

	props, ok := tool.InputSchema["properties"].(map[string]any)
	require.True(t, ok)
	method, ok := props["method"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, g.Methods(), method["enum"])

	for _, p := range []string{"dataset_name", "limit", "offset", "age_group", "drug_type", "select_fields"} {
		assert.Contains(t, props, p)
	}
	assert.Equal(t, []string{"method"}, tool.InputSchema["required"])
}
