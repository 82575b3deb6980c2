// file: internal/registry/registry_test.go

package registry

import (
	"CDCGateway/internal/core/domain"
	"CDCGateway/internal/core/port"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countCatalog() (withID, withoutID int) {
	for _, e := range catalog {
		if e.ID == "" {
			withoutID++
		} else {
			withID++
		}
	}
	return withID, withoutID
}

func TestCatalog_NamesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(catalog))
	for _, e := range catalog {
		require.False(t, seen[e.Name], "duplicate catalog name %s", e.Name)
		seen[e.Name] = true
		assert.NotEmpty(t, e.Description, e.Name)
		assert.Contains(t, []domain.Host{domain.HostData, domain.HostChronicData}, e.Host, e.Name)
	}
}

func TestNew_BuiltinCatalog(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	withID, withoutID := countCatalog()
	assert.Equal(t, withID, r.Len())
	assert.Len(t, r.Pending(), withoutID)
	assert.Len(t, r.Names(), r.Len())
	assert.Len(t, r.Descriptions(), r.Len())
	assert.True(t, sort.StringsAreSorted(r.Names()))

	ref, ok := r.Lookup("places_county_2024")
	require.True(t, ok)
	assert.Equal(t, "swc5-untb", ref.ID)
	assert.Equal(t, domain.HostData, ref.Host)
	assert.False(t, ref.Raw)
}

func TestResolve(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	t.Run("known", func(t *testing.T) {
		ref, err := r.Resolve("brfss_diabetes")
		require.NoError(t, err)
		assert.Equal(t, "7yww-23y7", ref.ID)
		assert.Equal(t, domain.HostChronicData, ref.Host)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Resolve("places_county_1999")
		require.ErrorIs(t, err, port.ErrInvalidDataset)
		assert.Contains(t, err.Error(), "places_county_1999")
	})

	t.Run("pending has no id", func(t *testing.T) {
		_, err := r.Resolve("yrbss_high_school")
		require.ErrorIs(t, err, port.ErrInvalidDataset)
		assert.Contains(t, err.Error(), "no configured dataset id")
	})
}

func TestResolveOrRaw(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	ref, err := r.ResolveOrRaw("brfss_asthma")
	require.NoError(t, err)
	assert.Equal(t, "kj5r-3dtm", ref.ID)
	assert.False(t, ref.Raw)

	raw, err := r.ResolveOrRaw("abcd-1234")
	require.NoError(t, err)
	assert.True(t, raw.Raw)
	assert.Equal(t, "abcd-1234", raw.ID)
	assert.Equal(t, domain.HostData, raw.Host)

	_, err = r.ResolveOrRaw("overdose_county")
	assert.ErrorIs(t, err, port.ErrInvalidDataset)
}

func TestApply_Overrides(t *testing.T) {
	r, err := New(map[string]Override{
		"yrbss_high_school":  {ID: "q6p7-56au"},
		"brfss_diabetes":     {Description: "custom"},
		"my_private_dataset": {ID: "zzzz-0000", Host: "chronicdata.cdc.gov", Description: "private"},
	})
	require.NoError(t, err)

	ref, err := r.Resolve("yrbss_high_school")
	require.NoError(t, err)
	assert.Equal(t, "q6p7-56au", ref.ID)
	assert.NotContains(t, r.Pending(), "yrbss_high_school")

	ref, err = r.Resolve("brfss_diabetes")
	require.NoError(t, err)
	assert.Equal(t, "7yww-23y7", ref.ID)
	assert.Equal(t, "custom", ref.Description)

	ref, err = r.Resolve("my_private_dataset")
	require.NoError(t, err)
	assert.Equal(t, domain.HostChronicData, ref.Host)

	withID, _ := countCatalog()
	assert.Equal(t, withID+2, r.Len())

	// 再次 Apply 会替换覆盖层
	require.NoError(t, r.Apply(nil))
	_, err = r.Resolve("yrbss_high_school")
	assert.ErrorIs(t, err, port.ErrInvalidDataset)
	_, ok := r.Lookup("my_private_dataset")
	assert.False(t, ok)
	assert.Equal(t, withID, r.Len())
}

func TestApply_RejectsBadHost(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	before := r.Len()

	err = r.Apply(map[string]Override{"brfss_diabetes": {Host: "example.com"}})
	require.ErrorIs(t, err, port.ErrInvalidParameter)

	// 失败的 Apply 不影响当前表
	assert.Equal(t, before, r.Len())
	ref, ok := r.Lookup("brfss_diabetes")
	require.True(t, ok)
	assert.Equal(t, domain.HostChronicData, ref.Host)
}

func TestParseHost(t *testing.T) {
	h, err := ParseHost(" Data.CDC.gov ")
	require.NoError(t, err)
	assert.Equal(t, domain.HostData, h)

	_, err = ParseHost("")
	assert.Error(t, err)
}
