package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yana/internal/workflow"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func testResult(name string, screens int) *workflow.Result {
	res := &workflow.Result{
		Service:     workflow.Service{Slug: "svc", Name: name},
		ScreenFlows: []workflow.ScreenFlow{{FlowSlug: "f", Name: "Флоу"}},
	}
	for i := 0; i < screens; i++ {
		res.Screens = append(res.Screens, workflow.Screen{
			ScreenID: string(rune('a' + i)),
			Title:    "Екран",
		})
	}
	return res
}

func TestSaveAndGet(t *testing.T) {
	h := openTestHistory(t)

	id, err := h.Save("оформлення субсидії", testResult("Субсидія", 3))
	require.NoError(t, err)
	require.NotZero(t, id)

	entry, err := h.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "оформлення субсидії", entry.Query)
	assert.Equal(t, "Субсидія", entry.ServiceName)
	assert.Equal(t, 1, entry.FlowCount)
	assert.Equal(t, 3, entry.ScreenCount)
	assert.NotEmpty(t, entry.Raw)
}

func TestRecentNewestFirst(t *testing.T) {
	h := openTestHistory(t)

	for i, q := range []string{"перший", "другий", "третій"} {
		_, err := h.Save(q, testResult("svc", i+1))
		require.NoError(t, err)
	}

	entries, err := h.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "третій", entries[0].Query)
	assert.Equal(t, "другий", entries[1].Query)
	// The listing skips the raw payload.
	assert.Nil(t, entries[0].Raw)
}

func TestLatest(t *testing.T) {
	h := openTestHistory(t)

	latest, err := h.Latest()
	require.NoError(t, err)
	assert.Nil(t, latest, "empty history has no latest entry")

	_, err = h.Save("старий", testResult("svc", 1))
	require.NoError(t, err)
	_, err = h.Save("новий", testResult("svc", 2))
	require.NoError(t, err)

	latest, err = h.Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "новий", latest.Query)
}

func TestGetMissing(t *testing.T) {
	h := openTestHistory(t)
	_, err := h.Get(999)
	assert.Error(t, err)
}
