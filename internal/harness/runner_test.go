package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestRun_GuestSessionStaysOffline(t *testing.T) {
	s := &Scenario{
		Name:        "guest",
		Description: "signed-out mutations never reach the network",
		Steps: []Step{
			{Op: OpAdd, ProductID: "a", Name: "A", Price: "10", Qty: 2},
			{Op: OpFlush},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "20", result.Total.String())
	assert.Zero(t, result.Pushes)
	assert.Zero(t, result.RemoteItems)

	require.Len(t, result.Events, 1)
	assert.Equal(t, EventSnapshotSave, result.Events[0].Op)
	assert.Equal(t, int64(1), result.Events[0].Version)
}

func TestRun_VersionsGrowMonotonically(t *testing.T) {
	s := &Scenario{
		Name:        "versions",
		Description: "each mutation stamps a strictly larger version",
		Steps: []Step{
			{Op: OpAdd, ProductID: "a", Name: "A", Price: "10"},
			{Op: OpAdd, ProductID: "b", Name: "B", Price: "5"},
			{Op: OpSetQty, ProductID: "a", Qty: 4},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.Len(t, result.Events, 3)

	var prev int64
	for _, ev := range result.Events {
		require.Equal(t, EventSnapshotSave, ev.Op)
		assert.Greater(t, ev.Version, prev)
		prev = ev.Version
	}
}

func TestRun_ClearDeletesRemoteWhenAuthed(t *testing.T) {
	s := &Scenario{
		Name:        "clear-authed",
		Description: "clear removes both copies for a signed-in session",
		Token:       "tok-1",
		Remote: []ItemSpec{
			{ProductID: "r", Name: "R", Price: "3", Qty: 1},
		},
		Steps: []Step{
			{Op: OpClear},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.Zero(t, result.Count)
	assert.Zero(t, result.RemoteItems)

	ops := make([]string, 0, len(result.Events))
	for _, ev := range result.Events {
		ops = append(ops, ev.Op)
	}
	assert.Equal(t, []string{EventFetch, EventSnapshotSave, EventSnapshotDelete, EventRemoteDelete}, ops)
}

func TestRun_InvalidPrice(t *testing.T) {
	s := &Scenario{
		Name:        "bad-price",
		Description: "invalid price surfaces as a step error",
		Steps: []Step{
			{Op: OpAdd, ProductID: "a", Name: "A", Price: "ten"},
		},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0]")
}

func TestVerify(t *testing.T) {
	s := &Scenario{
		Name:        "verify",
		Description: "expectation checking",
		Steps: []Step{
			{Op: OpAdd, ProductID: "a", Name: "A", Price: "9.99", Qty: 2},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	require.NoError(t, result.Verify(nil))
	require.NoError(t, result.Verify(&Expectation{Count: intp(2), Total: "19.98", Pushes: intp(0)}))

	err = result.Verify(&Expectation{Count: intp(3)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")

	err = result.Verify(&Expectation{Total: "1.00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total")
}
