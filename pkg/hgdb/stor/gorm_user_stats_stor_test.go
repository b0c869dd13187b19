package stor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecomputeStatsForUser(t *testing.T) {
	tc := newTestCase(t)

	accepted := tc.createEntity("Angkor Wat", `{}`)
	rejected := tc.createEntity("Borobudur", `{}`)
	_ = tc.createEntity("Bagan", `{}`)

	_, err := tc.stors.EntityStor.AcceptEntity(accepted, tc.editor, "")
	require.NoError(t, err)
	_, err = tc.stors.EntityStor.RejectEntity(rejected, tc.editor, "insufficient sources")
	require.NoError(t, err)

	stats, err := tc.stors.UserStatsStor.RecomputeStatsForUser(tc.contributor.ID)
	require.NoErrorf(t, err, "RecomputeStatsForUser failed: %s", err)

	require.Equal(t, 3, stats.TotalSubmissions)
	require.Equal(t, 1, stats.AcceptedCount)
	require.Equal(t, 1, stats.RejectedCount)
	require.InDelta(t, 50.0, stats.ApprovalRate, 0.001)

	// A second recompute updates the existing row rather than creating one.
	again, err := tc.stors.UserStatsStor.RecomputeStatsForUser(tc.contributor.ID)
	require.NoError(t, err)
	require.Equal(t, stats.ID, again.ID)

	fetched, err := tc.stors.UserStatsStor.GetStatsForUser(tc.contributor.ID)
	require.NoError(t, err)
	require.Equal(t, 3, fetched.TotalSubmissions)
}
