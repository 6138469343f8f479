package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(guestsCreated)
	GuestCreated()
	require.Equal(t, before+1, testutil.ToFloat64(guestsCreated))

	okBefore := testutil.ToFloat64(promotions.WithLabelValues(OutcomeSuccess))
	wBefore := testutil.ToFloat64(migratedRecords.WithLabelValues("workout"))
	Promotion(OutcomeSuccess, 3, 2)
	require.Equal(t, okBefore+1, testutil.ToFloat64(promotions.WithLabelValues(OutcomeSuccess)))
	require.Equal(t, wBefore+3, testutil.ToFloat64(migratedRecords.WithLabelValues("workout")))

	lBefore := testutil.ToFloat64(logins.WithLabelValues(OutcomeFailure))
	Login(OutcomeFailure)
	require.Equal(t, lBefore+1, testutil.ToFloat64(logins.WithLabelValues(OutcomeFailure)))

	woBefore := testutil.ToFloat64(workoutsLogged)
	WorkoutLogged()
	require.Equal(t, woBefore+1, testutil.ToFloat64(workoutsLogged))
}
