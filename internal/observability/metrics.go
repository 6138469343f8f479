// Package observability holds the Prometheus metrics exported by the server.
package observability

import "github.com/prometheus/client_golang/prometheus"

const namespace = "fittrack"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomePartial  = "partial"
	OutcomeRejected = "rejected"
	OutcomeLimited  = "rate_limited"
)

var (
	guestsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "identity",
		Name:      "guests_created_total",
		Help:      "Number of guest identities minted for fresh sessions.",
	})

	promotions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "identity",
		Name:      "promotions_total",
		Help:      "Registrations, labeled by outcome.",
	}, []string{"outcome"})

	logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "identity",
		Name:      "logins_total",
		Help:      "Login attempts, labeled by outcome.",
	}, []string{"outcome"})

	workoutsLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fitness",
		Name:      "workouts_logged_total",
		Help:      "Number of workouts created.",
	})

	migratedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "identity",
		Name:      "migrated_records_total",
		Help:      "Guest records re-created under registered identities, labeled by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(guestsCreated, promotions, logins, workoutsLogged, migratedRecords)
}

// GuestCreated counts one minted guest.
func GuestCreated() { guestsCreated.Inc() }

// Promotion counts a registration attempt with its outcome and migrated record counts.
func Promotion(outcome string, workouts, goals int) {
	promotions.WithLabelValues(outcome).Inc()
	migratedRecords.WithLabelValues("workout").Add(float64(workouts))
	migratedRecords.WithLabelValues("goal").Add(float64(goals))
}

// Login counts a login attempt with its outcome.
func Login(outcome string) { logins.WithLabelValues(outcome).Inc() }

// WorkoutLogged counts one created workout.
func WorkoutLogged() { workoutsLogged.Inc() }
