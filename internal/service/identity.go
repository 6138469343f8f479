// Package service contains the application services: identity lifecycle and fitness records.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgcrypto "github.com/and161185/fittrack/internal/crypto"
	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/events"
	"github.com/and161185/fittrack/internal/limiter"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/observability"
	"github.com/and161185/fittrack/internal/repository"
	"github.com/and161185/fittrack/internal/session"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Resolution is the outcome of resolving a session to an identity.
// A non-nil Patch must be written back to the session by the caller.
type Resolution struct {
	IdentityID string
	IsGuest    bool
	User       *model.Identity // set for registered identities only
	Patch      *session.State
}

// PromotionResult describes a registration. On a partial failure the counts tell how far migration got.
type PromotionResult struct {
	Identity      model.Identity
	FromID        string
	WorkoutsMoved int
	GoalsMoved    int
}

// IdentityService resolves sessions, registers and authenticates identities.
type IdentityService struct {
	store repository.Store
	lim   limiter.Limiter
	pub   events.Publisher
	log   *zap.Logger
	newID func() (uuid.UUID, error)
}

// NewIdentityService constructs IdentityService. A nil publisher or logger is replaced by a no-op.
func NewIdentityService(store repository.Store, lim limiter.Limiter, pub events.Publisher, log *zap.Logger) *IdentityService {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IdentityService{store: store, lim: lim, pub: pub, log: log, newID: uuid.NewV4}
}

// EnsureIdentity returns the identity behind st, minting a guest when st names none
// or names a registered identity that no longer exists.
func (s *IdentityService) EnsureIdentity(ctx context.Context, st session.State) (Resolution, error) {
	if !st.Empty() {
		if st.IsGuest {
			return Resolution{IdentityID: st.IdentityID, IsGuest: true}, nil
		}
		u, err := s.store.GetUser(ctx, st.IdentityID)
		switch {
		case err == nil && !u.IsGuest():
			return Resolution{IdentityID: u.ID, User: &u}, nil
		case err == nil, errors.Is(err, errs.ErrNotFound):
			s.log.Debug("stale registered session", zap.String("identity", st.IdentityID))
		default:
			return Resolution{}, fmt.Errorf("%w: load identity: %w", errs.ErrPersistence, err)
		}
	}
	return s.mintGuest(ctx)
}

func (s *IdentityService) mintGuest(ctx context.Context) (Resolution, error) {
	raw, err := s.newID()
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: guest id: %w", errs.ErrPersistence, err)
	}
	id := raw.String()
	guest := model.Identity{
		ID:       model.GuestPrefix + id,
		Kind:     model.KindGuest,
		Username: model.GuestPrefix + id[:8],
	}
	if _, err := s.store.CreateUser(ctx, guest); err != nil {
		if !errors.Is(err, errs.ErrAlreadyExists) {
			return Resolution{}, fmt.Errorf("%w: create guest: %w", errs.ErrPersistence, err)
		}
		s.log.Debug("guest already exists", zap.String("identity", guest.ID))
	}
	observability.GuestCreated()

	patch := session.State{IdentityID: guest.ID, IsGuest: true}
	return Resolution{IdentityID: guest.ID, IsGuest: true, Patch: &patch}, nil
}

// Register creates a registered identity and, when currentID is a guest, re-creates the guest's
// workouts and goals under it. Guest records are left in place.
//
// With a transactional store the whole promotion is atomic. Otherwise a failure mid-migration
// leaves the already copied records and the result reports the partial counts.
func (s *IdentityService) Register(ctx context.Context, currentID, username, password string) (PromotionResult, error) {
	res := PromotionResult{FromID: currentID}
	if username == "" || password == "" {
		return res, fmt.Errorf("%w: empty username/password", errs.ErrInvalidArgument)
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		observability.Promotion(observability.OutcomeRejected, 0, 0)
		return res, errs.ErrUsernameTaken
	} else if !errors.Is(err, errs.ErrNotFound) {
		return res, fmt.Errorf("%w: lookup username: %w", errs.ErrPersistence, err)
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return res, err
	}
	uid, err := s.newID()
	if err != nil {
		return res, err
	}
	user := model.Identity{ID: uid.String(), Kind: model.KindRegistered, Username: username, PasswordHash: hash}

	promote := func(st repository.Store) error {
		res.WorkoutsMoved, res.GoalsMoved = 0, 0
		created, err := st.CreateUser(ctx, user)
		if errors.Is(err, errs.ErrAlreadyExists) {
			return errs.ErrUsernameTaken
		}
		if err != nil {
			return fmt.Errorf("%w: create identity: %w", errs.ErrPersistence, err)
		}
		res.Identity = created
		if !model.IsGuestID(currentID) {
			return nil
		}
		return migrateGuest(ctx, st, currentID, created.ID, &res)
	}

	tx, transactional := s.store.(repository.Transactor)
	if transactional {
		err = tx.WithinTx(ctx, promote)
	} else {
		err = promote(s.store)
	}

	if err != nil {
		if transactional {
			res.Identity, res.WorkoutsMoved, res.GoalsMoved = model.Identity{}, 0, 0
		}
		switch {
		case errors.Is(err, errs.ErrUsernameTaken):
			observability.Promotion(observability.OutcomeRejected, 0, 0)
			return res, err
		case !errors.Is(err, errs.ErrPersistence):
			err = fmt.Errorf("%w: %w", errs.ErrPersistence, err)
		}
		outcome := observability.OutcomeFailure
		if res.Identity.ID != "" {
			outcome = observability.OutcomePartial
		}
		observability.Promotion(outcome, res.WorkoutsMoved, res.GoalsMoved)
		s.log.Warn("registration failed",
			zap.String("from", currentID),
			zap.String("outcome", outcome),
			zap.Int("workouts", res.WorkoutsMoved),
			zap.Int("goals", res.GoalsMoved),
			zap.Error(err),
		)
		return res, err
	}

	observability.Promotion(observability.OutcomeSuccess, res.WorkoutsMoved, res.GoalsMoved)
	s.log.Info("identity registered",
		zap.String("from", currentID),
		zap.String("identity", res.Identity.ID),
		zap.Int("workouts", res.WorkoutsMoved),
		zap.Int("goals", res.GoalsMoved),
	)
	s.publish(ctx, events.TopicIdentity, res.Identity.ID, events.New(events.TypeIdentityPromoted, events.IdentityPromoted{
		FromID:        currentID,
		ToID:          res.Identity.ID,
		Username:      res.Identity.Username,
		WorkoutsMoved: res.WorkoutsMoved,
		GoalsMoved:    res.GoalsMoved,
	}))
	return res, nil
}

// migrateGuest copies workouts oldest first so the new ids keep the original order, then goals with their progress.
func migrateGuest(ctx context.Context, st repository.Store, from, to string, res *PromotionResult) error {
	workouts, err := st.GetWorkouts(ctx, from)
	if err != nil {
		return fmt.Errorf("%w: list guest workouts: %w", errs.ErrPersistence, err)
	}
	for i := len(workouts) - 1; i >= 0; i-- {
		if _, err := st.CreateWorkout(ctx, to, model.FromWorkout(workouts[i])); err != nil {
			return fmt.Errorf("%w: migrate workout %s: %w", errs.ErrPersistence, workouts[i].ID, err)
		}
		res.WorkoutsMoved++
	}

	goals, err := st.GetGoals(ctx, from)
	if err != nil {
		return fmt.Errorf("%w: list guest goals: %w", errs.ErrPersistence, err)
	}
	for _, g := range goals {
		created, err := st.CreateGoal(ctx, to, model.NewGoal{Type: g.Type, Target: g.Target})
		if err != nil {
			return fmt.Errorf("%w: migrate goal %s: %w", errs.ErrPersistence, g.ID, err)
		}
		if g.Current != created.Current {
			if _, err := st.UpdateGoal(ctx, created.ID, g.Current); err != nil {
				return fmt.Errorf("%w: restore goal %s progress: %w", errs.ErrPersistence, g.ID, err)
			}
		}
		res.GoalsMoved++
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnHash verifies against a throwaway hash so unknown usernames cost as much as wrong passwords.
func burnHash(password string) {
	dummyOnce.Do(func() { dummyHash, _ = pkgcrypto.HashPassword("fittrack-dummy") })
	_ = pkgcrypto.VerifyPassword(password, dummyHash)
}

// Login authenticates a registered identity with rate limiting by (username, ip).
// Unknown username and wrong password both yield errs.ErrInvalidCredentials.
func (s *IdentityService) Login(ctx context.Context, username, password, ip string) (model.Identity, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: limiter: %w", errs.ErrPersistence, err)
	}
	if !allowed {
		observability.Login(observability.OutcomeLimited)
		return model.Identity{}, errs.ErrRateLimited
	}

	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Identity{}, fmt.Errorf("%w: lookup username: %w", errs.ErrPersistence, err)
	}
	ok := false
	if err == nil {
		ok = pkgcrypto.VerifyPassword(password, u.PasswordHash)
	} else {
		burnHash(password)
	}
	if !ok {
		blocked, _, ferr := s.lim.Failure(ctx, username, ipHash)
		if ferr != nil {
			s.log.Warn("limiter record failure", zap.Error(ferr))
		} else if blocked {
			observability.Login(observability.OutcomeLimited)
			return model.Identity{}, errs.ErrRateLimited
		}
		observability.Login(observability.OutcomeFailure)
		return model.Identity{}, errs.ErrInvalidCredentials
	}

	// best-effort reset
	if err := s.lim.Success(ctx, username, ipHash); err != nil {
		s.log.Warn("limiter reset", zap.Error(err))
	}
	observability.Login(observability.OutcomeSuccess)
	return u, nil
}

func (s *IdentityService) publish(ctx context.Context, topic, key string, e events.Envelope) {
	if err := s.pub.Publish(ctx, topic, key, e); err != nil {
		s.log.Warn("publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
