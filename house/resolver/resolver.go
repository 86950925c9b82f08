// Package resolver is the house-side service that settles pending bets: it
// signs each bet's canonical bytes with the house key and submits the
// resolve transaction.
package resolver

import (
	"context"
	"time"

	"github.com/LumeraProtocol/fairdice/pkg/dice"
	"github.com/LumeraProtocol/fairdice/pkg/dicekit"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/keyring"
	"github.com/LumeraProtocol/fairdice/pkg/ledger"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/btcsuite/btcutil/base58"
	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"
)

const (
	resolvedCacheCounters = 1 << 14
	resolvedCacheMaxCost  = 1 << 12
	resolvedCacheTTL      = 10 * time.Minute
)

// ErrForeignBet is returned for a bet placed against another house's vault.
var ErrForeignBet = errors.New("bet was not placed against this house")

// Config tunes the resolver loop.
type Config struct {
	PollInterval    time.Duration
	MaxPerSecond    int
	RetryMaxElapsed time.Duration
}

// Summary counts what one pass did.
type Summary struct {
	Pending  int
	Resolved int
	Wins     int
	Skipped  int
	Failed   int
	Paid     uint64
}

type Resolver struct {
	chain Chain
	key   *keyring.Key
	vault dicekit.Address
	cfg   Config

	sf       singleflight.Group
	resolved *ristretto.Cache[string, dicekit.Outcome]
	limiter  ratelimit.Limiter

	newBackOff func() backoff.BackOff
}

func New(chain Chain, key *keyring.Key, cfg Config) (*Resolver, error) {
	if chain == nil {
		return nil, errors.New("chain is nil")
	}
	if key == nil {
		return nil, errors.New("house key is nil")
	}
	if cfg.PollInterval <= 0 || cfg.MaxPerSecond <= 0 || cfg.RetryMaxElapsed <= 0 {
		return nil, errors.Errorf("invalid resolver config %+v", cfg)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, dicekit.Outcome]{
		NumCounters:        resolvedCacheCounters,
		MaxCost:            resolvedCacheMaxCost,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Errorf("create resolved cache: %w", err)
	}

	vault, _ := ledger.VaultAddress(chain.ProgramID(), key.Address)
	r := &Resolver{
		chain:    chain,
		key:      key,
		vault:    vault,
		cfg:      cfg,
		resolved: cache,
		limiter:  ratelimit.New(cfg.MaxPerSecond),
	}
	r.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = r.cfg.RetryMaxElapsed
		return b
	}
	return r, nil
}

// Close releases the resolved-bet cache.
func (r *Resolver) Close() {
	r.resolved.Close()
}

// Run resolves pending bets every PollInterval until ctx is done.
func (r *Resolver) Run(ctx context.Context) error {
	logtrace.Info(ctx, "resolver started", logtrace.Fields{
		logtrace.FieldModule: "resolver",
		logtrace.FieldHouse:  r.key.Address.String(),
		logtrace.FieldVault:  r.vault.String(),
		"poll_interval":      r.cfg.PollInterval.String(),
	})

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logtrace.Error(ctx, "resolver pass failed", logtrace.Fields{
				logtrace.FieldModule: "resolver",
				logtrace.FieldError:  err.Error(),
			})
		}
		select {
		case <-ctx.Done():
			logtrace.Info(ctx, "resolver stopped", logtrace.Fields{logtrace.FieldModule: "resolver"})
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce resolves every pending bet placed against this house's vault.
func (r *Resolver) RunOnce(ctx context.Context) (Summary, error) {
	ctx = logtrace.CtxWithCorrelationID(ctx, uuid.NewString())

	records, err := r.chain.PendingBets(ctx)
	if err != nil {
		return Summary{}, errors.Errorf("list pending bets: %w", err)
	}

	var sum Summary
	for _, rec := range records {
		if !r.owns(rec) {
			continue
		}
		sum.Pending++
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}

		out, fresh, err := r.Resolve(ctx, rec)
		switch {
		case err != nil:
			sum.Failed++
			logtrace.Warn(ctx, "bet not resolved", logtrace.Fields{
				logtrace.FieldModule:     "resolver",
				logtrace.FieldBetAddress: rec.Address.String(),
				logtrace.FieldError:      err.Error(),
			})
		case !fresh:
			sum.Skipped++
		default:
			sum.Resolved++
			if out.Win {
				sum.Wins++
				sum.Paid += out.Payout
			}
		}
	}

	if sum.Pending > 0 {
		logtrace.Info(ctx, "resolver pass complete", logtrace.Fields{
			logtrace.FieldModule: "resolver",
			"pending":            sum.Pending,
			"resolved":           sum.Resolved,
			"wins":               sum.Wins,
			"skipped":            sum.Skipped,
			"failed":             sum.Failed,
			logtrace.FieldPayout: sum.Paid,
		})
	}
	return sum, nil
}

// Resolve settles one bet. fresh is false when the bet was already settled,
// by this resolver or someone else, and nothing was submitted. A bet placed
// against another house fails with ErrForeignBet.
func (r *Resolver) Resolve(ctx context.Context, rec ledger.BetRecord) (out dicekit.Outcome, fresh bool, err error) {
	if !r.owns(rec) {
		return dicekit.Outcome{}, false, errors.Errorf("bet %s, vault %s: %w", rec.Address, r.vault, ErrForeignBet)
	}
	key := rec.Address.String()
	if cached, ok := r.resolved.Get(key); ok {
		return cached, false, nil
	}

	type result struct {
		out   dicekit.Outcome
		fresh bool
	}
	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if cached, ok := r.resolved.Get(key); ok {
			return result{out: cached}, nil
		}
		out, err := r.submit(ctx, rec)
		if errors.Is(err, dice.ErrBetNotFound) {
			return result{}, nil
		}
		if err != nil {
			return nil, err
		}
		r.resolved.SetWithTTL(key, out, 1, resolvedCacheTTL)
		r.resolved.Wait()
		return result{out: out, fresh: true}, nil
	})
	if err != nil {
		return dicekit.Outcome{}, false, err
	}
	res := v.(result)
	return res.out, res.fresh, nil
}

func (r *Resolver) submit(ctx context.Context, rec ledger.BetRecord) (dicekit.Outcome, error) {
	programID := r.chain.ProgramID()
	accts, bumps := ledger.Accounts(programID, r.key.Address, rec.Bet.Player, rec.Bet.Seed)

	msg := dicekit.MarshalBet(rec.Bet)
	sig := r.key.Sign(msg)
	tx, err := ResolveTransaction(programID, accts, msg, sig)
	if err != nil {
		return dicekit.Outcome{}, err
	}

	r.limiter.Take()
	logtrace.Debug(ctx, "submitting resolve", logtrace.Fields{
		logtrace.FieldModule:     "resolver",
		logtrace.FieldBetAddress: rec.Address.String(),
		logtrace.FieldSignature:  base58.Encode(sig[:]),
	})

	var out dicekit.Outcome
	op := func() error {
		var err error
		out, err = r.chain.Resolve(ctx, tx, accts, bumps, sig)
		if err == nil || errors.Is(err, ledger.ErrBusy) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, d time.Duration) {
		logtrace.Warn(ctx, "retrying resolve", logtrace.Fields{
			logtrace.FieldModule:     "resolver",
			logtrace.FieldBetAddress: rec.Address.String(),
			logtrace.FieldError:      err.Error(),
			"duration":               d.String(),
		})
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(r.newBackOff(), ctx), notify); err != nil {
		return dicekit.Outcome{}, err
	}
	return out, nil
}

// owns reports whether rec was placed against this house.
func (r *Resolver) owns(rec ledger.BetRecord) bool {
	addr, _ := ledger.BetAddress(r.chain.ProgramID(), r.vault, rec.Bet.Seed)
	return addr.Equal(rec.Address)
}
