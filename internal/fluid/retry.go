package fluid

import (
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// RetryingProvider wraps a Provider that talks to an external
// thermodynamics library through a serialized adapter (spec.md §9: "may
// call an external thermodynamics library... through a serialized
// adapter"). A flash issued to a process-boundary adapter can fail
// transiently (adapter busy, IPC hiccup) without the underlying state
// being non-physical. Every error other than ErrNonPhysicalState is
// retried up to three more times with exponential backoff; the last
// error is then returned unchanged.
type RetryingProvider struct {
	Inner Provider
	Log   *logrus.Logger
}

var _ Provider = RetryingProvider{}

func (r RetryingProvider) retry(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // bounded by backoff.WithMaxRetries below instead
	attempts := 0
	wrapped := func() error {
		attempts++
		err := op()
		if err != nil && err != ErrNonPhysicalState && r.Log != nil {
			r.Log.WithField("attempt", attempts).Debug("fluid: retrying flash after transient error")
		}
		if err == ErrNonPhysicalState {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, backoff.WithMaxRetries(b, 3))
}

func (r RetryingProvider) FlashPT(c Composition, eos EOS, P, T float64) (State, error) {
	var st State
	var ferr error
	err := r.retry(func() error {
		st, ferr = r.Inner.FlashPT(c, eos, P, T)
		return ferr
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (r RetryingProvider) FlashPS(c Composition, eos EOS, P, s float64) (State, error) {
	var st State
	var ferr error
	err := r.retry(func() error {
		st, ferr = r.Inner.FlashPS(c, eos, P, s)
		return ferr
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (r RetryingProvider) FlashPH(c Composition, eos EOS, P, h float64) (State, error) {
	var st State
	var ferr error
	err := r.retry(func() error {
		st, ferr = r.Inner.FlashPH(c, eos, P, h)
		return ferr
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

func (r RetryingProvider) StandardConditionsDensity(c Composition, eos EOS) (float64, error) {
	var rho float64
	var ferr error
	err := r.retry(func() error {
		rho, ferr = r.Inner.StandardConditionsDensity(c, eos)
		return ferr
	})
	return rho, err
}

func (r RetryingProvider) Mix(streams []Stream) (Stream, error) {
	var s Stream
	var ferr error
	err := r.retry(func() error {
		s, ferr = r.Inner.Mix(streams)
		return ferr
	})
	return s, err
}
