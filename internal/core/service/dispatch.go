package service

import (
	"context"
	"errors"
)

// DualWritePolicy names the success rule for an operation that dispatches
// to two independent backends. The two policies in use here are easy to
// conflate, so every call site selects one explicitly by name.
type DualWritePolicy string

const (
	// RequirePrimary: the primary call must succeed or the whole operation
	// fails; the secondary runs only after primary success and its failure
	// is reported to onSecondaryErr and swallowed. Order writes and status
	// updates use this.
	RequirePrimary DualWritePolicy = "require_primary"

	// RequireAny: both calls run, and the operation succeeds if at least
	// one of them does. OTP/notification dispatch uses this.
	RequireAny DualWritePolicy = "require_any"
)

// dispatchDual runs the two calls under the given policy. onSecondaryErr
// may be nil and is only consulted under RequirePrimary.
func dispatchDual(
	ctx context.Context,
	policy DualWritePolicy,
	primary func(context.Context) error,
	secondary func(context.Context) error,
	onSecondaryErr func(error),
) error {

	if policy == RequireAny {
		errPrimary := primary(ctx)
		errSecondary := secondary(ctx)
		if errPrimary != nil && errSecondary != nil {
			return errors.Join(errPrimary, errSecondary)
		}
		return nil
	}

	if err := primary(ctx); err != nil {
		return err
	}
	if err := secondary(ctx); err != nil && onSecondaryErr != nil {
		onSecondaryErr(err)
	}
	return nil
}
