package command

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ajiwo/throttle/cell"
	"github.com/ajiwo/throttle/store"
)

// Throttle implements CL.THROTTLE: args is the argument vector that
// followed the command name, i.e. [key, max_burst, count_per_period,
// period_seconds] or [key, max_burst, count_per_period, period_seconds,
// quantity]. It evaluates the request against s and returns the 5-element
// reply, or an *Error with the stable "Cell error: " prefix.
func Throttle(ctx context.Context, s store.Store, args []string) (Reply, error) {
	key, quota, quantity, err := parseArgs(args)
	if err != nil {
		return Reply{}, newError(KindUsageError, err)
	}

	limiter, err := cell.NewLimiter(quota, s)
	if err != nil {
		if errors.Is(err, cell.ErrInvalidRate) {
			return Reply{}, newError(KindInvalidRate, err)
		}
		return Reply{}, newError(KindHostIOError, err)
	}

	limited, result, err := limiter.RateLimit(ctx, key, quantity)
	if err != nil {
		return Reply{}, newError(classify(err), err)
	}

	reply := Reply{
		Limit:             result.Limit,
		Remaining:         result.Remaining,
		RetryAfterSeconds: roundSeconds(result.RetryAfter),
		ResetAfterSeconds: roundSeconds(result.ResetAfter),
	}
	if limited {
		reply.Throttled = 1
	}
	return reply, nil
}

func classify(err error) Kind {
	var corrupt *cell.CorruptValueError
	switch {
	case errors.As(err, &corrupt):
		return KindCorruptValue
	case errors.Is(err, cell.ErrContentionExceeded):
		return KindContentionExceeded
	default:
		return KindHostIOError
	}
}

func parseArgs(args []string) (key string, quota cell.RateQuota, quantity int64, err error) {
	if len(args) != 4 && len(args) != 5 {
		return "", cell.RateQuota{}, 0, errUsage("expected 4 or 5 arguments, got " + strconv.Itoa(len(args)))
	}

	key = args[0]

	maxBurst, err := parseNonNegativeInt(args[1])
	if err != nil {
		return "", cell.RateQuota{}, 0, errUsage("max_burst: " + err.Error())
	}

	countPerPeriod, err := parsePositiveInt(args[2])
	if err != nil {
		return "", cell.RateQuota{}, 0, errUsage("count_per_period: " + err.Error())
	}

	periodSeconds, err := parsePositiveInt(args[3])
	if err != nil {
		return "", cell.RateQuota{}, 0, errUsage("period_seconds: " + err.Error())
	}

	quantity = 1
	if len(args) == 5 {
		quantity, err = parseNonNegativeInt(args[4])
		if err != nil {
			return "", cell.RateQuota{}, 0, errUsage("quantity: " + err.Error())
		}
	}

	quota = cell.RateQuota{
		MaxBurst: maxBurst,
		MaxRate:  cell.PerPeriod(countPerPeriod, time.Duration(periodSeconds)*time.Second),
	}
	return key, quota, quantity, nil
}

func errUsage(msg string) error { return errors.New(msg) }

func parseNonNegativeInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

func parsePositiveInt(s string) (int64, error) {
	n, err := parseNonNegativeInt(s)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}
