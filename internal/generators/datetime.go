package generators

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
	"github.com/mmrzaf/tabgen/internal/timeutil"
)

const secondsPerDay = 24 * 60 * 60

// DateGenerator draws calendar days in [start, end] inclusive.
type DateGenerator struct{}

func (g *DateGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	start, end, err := parseBounds(ctx, params, "2000-01-01", "2020-12-31")
	if err != nil {
		return nil, err
	}
	format := params.GetOr("format", "%Y-%m-%d")

	start = truncateDay(start)
	end = truncateDay(end)
	days := (end.Unix() - start.Unix()) / secondsPerDay

	return repeat(n, func() interface{} {
		d := start.AddDate(0, 0, int(randInt64(rng, 0, days)))
		return timeutil.FormatStrftime(format, d)
	}), nil
}

// DatetimeGenerator draws instants in [start, end] inclusive at one-second
// resolution.
type DatetimeGenerator struct{}

func (g *DatetimeGenerator) Generate(rng *rand.Rand, ctx GeneratorContext, params rule.ParsedRule, n int) ([]interface{}, error) {
	start, end, err := parseBounds(ctx, params, "2020-01-01", "2024-12-31")
	if err != nil {
		return nil, err
	}
	format := params.GetOr("format", "%Y-%m-%d %H:%M:%S")

	base := start.Unix()
	seconds := end.Unix() - base

	return repeat(n, func() interface{} {
		ts := time.Unix(base+randInt64(rng, 0, seconds), 0).In(start.Location())
		return timeutil.FormatStrftime(format, ts)
	}), nil
}

func parseBounds(ctx GeneratorContext, params rule.ParsedRule, defStart, defEnd string) (time.Time, time.Time, error) {
	now := ctx.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	startRaw := params.GetOr("start", defStart)
	start, err := timeutil.ParseDate(startRaw, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start: %v", domain.ErrMalformedFormat, err)
	}
	endRaw := params.GetOr("end", defEnd)
	end, err := timeutil.ParseDate(endRaw, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end: %v", domain.ErrMalformedFormat, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s", domain.ErrMalformedRange, startRaw, endRaw)
	}
	return start, end, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
