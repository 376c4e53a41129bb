package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/concal/internal/domain/facet"
	"github.com/okian/concal/internal/domain/filter"
)

// Query parameter conventions:
//
//	<facet>=label          include (repeatable, OR across every facet)
//	exclude.<facet>=label  hide (repeatable)
//	cost.min, cost.max     inclusive numeric bounds (also duration)
//	startTimes.from/.to    inclusive HH:MM bounds (also endTimes, startDates, endDates)
const excludePrefix = "exclude."

// parseFilter builds a filter query from URL parameters. Parameters that
// name no facet are ignored.
func parseFilter(v url.Values) (filter.Query, error) {
	q := filter.Query{
		Include: filter.Selection{},
		Exclude: filter.Selection{},
		Ranges:  map[facet.Name]filter.Range{},
	}
	for key, values := range v {
		switch {
		case strings.HasPrefix(key, excludePrefix):
			n, ok := facet.Parse(strings.TrimPrefix(key, excludePrefix))
			if !ok {
				return q, fmt.Errorf("unknown facet in %q", key)
			}
			q.Exclude[n] = append(q.Exclude[n], nonEmpty(values)...)
		default:
			if n, ok := facet.Parse(key); ok {
				q.Include[n] = append(q.Include[n], nonEmpty(values)...)
			}
		}
	}

	for _, n := range []facet.Name{facet.Cost, facet.Duration} {
		r, ok, err := numericRange(v, n)
		if err != nil {
			return q, err
		}
		if ok {
			q.Ranges[n] = r
		}
	}
	for _, n := range []facet.Name{facet.StartTimes, facet.EndTimes, facet.StartDates, facet.EndDates} {
		from, to := v.Get(string(n)+".from"), v.Get(string(n)+".to")
		if from != "" || to != "" {
			q.Ranges[n] = filter.ClockRange{From: from, To: to}
		}
	}
	return q, nil
}

func numericRange(v url.Values, n facet.Name) (filter.NumericRange, bool, error) {
	r := filter.NumericRange{Min: math.Inf(-1), Max: math.Inf(1)}
	var set bool
	for _, b := range []struct {
		suffix string
		dst    *float64
	}{{".min", &r.Min}, {".max", &r.Max}} {
		raw := v.Get(string(n) + b.suffix)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) {
			return r, false, fmt.Errorf("invalid %s%s %q", n, b.suffix, raw)
		}
		*b.dst = f
		set = true
	}
	if r.Min > r.Max {
		return r, false, fmt.Errorf("empty %s range", n)
	}
	return r, set, nil
}

// parsePaging reads page and limit; limit is capped at maxLimit.
func parsePaging(v url.Values, maxLimit int) (page, limit int, err error) {
	page, limit = 1, min(DefaultPageSize, maxLimit)
	if s := v.Get("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", s)
		}
	}
	if s := v.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", s)
		}
		if limit > maxLimit {
			return 0, 0, fmt.Errorf("limit %d exceeds %d", limit, maxLimit)
		}
	}
	return page, limit, nil
}

// parseIDs reads a comma separated id list such as "3,7,12".
func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
