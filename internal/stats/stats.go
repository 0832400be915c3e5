// Package stats derives read-only summaries from the registration history.
// Everything here is pure: no I/O and no clock reads.
package stats

import (
	"slices"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
)

// Days is the length of the daily series.
const Days = 7

// Count is one ranking row.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayCount is one point of the daily series, keyed by display date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the aggregate view of a registration collection.
type Summary struct {
	Total             int        `json:"total"`
	DistinctUsers     int        `json:"distinct_users"`
	DistinctProducts  int        `json:"distinct_products"`
	DistinctLocations int        `json:"distinct_locations"`
	Users             []Count    `json:"users"`
	Products          []Count    `json:"products"`
	Locations         []Count    `json:"locations"`
	Purposes          []Count    `json:"purposes"`
	Daily             []DayCount `json:"daily"`
	TopUser           *Count     `json:"top_user"`
	TopProduct        *Count     `json:"top_product"`
}

// Compute summarises entries. The daily series covers the Days calendar
// days ending with today, oldest first; an entry belongs to a day when its
// DisplayDate equals that day formatted with f.
func Compute(entries []domain.Registration, today time.Time, f domain.DisplayFormat) Summary {
	s := Summary{
		Total:     len(entries),
		Users:     Rank(entries, func(r domain.Registration) string { return r.User }),
		Products:  Rank(entries, func(r domain.Registration) string { return r.Product }),
		Locations: Rank(entries, func(r domain.Registration) string { return r.Location }),
		Purposes:  Rank(entries, func(r domain.Registration) string { return r.Purpose }),
		Daily:     Daily(entries, today, f),
	}
	s.DistinctUsers = len(s.Users)
	s.DistinctProducts = len(s.Products)
	s.DistinctLocations = len(s.Locations)
	s.TopUser = top(s.Users)
	s.TopProduct = top(s.Products)
	return s
}

// Rank groups entries by key in encounter order and sorts the groups by
// descending count. Ties keep encounter order. The result is never nil.
func Rank(entries []domain.Registration, key func(domain.Registration) string) []Count {
	index := make(map[string]int)
	out := []Count{}
	for _, e := range entries {
		k := key(e)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, Count{Name: k, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b Count) int { return b.Count - a.Count })
	return out
}

// Daily counts entries per display date for the Days days ending today.
func Daily(entries []domain.Registration, today time.Time, f domain.DisplayFormat) []DayCount {
	perDate := make(map[string]int, len(entries))
	for _, e := range entries {
		perDate[e.DisplayDate]++
	}
	local := f.In(today)
	out := make([]DayCount, 0, Days)
	for i := Days - 1; i >= 0; i-- {
		date := f.Date(local.AddDate(0, 0, -i))
		out = append(out, DayCount{Date: date, Count: perDate[date]})
	}
	return out
}

func top(ranking []Count) *Count {
	if len(ranking) == 0 {
		return nil
	}
	c := ranking[0]
	return &c
}
