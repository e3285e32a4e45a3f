// Package ratings ranks rated teams and players, projects scores from
// offense/defense ratings and annotates game logs with both.
package ratings

import (
	"cmp"
	"slices"

	"github.com/sportnumerics/sportnumerics/internal/models"
)

// KeyFunc returns an entity's rating key, or false when it has none.
type KeyFunc[T any] func(T) (float64, bool)

// Ranked pairs an item with its rank; the zero Rank means unranked.
type Ranked[T any] struct {
	Item T
	Rank models.Rank
}

// RankList orders items by key, descending. Items without a key sort
// last. The sort is stable, so equal keys keep their input order and
// receive distinct consecutive ranks. Only keyed items are ranked.
func RankList[T any](items []T, key KeyFunc[T]) []Ranked[T] {
	type keyed struct {
		item  T
		value float64
		ok    bool
	}

	sorted := make([]keyed, len(items))
	for i, item := range items {
		v, ok := key(item)
		sorted[i] = keyed{item: item, value: v, ok: ok}
	}

	slices.SortStableFunc(sorted, func(a, b keyed) int {
		switch {
		case a.ok && b.ok:
			return cmp.Compare(b.value, a.value)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	out := make([]Ranked[T], len(sorted))
	for i, k := range sorted {
		out[i] = Ranked[T]{Item: k.item}
		if k.ok {
			out[i].Rank = models.RankOf(i + 1)
		}
	}
	return out
}

// Rank is RankList keyed by id. Duplicate ids overwrite earlier entries.
func Rank[T any](items []T, id func(T) string, key KeyFunc[T]) map[string]Ranked[T] {
	list := RankList(items, key)
	out := make(map[string]Ranked[T], len(list))
	for _, r := range list {
		out[id(r.Item)] = r
	}
	return out
}

// RankTeams ranks teams by overall rating.
func RankTeams(teams []models.RankedTeam) []models.RankedTeam {
	list := RankList(teams, func(t models.RankedTeam) (float64, bool) {
		if t.Rating == nil || t.Rating.Overall == nil {
			return 0, false
		}
		return *t.Rating.Overall, true
	})
	out := make([]models.RankedTeam, len(list))
	for i, r := range list {
		out[i] = r.Item
		out[i].Rank = r.Rank
	}
	return out
}

// RankPlayers ranks players by points rating.
func RankPlayers(players []models.PlayerRating) []models.RankedPlayer {
	list := RankList(players, func(p models.PlayerRating) (float64, bool) {
		return p.Points, true
	})
	out := make([]models.RankedPlayer, len(list))
	for i, r := range list {
		out[i] = models.RankedPlayer{PlayerRating: r.Item, Rank: r.Rank}
	}
	return out
}

// TeamMap keys teams by id.
func TeamMap(teams []models.RankedTeam) map[string]models.RankedTeam {
	out := make(map[string]models.RankedTeam, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out
}

// PlayerMap keys players by id.
func PlayerMap(players []models.RankedPlayer) map[string]models.RankedPlayer {
	out := make(map[string]models.RankedPlayer, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}

// SortByRank orders ranked records by rank; unranked records go last in
// their current order.
func SortByRank[T any](items []T, rank func(T) models.Rank) {
	slices.SortStableFunc(items, func(a, b T) int {
		ra, rb := rank(a), rank(b)
		switch {
		case ra.Valid && rb.Valid:
			return cmp.Compare(ra.Value, rb.Value)
		case ra.Valid:
			return -1
		case rb.Valid:
			return 1
		default:
			return 0
		}
	})
}
