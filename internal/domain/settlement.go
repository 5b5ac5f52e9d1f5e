package domain

import "sort"

// Settlement holds the wallet deltas owed per seat after a finished game.
type Settlement struct {
	BalanceChanges map[int]int64
}

// settlementMultipliers maps player count to per-rank bet multipliers,
// best finish first. Each vector sums to zero.
var settlementMultipliers = map[int][]int64{
	2: {1, -1},
	3: {3, -1, -2},
	4: {2, 1, -1, -2},
}

// CalculateSettlement derives wallet changes from the final standings:
// seats are ordered by score (ties broken by seat order) and paid the
// rank multiplier times the base bet. Unsupported player counts settle
// to zero changes.
func (g *Game) CalculateSettlement(baseBet int64) Settlement {
	changes := make(map[int]int64, len(g.Players))

	multipliers, ok := settlementMultipliers[len(g.Players)]
	if !ok {
		for seat := range g.Players {
			changes[seat] = 0
		}
		return Settlement{BalanceChanges: changes}
	}

	scores := g.Scores()
	order := make([]int, len(g.Players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	for pos, seat := range order {
		changes[seat] = multipliers[pos] * baseBet
	}
	return Settlement{BalanceChanges: changes}
}
