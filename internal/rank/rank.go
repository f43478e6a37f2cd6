// Package rank maps accumulated XP onto a fixed ascending-threshold tier
// table.
package rank

// Threshold is one tier of the rank table.
type Threshold struct {
	Key  string
	Name string
	XP   int
}

// Table is the fixed rank ladder, ascending by XP. The first entry must
// start at 0 so every XP value resolves to a rank.
var Table = []Threshold{
	{Key: "novice", Name: "Novice", XP: 0},
	{Key: "apprentice", Name: "Apprentice", XP: 100},
	{Key: "adept", Name: "Adept", XP: 250},
	{Key: "specialist", Name: "Specialist", XP: 500},
	{Key: "expert", Name: "Expert", XP: 1000},
	{Key: "master", Name: "Master", XP: 2000},
	{Key: "grandmaster", Name: "Grandmaster", XP: 4000},
}

// Rank describes where a given XP total sits on the ladder.
type Rank struct {
	Key              string
	Name             string
	NextName         string
	ProgressPct      int
	CurrentThreshold int
	NextThreshold    int
}

// ComputeRankFromXP resolves an XP total against the ladder. Negative XP is
// treated as zero. At the top rank NextName is empty, NextThreshold equals
// the top threshold, and progress is pinned to 100.
func ComputeRankFromXP(xp int) Rank {
	if xp < 0 {
		xp = 0
	}

	idx := 0
	for i, t := range Table {
		if xp >= t.XP {
			idx = i
		}
	}

	cur := Table[idx]
	if idx == len(Table)-1 {
		return Rank{
			Key:              cur.Key,
			Name:             cur.Name,
			ProgressPct:      100,
			CurrentThreshold: cur.XP,
			NextThreshold:    cur.XP,
		}
	}

	next := Table[idx+1]
	span := next.XP - cur.XP
	pct := (xp - cur.XP) * 100 / span
	return Rank{
		Key:              cur.Key,
		Name:             cur.Name,
		NextName:         next.Name,
		ProgressPct:      pct,
		CurrentThreshold: cur.XP,
		NextThreshold:    next.XP,
	}
}

// XPToNext returns how much XP is missing until the next rank, 0 at the top.
func XPToNext(xp int) int {
	r := ComputeRankFromXP(xp)
	if r.NextName == "" {
		return 0
	}
	return r.NextThreshold - xp
}
