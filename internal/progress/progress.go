// Package progress holds the pure user-progress transformations applied at
// seal time. The read/write orchestration lives with the caller so the
// updater itself stays unit-testable.
package progress

import (
	"time"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/rank"
	"github.com/gritday/gritday/internal/utils"
)

// SummaryReader is the subset of the storage port the streak scan needs.
type SummaryReader interface {
	GetSummary(date string) (models.DaySummary, error)
}

// Default returns the lazily created zero-XP progress record.
func Default() models.UserProgress {
	r := rank.ComputeRankFromXP(0)
	return models.UserProgress{
		RankKey:  r.Key,
		XPToNext: rank.XPToNext(0),
	}
}

// XPForDay returns the XP awarded for a sealed day's summary: the combined
// score in points, plus a bonus for completing every habit.
func XPForDay(sum models.DaySummary) int {
	xp := sum.ScorePct
	if sum.OperatorPct == 100 {
		xp += constants.PerfectDayBonus
	}
	return xp
}

// ApplySeal folds one sealed day's summary into the progress record: awards
// XP, re-derives the rank, and advances or breaks the streak. prevStreak is
// the streak as of the day before sum.Date; pass 0 when the previous day is
// unsealed or imperfect. Sealing the same date twice is the caller's
// responsibility to prevent.
func ApplySeal(p models.UserProgress, sum models.DaySummary, prevStreak int, sealedAt time.Time) models.UserProgress {
	p.XP += XPForDay(sum)

	if sum.OperatorPct == 100 {
		p.CurrentStreak = prevStreak + 1
	} else {
		p.CurrentStreak = 0
	}
	if p.CurrentStreak > p.BestStreak {
		p.BestStreak = p.CurrentStreak
	}

	r := rank.ComputeRankFromXP(p.XP)
	p.RankKey = r.Key
	p.XPToNext = rank.XPToNext(p.XP)
	p.LastSealedDate = sum.Date
	p.UpdatedAt = sealedAt.UTC().Format(time.RFC3339)
	return p
}

// Streak counts consecutive perfect days ending at the given date, scanning
// backward day by day while each day's summary is sealed with a 100%
// operator percentage. Absent summaries end the scan; storage treats
// malformed records as absent, so the scan never errors.
func Streak(store SummaryReader, date string) int {
	streak := 0
	day := date
	for {
		sum, err := store.GetSummary(day)
		if err != nil || !sum.IsSealed || sum.OperatorPct != 100 {
			return streak
		}
		streak++
		prev, err := utils.PrevDay(day)
		if err != nil {
			return streak
		}
		day = prev
	}
}
