package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ymatsuda/clubmatch/internal/config"
	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/source"
)

// AttendanceJob stores each club's typical home crowd for the anchor
// season. The median is the default aggregate; a single derby or a
// season-opener in a borrowed national stadium would drag the average.
type AttendanceJob struct {
	store      FeatureStore
	attendance *source.Attendance
	client     *source.Client
	cfg        *config.Config
}

func NewAttendanceJob(s FeatureStore, attendance *source.Attendance, client *source.Client, cfg *config.Config) *AttendanceJob {
	return &AttendanceJob{store: s, attendance: attendance, client: client, cfg: cfg}
}

func (j *AttendanceJob) Name() string { return "attendance" }

func (j *AttendanceJob) Run(ctx context.Context) error {
	teams, err := LoadTeamIDs(j.cfg.Pipeline.SettingsDir)
	if err != nil {
		return err
	}

	year := j.cfg.Pipeline.AnchorSeason()
	var updates []clubUpdate
	for _, team := range teams {
		crowds, err := j.attendance.Fetch(ctx, team.TeamID, team.Division, year)
		if err != nil {
			return fmt.Errorf("fetch attendance for %s: %w", team.ClubName, err)
		}
		j.client.Pace(ctx)

		if len(crowds) == 0 {
			fmt.Fprintf(os.Stderr, "  %s: no matches for %s, skipped\n", j.Name(), team.ClubName)
			continue
		}

		value := median(crowds)
		if j.cfg.Pipeline.AttendanceUse == "average" {
			value = mean(crowds)
		}
		updates = append(updates, clubUpdate{
			key:   store.NormalizeKey(team.ClubName),
			name:  team.ClubName,
			feats: map[string]float64{"home_attendance": value},
		})
	}
	return applyUpdates(ctx, j.store, j.Name(), updates)
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return math.Round(float64(sum) / float64(len(values)))
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return math.Round(float64(sorted[mid-1]+sorted[mid]) / 2)
}
