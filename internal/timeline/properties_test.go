package timeline_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rpggio/ganttline/internal/timeline"
	"github.com/stretchr/testify/require"
)

func randomSpans(rng *rand.Rand, zones []*time.Location) []timeline.Span {
	base := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	spans := make([]timeline.Span, 1+rng.IntN(6))
	for i := range spans {
		loc := zones[rng.IntN(len(zones))]
		start := base.AddDate(0, 0, rng.IntN(1100))
		end := start.AddDate(0, 0, rng.IntN(400)-30) // some spans are inverted
		spans[i] = timeline.Span{
			Start: time.Date(start.Year(), start.Month(), start.Day(), rng.IntN(24), rng.IntN(60), 0, 0, loc),
			End:   time.Date(end.Year(), end.Month(), end.Day(), rng.IntN(24), rng.IntN(60), 0, 0, loc),
		}
	}
	return spans
}

func TestEngine_Properties(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+14", 14*60*60),
		time.FixedZone("UTC-12", -12*60*60),
	}
	rng := rand.New(rand.NewPCG(20250115, 7))

	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		engine := timeline.NewEngine(timeline.WithWeekStart(weekStart))
		for _, g := range timeline.Granularities() {
			t.Run(fmt.Sprintf("%s/%s", weekStart, g), func(t *testing.T) {
				strategy, err := engine.Strategy(g)
				require.NoError(t, err)

				for i := 0; i < 200; i++ {
					spans := randomSpans(rng, zones)

					buckets, err := engine.Generate(spans, g)
					require.NoError(t, err)
					require.NotEmpty(t, buckets)

					again, err := engine.Generate(spans, g)
					require.NoError(t, err)
					require.Equal(t, buckets, again)

					for j := 1; j < len(buckets); j++ {
						require.Equal(t, strategy.Step(buckets[j-1].Date), buckets[j].Date)
					}
					if g == timeline.Day || g == timeline.Week {
						require.Equal(t, weekStart, buckets[0].Date.Weekday())
					}

					first := buckets[0].Date
					end := strategy.Step(buckets[len(buckets)-1].Date)
					for _, s := range spans {
						for _, d := range []time.Time{timeline.Civil(s.Start), timeline.Civil(s.End)} {
							require.False(t, d.Before(first), "%s before first bucket %s", d, first)
							require.True(t, d.Before(end), "%s not before timeline end %s", d, end)
						}

						pos, err := engine.Position(s, buckets, g)
						require.NoError(t, err)
						require.GreaterOrEqual(t, pos.StartIndex, 0)
						require.LessOrEqual(t, pos.StartIndex, pos.EndIndex)
						require.Less(t, pos.EndIndex, len(buckets))
						require.GreaterOrEqual(t, pos.Width(), 1)

						if !timeline.Civil(s.Start).After(timeline.Civil(s.End)) {
							require.NoError(t, engine.CheckSpan(s, buckets, g))
						}
					}
				}
			})
		}
	}
}
