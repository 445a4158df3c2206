package anilist

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindowToday(t *testing.T) {
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local) // a Wednesday
	start, end := DayWindow(now, int(now.Weekday()))

	midnight := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.Local)
	assert.Equal(t, midnight.Unix(), start)
	assert.Equal(t, midnight.Unix()+86399, end)
}

func TestDayWindowOtherDays(t *testing.T) {
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC) // Wednesday

	start, _ := DayWindow(now, 0)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC).Unix(), start)

	start, _ = DayWindow(now, 6)
	assert.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC).Unix(), start)
}

func TestFetchAiringScheduleWindow(t *testing.T) {
	now := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)
	start, end := DayWindow(now, 3)

	var requests atomic.Int32
	client := newTestClient(t, "", func(w http.ResponseWriter, req recordedRequest) {
		requests.Add(1)
		assert.Equal(t, float64(start-1), req.Variables["airingAt_greater"])
		assert.Equal(t, float64(end+1), req.Variables["airingAt_lesser"])

		page := int(req.Variables["page"].(float64))
		switch page {
		case 1:
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"data":{"Page":{"pageInfo":{"hasNextPage":true,"currentPage":1},"airingSchedules":[
				{"id":1,"airingAt":%d,"episode":1,"media":{"id":10}},
				{"id":2,"airingAt":%d,"episode":2,"media":{"id":11}}
			]}}}`, start+7200, start))
		default:
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"data":{"Page":{"pageInfo":{"hasNextPage":false,"currentPage":2},"airingSchedules":[
				{"id":3,"airingAt":%d,"episode":3,"media":{"id":12}},
				{"id":4,"airingAt":%d,"episode":4,"media":{"id":13}}
			]}}}`, end, end+1))
		}
	})
	client.now = func() time.Time { return now }

	events, err := client.FetchAiringSchedule(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())

	var ids []int
	for _, e := range events {
		ids = append(ids, e.ID)
		assert.GreaterOrEqual(t, e.AiringAt.Unix(), start)
		assert.LessOrEqual(t, e.AiringAt.Unix(), end)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
}

func TestFetchAiringScheduleRejectsBadDay(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, _ recordedRequest) {
		t.Error("no request expected")
	})
	_, err := client.FetchAiringSchedule(context.Background(), 7)
	assert.Error(t, err)
	_, err = client.FetchAiringSchedule(context.Background(), -1)
	assert.Error(t, err)
}

// For any sequence of pages with repeated ids, the studio catalog holds each
// id once, in first-seen order.
func TestStudioDedupProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("studio catalog has unique ids", prop.ForAll(
		func(pages [][]int) bool {
			client := newTestClient(t, "", func(w http.ResponseWriter, req recordedRequest) {
				page := int(req.Variables["page"].(float64))
				ids := pages[page-1]
				edges := make([]string, 0, len(ids))
				for _, id := range ids {
					edges = append(edges, fmt.Sprintf(`{"node":{"id":%d}}`, id))
				}
				writeJSON(w, http.StatusOK, fmt.Sprintf(
					`{"data":{"Studio":{"id":1,"media":{"pageInfo":{"hasNextPage":%t},"edges":[%s]}}}}`,
					page < len(pages), strings.Join(edges, ",")))
			})

			catalog, err := client.FetchStudioMedia(context.Background(), 1)
			if err != nil {
				return false
			}

			var want []int
			seen := map[int]bool{}
			for _, p := range pages {
				for _, id := range p {
					if !seen[id] {
						seen[id] = true
						want = append(want, id)
					}
				}
			}
			if len(catalog.Media) != len(want) {
				return false
			}
			for i, m := range catalog.Media {
				if m.ID != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(3, gen.SliceOfN(5, gen.IntRange(1, 8))),
	))

	properties.TestingRun(t)
}
