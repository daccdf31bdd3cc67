package route

import (
	"log/slog"
	"net/http"
	"time"

	"huddle/src-server/utils"

	"github.com/go-playground/validator/v10"
)

// Calendar wires the read-only range query over saved events, with
// recurring events expanded into their occurrences.
func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	type GetEventsReqBody struct {
		StartDateUnixUTC int64 `json:"startDateUnixUTC" validate:"required"`
		EndDateUnixUTC   int64 `json:"endDateUnixUTC" validate:"required,gtefield=StartDateUnixUTC"`
	}

	type OneLocationRespBody struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	type OneEventRespBody struct {
		ID              string                `json:"id"`
		Title           string                `json:"title"`
		Description     string                `json:"description"`
		Locations       []OneLocationRespBody `json:"locations"`
		Tags            []string              `json:"tags"`
		StartTime       string                `json:"startTime"`
		EndTime         string                `json:"endTime"`
		Capacity        int                   `json:"capacity"`
		AccessLevel     string                `json:"accessLevel"`
		OccurrencesUnix []int64               `json:"occurrencesUnixUTC"`
	}

	// get all events with an occurrence in a date range
	muxer.HandleFunc("POST /calendar/get-events", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody GetEventsReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}
		from := time.Unix(reqBody.StartDateUnixUTC, 0).UTC()
		to := time.Unix(reqBody.EndDateUnixUTC, 0).UTC()

		startTimer := time.Now()
		eventModels, err := as.EventStore.ListBetween(r.Context(), from, to)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Can't get events.",
			})
			slog.Error("can't get events", "error", err)
			return
		}
		as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())

		respBody := make([]OneEventRespBody, 0, len(eventModels))
		for _, eventModel := range eventModels {
			occurrences, err := eventModel.Occurrences(from, to)
			if err != nil {
				slog.Warn("can't expand event occurrences", "event", eventModel.ID, "error", err)
				continue
			}
			one := OneEventRespBody{
				ID:          eventModel.ID,
				Title:       eventModel.Title,
				Description: eventModel.Description,
				StartTime:   eventModel.StartTime,
				EndTime:     eventModel.EndTime,
				Capacity:    eventModel.Capacity,
				AccessLevel: eventModel.AccessLevel,
			}
			for _, location := range eventModel.Locations {
				one.Locations = append(one.Locations, OneLocationRespBody{
					Name:      location.Name,
					Latitude:  location.Latitude,
					Longitude: location.Longitude,
				})
			}
			for _, tag := range eventModel.Tags {
				one.Tags = append(one.Tags, tag.Name)
			}
			for _, occurrence := range occurrences {
				one.OccurrencesUnix = append(one.OccurrencesUnix, occurrence.Unix())
			}
			respBody = append(respBody, one)
		}

		writeJSON(w, http.StatusOK, respBody)
	}))
}
