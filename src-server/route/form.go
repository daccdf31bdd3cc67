package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"huddle/src-server/form"
	"huddle/src-server/model"
	"huddle/src-server/session"
	"huddle/src-server/submit"
	"huddle/src-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Form wires the form-session endpoints: open/read/close a session,
// per-field edits with focus tracking, drag-reorder of the location
// list, and submission.
func Form(muxer *http.ServeMux, as *utils.AppState) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	type OpenFormReqBody struct {
		EventID string `json:"eventId" validate:"omitempty,uuid4"`
	}

	type FieldEditReqBody struct {
		Field string          `json:"field" validate:"required"`
		Value json.RawMessage `json:"value"`
	}

	type FocusReqBody struct {
		Field string `json:"field" validate:"required"`
	}

	type DragBeginReqBody struct {
		Index int `json:"index" validate:"gte=0"`
	}

	type DragMoveReqBody struct {
		Delta float64 `json:"delta"`
	}

	type CurrentLocationReqBody struct {
		Name string `json:"name" validate:"required,min=3,max=30"`
	}

	// open a new form session; eventId switches to the edit flow
	muxer.HandleFunc("POST /form", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		var reqBody OpenFormReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}

		startTimer := time.Now()
		sess, err := as.Sessions.Open(reqBody.EventID)
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("Event %s not found.", reqBody.EventID),
			})
			return
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Can't open form session.",
			})
			slog.Error("can't open form session", "error", err)
			return
		}
		if reqBody.EventID != "" {
			as.MetricChans.DatabaseRead <- float64(time.Since(startTimer).Microseconds())
		}

		writeJSON(w, http.StatusCreated, sess.Read())
	}))

	// session read model
	muxer.HandleFunc("GET /form/{id}", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.Read())
	}))

	// end the editing session; a load still in flight is abandoned
	muxer.HandleFunc("DELETE /form/{id}", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		as.Sessions.Close(sess.ID)
		w.WriteHeader(http.StatusNoContent)
	}))

	// one field edit; validation timing is gated by the focus policy
	muxer.HandleFunc("POST /form/{id}/field", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody FieldEditReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}

		startTimer := time.Now()
		if err := applyFieldEdit(as, sess, form.Field(reqBody.Field), reqBody.Value); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		as.MetricChans.FormValidation <- float64(time.Since(startTimer).Microseconds())

		writeJSON(w, http.StatusOK, sess.Read())
	}))

	muxer.HandleFunc("POST /form/{id}/focus", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody FocusReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}
		sess.Update(func(fs *form.Store) {
			fs.SetFocus(form.Field(reqBody.Field))
		})
		writeJSON(w, http.StatusOK, sess.Read())
	}))

	muxer.HandleFunc("POST /form/{id}/blur", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody FocusReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}
		sess.Update(func(fs *form.Store) {
			fs.ClearFocus(form.Field(reqBody.Field))
		})
		writeJSON(w, http.StatusOK, sess.Read())
	}))

	// drag-reorder gesture, one step per release
	muxer.HandleFunc("POST /form/{id}/drag/begin", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody DragBeginReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}
		sess.BeginDrag(reqBody.Index)
		writeJSON(w, http.StatusOK, map[string]bool{"dragging": sess.Dragging()})
	}))

	muxer.HandleFunc("POST /form/{id}/drag/move", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody DragMoveReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}
		sess.UpdateDrag(reqBody.Delta)
		writeJSON(w, http.StatusOK, map[string]bool{"dragging": sess.Dragging()})
	}))

	muxer.HandleFunc("POST /form/{id}/drag/end", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		locations := sess.EndDrag()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"locations": locations,
			"dragging":  sess.Dragging(),
		})
	}))

	// append a location at the device's current position
	muxer.HandleFunc("POST /form/{id}/locations/current", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}
		var reqBody CurrentLocationReqBody
		if err := decodeBody(w, r, validate, &reqBody); err != nil {
			return
		}

		position, err := as.Geo.Current()
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": "Can't resolve current position.",
			})
			slog.Warn("can't resolve current position", "error", err)
			return
		}
		sess.Update(func(fs *form.Store) {
			locations := fs.Snapshot().Locations
			fs.SetLocations(append(locations, form.Location{
				Name:      reqBody.Name,
				Latitude:  position.Latitude,
				Longitude: position.Longitude,
			}))
		})
		writeJSON(w, http.StatusOK, sess.Read())
	}))

	muxer.HandleFunc("POST /form/{id}/submit", WithMetrics(as, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := getSession(w, r, as)
		if !ok {
			return
		}

		startTimer := time.Now()
		outcome, err := sess.Submit(r.Context())
		if err != nil {
			if errors.Is(err, submit.ErrSubmitInFlight) {
				writeJSON(w, http.StatusConflict, map[string]string{
					"error": err.Error(),
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Can't submit form.",
			})
			slog.Error("can't submit form", "session", sess.ID, "error", err)
			return
		}

		switch outcome.Status {
		case submit.StatusInvalid:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"status":  outcome.Status.String(),
				"message": outcome.Message,
				"errors":  outcome.FieldErrors,
			})
		case submit.StatusSaveFailed:
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"status":  outcome.Status.String(),
				"message": outcome.Message,
			})
		case submit.StatusSaved:
			as.MetricChans.DatabaseWrite <- float64(time.Since(startTimer).Microseconds())
			// the session is done once the save landed
			as.Sessions.Close(sess.ID)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status":  outcome.Status.String(),
				"message": outcome.Message,
				"event":   outcome.Event,
				"changes": outcome.Changes,
			})
		}
	}))
}

// applyFieldEdit decodes the raw value for one field and routes it to
// the matching store setter. Unknown fields and malformed values are
// the only rejections; a value that merely violates a field rule is
// stored and reported through the error map instead.
func applyFieldEdit(as *utils.AppState, sess *session.Session, field form.Field, raw json.RawMessage) error {
	switch field {
	case form.FieldTitle:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("title must be a string")
		}
		sess.Update(func(fs *form.Store) { fs.SetTitle(utils.CleanupTitle(value)) })
	case form.FieldDescription:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("description must be a string")
		}
		sess.Update(func(fs *form.Store) { fs.SetDescription(value) })
	case form.FieldType:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("type must be a string")
		}
		eventType := form.EventType(value)
		if eventType != form.EventOneTime && eventType != form.EventRecurring {
			return fmt.Errorf("type must be %s or %s", form.EventOneTime, form.EventRecurring)
		}
		sess.Update(func(fs *form.Store) { fs.SetType(eventType) })
	case form.FieldStartDate, form.FieldEndDate:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("%s must be a string", field)
		}
		date, err := parseDate(as, value)
		if err != nil {
			return err
		}
		sess.Update(func(fs *form.Store) {
			if field == form.FieldStartDate {
				fs.SetStartDate(date)
			} else {
				fs.SetEndDate(date)
			}
		})
	case form.FieldStartTime:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("startTime must be a string")
		}
		sess.Update(func(fs *form.Store) { fs.SetStartTime(value) })
	case form.FieldEndTime:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("endTime must be a string")
		}
		sess.Update(func(fs *form.Store) { fs.SetEndTime(value) })
	case form.FieldRepeatFrequency:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("repeatFrequency must be a string")
		}
		sess.Update(func(fs *form.Store) { fs.SetRepeatFrequency(form.RepeatFrequency(value)) })
	case form.FieldRepeatDays:
		var value []string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("repeatDays must be a list of weekday names")
		}
		days := make([]time.Weekday, 0, len(value))
		for _, name := range value {
			day, err := parseWeekday(name)
			if err != nil {
				return err
			}
			days = append(days, day)
		}
		sess.Update(func(fs *form.Store) { fs.SetRepeatDays(days) })
	case form.FieldTags:
		var value []string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("tags must be a list of strings")
		}
		tags := make([]string, 0, len(value))
		for _, tag := range value {
			if cleaned := utils.CleanupTag(tag); cleaned != "" {
				tags = append(tags, cleaned)
			}
		}
		sess.Update(func(fs *form.Store) { fs.SetTags(tags) })
	case form.FieldLocations:
		var value []form.Location
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("locations must be a list of {name, latitude, longitude}")
		}
		sess.Update(func(fs *form.Store) { fs.SetLocations(value) })
	case form.FieldCapacity:
		var value int
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("capacity must be a number")
		}
		sess.Update(func(fs *form.Store) { fs.SetCapacity(value) })
	case form.FieldAccess, "status":
		// "status" is the historical alias of the access field
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("access must be a string")
		}
		access, err := form.ParseAccessLevel(value)
		if err != nil {
			return fmt.Errorf("access must be one of open, verification_required, public, private")
		}
		sess.Update(func(fs *form.Store) { fs.SetAccess(access) })
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// parseDate accepts RFC 3339, plain dates, and natural language
// ("next friday").
func parseDate(as *utils.AppState, value string) (time.Time, error) {
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date.UTC(), nil
	}
	if date, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
		return date, nil
	}
	result, err := as.When.Parse(value, time.Now())
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("can't parse date %q", value)
	}
	return result.Time.UTC(), nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch name {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
}

func getSession(w http.ResponseWriter, r *http.Request, as *utils.AppState) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid session id."})
		return nil, false
	}
	sess, ok := as.Sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found or expired."})
		return nil, false
	}
	return sess, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, validate *validator.Validate, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return err
	}
	if err := validate.Struct(target); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("can't encode response body", "error", err)
	}
}
