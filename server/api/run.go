package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/middle"
	"github.com/cuwacunu/tsiemene/server/result"
	"github.com/cuwacunu/tsiemene/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateRun returns a HandlerFunc that starts a new run of a board for
// the logged-in user.
func (api API) HTTPCreateRun() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateRun)
}

func (api API) epCreateRun(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var createReq RunCreateRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	boardID, err := uuid.Parse(createReq.BoardID)
	if err != nil {
		return result.BadRequest("board_id: not a valid ID", "board_id: %s", err.Error())
	}

	run, err := api.Backend.CreateRun(req.Context(), user.ID, boardID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.BadRequest("board_id: no board with that ID exists", "board %s does not exist", boardID)
		}
		if errors.Is(err, dao.ErrDecodingFailure) {
			return result.InternalServerError(err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(runToModel(run), "user '%s' started run of board %s", user.Username, run.BoardID)
}

// HTTPGetAllRuns returns a HandlerFunc that retrieves every run owned by
// the logged-in user.
func (api API) HTTPGetAllRuns() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllRuns)
}

func (api API) epGetAllRuns(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	runs, err := api.Backend.GetAllRunsByUser(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]RunModel, len(runs))
	for i := range runs {
		resp[i] = runToModel(runs[i])
	}

	return result.OK(resp, "user '%s' got all runs", user.Username)
}

// HTTPGetRun returns a HandlerFunc that retrieves a single run, including
// its current figure state.
func (api API) HTTPGetRun() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetRun)
}

func (api API) epGetRun(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	run, err := api.Backend.GetRun(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if run.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get run %s: forbidden", user.Username, user.Role, id)
	}

	return result.OK(runToModel(run), "user '%s' got run %s", user.Username, id)
}

// HTTPDeleteRun returns a HandlerFunc that ends and deletes a run. Only the
// run's owner or an admin user may delete it.
func (api API) HTTPDeleteRun() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteRun)
}

func (api API) epDeleteRun(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetRun(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete run %s: forbidden", user.Username, user.Role, id)
	}

	if _, err := api.Backend.DeleteRun(req.Context(), id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete run: " + err.Error())
	}

	return result.NoContent("user '%s' ended run %s", user.Username, id)
}

// HTTPDispatchEvent returns a HandlerFunc that records a dispatch_event call
// (§4.11) against a run: the event name, its payload, and the resulting
// figure state computed client-side.
func (api API) HTTPDispatchEvent() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDispatchEvent)
}

func (api API) epDispatchEvent(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	run, err := api.Backend.GetRun(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if run.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) dispatch to run %s: forbidden", user.Username, user.Role, id)
	}

	var dispatchReq DispatchRequest
	if err := parseJSON(req, &dispatchReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if dispatchReq.Event == "" {
		return result.BadRequest("event: property is empty or missing from request", "empty event")
	}

	newState := dao.RunSnapshot{
		FigureText:    dispatchReq.State.FigureText,
		FigureLines:   dispatchReq.State.FigureLines,
		FigureSeries0: dispatchReq.State.FigureSeries0,
		ScrollOffset:  dispatchReq.State.ScrollOffset,
	}

	entry, err := api.Backend.DispatchEvent(req.Context(), id, dispatchReq.Event, dispatchReq.Payload, newState)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(dispatchEntryToModel(entry), "user '%s' dispatched '%s' to run %s", user.Username, dispatchReq.Event, id)
}

// HTTPGetDispatchLog returns a HandlerFunc that retrieves the dispatch
// history for a run.
func (api API) HTTPGetDispatchLog() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetDispatchLog)
}

func (api API) epGetDispatchLog(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	run, err := api.Backend.GetRun(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}
	if run.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get dispatch log of run %s: forbidden", user.Username, user.Role, id)
	}

	entries, err := api.Backend.GetDispatchLog(req.Context(), id)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]DispatchEntryModel, len(entries))
	for i := range entries {
		resp[i] = dispatchEntryToModel(entries[i])
	}

	return result.OK(resp, "user '%s' got dispatch log of run %s", user.Username, id)
}

func runToModel(run dao.Run) RunModel {
	m := RunModel{
		URI:     PathPrefix + "/runs/" + run.ID.String(),
		ID:      run.ID.String(),
		UserID:  run.UserID.String(),
		BoardID: run.BoardID.String(),
		Created: run.Created.Format(time.RFC3339),
	}
	if run.State != nil {
		m.State = &RunStateModel{
			FigureText:    run.State.FigureText,
			FigureLines:   run.State.FigureLines,
			FigureSeries0: run.State.FigureSeries0,
			ScrollOffset:  run.State.ScrollOffset,
		}
	}
	return m
}

func dispatchEntryToModel(entry dao.DispatchEntry) DispatchEntryModel {
	return DispatchEntryModel{
		URI:     PathPrefix + "/runs/" + entry.RunID.String() + "/dispatch/" + entry.ID.String(),
		ID:      entry.ID.String(),
		RunID:   entry.RunID.String(),
		Created: entry.Created.Format(time.RFC3339),
		Event:   entry.Event,
		Summary: entry.Summary,
	}
}
