package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/middle"
	"github.com/cuwacunu/tsiemene/server/result"
	"github.com/cuwacunu/tsiemene/server/serr"
)

// HTTPUploadBoard returns a HandlerFunc that decodes and registers a new
// board from a renderings manifest's source text.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in user of the client making the request.
func (api API) HTTPUploadBoard() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUploadBoard)
}

func (api API) epUploadBoard(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var uploadReq BoardUploadRequest
	if err := parseJSON(req, &uploadReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if uploadReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if uploadReq.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	board, err := api.Backend.UploadBoard(req.Context(), user.ID, uploadReq.Name, uploadReq.Version, uploadReq.Description, uploadReq.Source)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(boardToModel(board), "user '%s' uploaded board '%s' (%s)", user.Username, board.Name, board.ID)
}

// HTTPGetAllBoards returns a HandlerFunc that retrieves all registered
// boards.
func (api API) HTTPGetAllBoards() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllBoards)
}

func (api API) epGetAllBoards(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	boards, err := api.Backend.GetAllBoards(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]BoardModel, len(boards))
	for i := range boards {
		resp[i] = boardToModel(boards[i])
	}

	return result.OK(resp, "user '%s' got all boards", user.Username)
}

// HTTPGetBoard returns a HandlerFunc that retrieves a single board.
func (api API) HTTPGetBoard() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetBoard)
}

func (api API) epGetBoard(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	board, err := api.Backend.GetBoard(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(boardToModel(board), "user '%s' got board '%s'", user.Username, board.Name)
}

// HTTPDeleteBoard returns a HandlerFunc that deletes a board. Only the
// board's owner or an admin user may delete it.
func (api API) HTTPDeleteBoard() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteBoard)
}

func (api API) epDeleteBoard(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetBoard(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete board '%s': forbidden", user.Username, user.Role, existing.Name)
	}

	deleted, err := api.Backend.DeleteBoard(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete board: " + err.Error())
	}

	return result.NoContent("user '%s' deleted board '%s'", user.Username, deleted.Name)
}

func boardToModel(board dao.Board) BoardModel {
	m := BoardModel{
		URI:         PathPrefix + "/boards/" + board.ID.String(),
		ID:          board.ID.String(),
		UserID:      board.UserID.String(),
		Name:        board.Name,
		Version:     board.Version,
		Description: board.Description,
		Created:     board.Created.Format(time.RFC3339),
		Modified:    board.Modified.Format(time.RFC3339),
	}
	if !board.LastLocalAccess.IsZero() {
		m.LastLocalAccess = board.LastLocalAccess.Format(time.RFC3339)
	}
	return m
}
