package tunas

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuwacunu/tsiemene/internal/camahjucunu/decode"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/serr"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// UploadBoard decodes and validates a renderings manifest's source text,
// then registers it as a new Board owned by userID, storing its compiled
// form as a RenderingsBundle.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the manifest source fails
// to parse/validate, the error wraps serr.ErrBadArgument. If the error
// occured due to an unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) UploadBoard(ctx context.Context, userID uuid.UUID, name, version, description, source string) (dao.Board, error) {
	renderingsDecoder, err := decode.NewRenderingsDecoder()
	if err != nil {
		return dao.Board{}, serr.New("renderings grammar failed to load", err)
	}

	instr, err := renderingsDecoder.Decode(source)
	if err != nil {
		return dao.Board{}, serr.New("renderings manifest is invalid: "+err.Error(), serr.ErrBadArgument)
	}

	encoded := rezi.EncBinary(instr)

	bundle, err := svc.DB.Renderings().Create(ctx, dao.RenderingsBundle{Data: encoded})
	if err != nil {
		return dao.Board{}, serr.WrapDB("could not store compiled renderings", err)
	}

	board, err := svc.DB.Boards().Create(ctx, dao.Board{
		UserID:      userID,
		Name:        name,
		Version:     version,
		Description: description,
		Storage:     bundle.ID.String(),
	})
	if err != nil {
		return dao.Board{}, serr.WrapDB("could not create board", err)
	}

	return board, nil
}

// GetBoard returns the board with the given ID.
func (svc Service) GetBoard(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	board, err := svc.DB.Boards().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Board{}, serr.ErrNotFound
		}
		return dao.Board{}, serr.WrapDB("could not get board", err)
	}
	return board, nil
}

// GetAllBoards returns every board currently registered, regardless of
// owner.
func (svc Service) GetAllBoards(ctx context.Context) ([]dao.Board, error) {
	boards, err := svc.DB.Boards().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return boards, nil
}

// DeleteBoard removes a board and its compiled renderings bundle.
func (svc Service) DeleteBoard(ctx context.Context, id uuid.UUID) (dao.Board, error) {
	board, err := svc.DB.Boards().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Board{}, serr.ErrNotFound
		}
		return dao.Board{}, serr.WrapDB("could not delete board", err)
	}

	if bundleID, parseErr := uuid.Parse(board.Storage); parseErr == nil {
		svc.DB.Renderings().Delete(ctx, bundleID)
	}

	return board, nil
}

// decodedBoardRenderings loads and decodes the compiled renderings bundle
// backing board. Runs call this once, at creation, to derive the screen and
// figure tables they drive.
func (svc Service) decodedBoardRenderings(ctx context.Context, board dao.Board) (*decode.RenderingsInstruction, error) {
	bundleID, err := uuid.Parse(board.Storage)
	if err != nil {
		return nil, serr.New("board has no associated renderings bundle", serr.ErrBadArgument)
	}

	bundle, err := svc.DB.Renderings().GetByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serr.New("board's renderings bundle is missing", serr.ErrNotFound)
		}
		return nil, serr.WrapDB("could not load renderings bundle", err)
	}

	instr := &decode.RenderingsInstruction{}
	n, err := rezi.DecBinary(bundle.Data, instr)
	if err != nil {
		return nil, serr.New("stored renderings bundle is corrupt", err, dao.ErrDecodingFailure)
	}
	if n != len(bundle.Data) {
		return nil, serr.New(fmt.Sprintf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(bundle.Data)), dao.ErrDecodingFailure)
	}

	return instr, nil
}
