// Package inmem provides a dao.Store backed entirely by in-process maps, for
// use in tests and single-process demo runs of tsiserver.
package inmem

import (
	"fmt"

	"github.com/cuwacunu/tsiemene/server/dao"
)

type store struct {
	users      *UsersRepository
	boards     *BoardsRepository
	renderings *RenderingsRepository
	runs       *RunsRepository
	dispatch   *DispatchLogRepository
}

func NewDatastore() dao.Store {
	st := &store{
		users:      NewUsersRepository(),
		boards:     NewBoardsRepository(),
		renderings: NewRenderingsRepository(),
		runs:       NewRunsRepository(),
	}
	st.dispatch = NewDispatchLogRepository(st.runs)
	return st
}

func (s *store) Users() dao.UserRepository             { return s.users }
func (s *store) Boards() dao.BoardRepository            { return s.boards }
func (s *store) Renderings() dao.RenderingsRepository   { return s.renderings }
func (s *store) Runs() dao.RunRepository                { return s.runs }
func (s *store) DispatchLog() dao.DispatchLogRepository { return s.dispatch }

func (s *store) Close() error {
	var err error

	closers := []func() error{s.users.Close, s.boards.Close, s.renderings.Close, s.runs.Close}
	for _, c := range closers {
		if nextErr := c(); nextErr != nil {
			if err != nil {
				err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
			} else {
				err = nextErr
			}
		}
	}

	return err
}
