package api

// These are not the DAO models; those are distinct and closer to the
// persisted format. These are the models sent to and received from API
// clients.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type UserUpdateRequest struct {
	ID       UpdateString `json:"id,omitempty"`
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Email    UpdateString `json:"email,"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

// InfoModel is returned from GET /info: identifies the running server and
// the engine version it embeds.
type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		Engine string `json:"engine"`
	} `json:"version"`
}

// BoardModel is the client-facing view of a registered board.
type BoardModel struct {
	URI             string `json:"uri"`
	ID              string `json:"id,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Version         string `json:"version,omitempty"`
	Description     string `json:"description,omitempty"`
	Created         string `json:"created,omitempty"`
	Modified        string `json:"modified,omitempty"`
	LastLocalAccess string `json:"last_local_access,omitempty"`
}

// BoardUploadRequest carries a board's renderings manifest source text at
// upload time.
type BoardUploadRequest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// RunModel is the client-facing view of a run in progress.
type RunModel struct {
	URI     string        `json:"uri"`
	ID      string        `json:"id,omitempty"`
	UserID  string        `json:"user_id,omitempty"`
	BoardID string        `json:"board_id,omitempty"`
	Created string        `json:"created,omitempty"`
	State   *RunStateModel `json:"state,omitempty"`
}

// RunStateModel is the client-facing view of a run's live figure state.
type RunStateModel struct {
	FigureText    map[string]string    `json:"figure_text,omitempty"`
	FigureLines   map[string][]string  `json:"figure_lines,omitempty"`
	FigureSeries0 map[string][]float64 `json:"figure_series0,omitempty"`
	ScrollOffset  map[string]int       `json:"scroll_offset,omitempty"`
}

// RunCreateRequest requests a new run of an existing board.
type RunCreateRequest struct {
	BoardID string `json:"board_id"`
}

// DispatchRequest carries a client-driven dispatch_event call (§4.11) into a
// run: the event name, an opaque textual payload, and the resulting figure
// state the client computed by applying it locally.
type DispatchRequest struct {
	Event   string        `json:"event"`
	Payload string        `json:"payload,omitempty"`
	State   RunStateModel `json:"state"`
}

// DispatchEntryModel is the client-facing view of one audited dispatch call.
type DispatchEntryModel struct {
	URI     string `json:"uri"`
	ID      string `json:"id,omitempty"`
	RunID   string `json:"run_id,omitempty"`
	Created string `json:"created,omitempty"`
	Event   string `json:"event,omitempty"`
	Summary string `json:"summary,omitempty"`
}
