package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/yakoovad/football-roster/internal/db"
	"github.com/yakoovad/football-roster/internal/model"
	"github.com/yakoovad/football-roster/internal/repository"
	"github.com/yakoovad/football-roster/pkg/logger"
	"go.uber.org/zap"
)

type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// StoreConnection hands out the process-wide store client.
type StoreConnection interface {
	Init(ctx context.Context)
	Teams() repository.TeamRepository
	Transactor() db.Transactor
}

// Confirmer asks the user whether team should be deleted.
type Confirmer func(team model.Team) bool

// RosterState is a copy of the roster taken for rendering.
type RosterState struct {
	Teams         []model.Team   `json:"teams"`
	Loading       bool           `json:"loading"`
	Error         *Error         `json:"error,omitempty"`
	FormVisible   bool           `json:"form_visible"`
	Mode          FormMode       `json:"mode"`
	Form          model.TeamForm `json:"form"`
	Editing       *model.Team    `json:"editing,omitempty"`
	PendingDelete *model.Team    `json:"pending_delete,omitempty"`
}

// Empty reports whether loading finished with no teams.
func (s RosterState) Empty() bool {
	return !s.Loading && len(s.Teams) == 0
}

// RosterService holds the team list, the create/edit form and the error
// overlay of the roster screen. Operations run one at a time; Snapshot can be
// taken while one is in flight.
type RosterService struct {
	conn StoreConnection

	// op serializes operations; mu guards the fields below.
	op sync.Mutex
	mu sync.Mutex

	teams         []model.Team
	loading       bool
	err           *Error
	formVisible   bool
	form          model.TeamForm
	editing       *model.Team
	pendingDelete *model.Team
}

func NewRosterService(conn StoreConnection) *RosterService {
	return &RosterService{
		conn:  conn,
		teams: []model.Team{},
	}
}

// Mount initializes the store client if needed and loads every team.
func (r *RosterService) Mount(ctx context.Context) *Error {
	r.conn.Init(ctx)
	return r.Load(ctx)
}

// Load replaces the team list with every stored team.
func (r *RosterService) Load(ctx context.Context) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	l := logger.FromContext(ctx)
	l.Debug("loading teams")

	r.setLoading(true)
	defer r.setLoading(false)

	records, err := r.conn.Teams().FindAll(ctx)
	if err != nil {
		l.Error("failed to fetch teams", zap.Error(err))
		return r.fail(ErrorCodeFetchFailed, errors.Wrap(err, "failed to fetch teams"))
	}

	teams := make([]model.Team, 0, len(records))
	for _, rec := range records {
		teams = append(teams, fromRecord(rec))
	}

	r.mu.Lock()
	r.teams = teams
	r.err = nil
	r.mu.Unlock()

	l.Debug("teams loaded", zap.Int("count", len(teams)))

	return nil
}

// Submit saves the form: an update while editing, a new team otherwise.
func (r *RosterService) Submit(ctx context.Context) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	r.mu.Lock()
	editing := r.editing != nil
	r.mu.Unlock()

	if editing {
		return r.update(ctx)
	}
	return r.add(ctx)
}

func (r *RosterService) Add(ctx context.Context) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	return r.add(ctx)
}

func (r *RosterService) add(ctx context.Context) *Error {
	l := logger.FromContext(ctx)

	r.mu.Lock()
	draft := r.form.Team("")
	r.mu.Unlock()

	l.Info("adding team", zap.String("team_name", draft.Name))

	saved, err := r.conn.Teams().Save(ctx, toRecord(draft))
	if err == nil && (saved == nil || saved.ID == "") {
		err = errors.New("store returned no identifier")
	}
	if err != nil {
		l.Error("failed to add team", zap.String("team_name", draft.Name), zap.Error(err))
		return r.fail(ErrorCodeAddFailed, errors.Wrap(err, "failed to add team"))
	}

	team := mergeSaved(draft, saved)

	r.mu.Lock()
	r.teams = append(r.teams, team)
	r.form = model.TeamForm{}
	r.formVisible = false
	r.mu.Unlock()

	l.Debug("team added", zap.String("team_id", team.ID))

	return nil
}

// Update saves the form over the team being edited. Without an edited team
// that has an identifier it does nothing.
func (r *RosterService) Update(ctx context.Context) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	return r.update(ctx)
}

func (r *RosterService) update(ctx context.Context) *Error {
	l := logger.FromContext(ctx)

	r.mu.Lock()
	if r.editing == nil || r.editing.ID == "" {
		r.mu.Unlock()
		return nil
	}
	draft := r.form.Team(r.editing.ID)
	r.mu.Unlock()

	l.Info("updating team", zap.String("team_id", draft.ID))

	teams := r.conn.Teams()

	var saved *repository.Team
	err := r.conn.Transactor().WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := teams.Get(txCtx, draft.ID)
		if err != nil {
			return err
		}

		current.Name = draft.Name
		current.Founded = draft.FoundedYear
		current.Logo = draft.LogoURL
		current.Description = draft.Description

		saved, err = teams.Save(txCtx, current)
		return err
	})
	if err != nil {
		l.Error("failed to update team", zap.String("team_id", draft.ID), zap.Error(err))
		return r.fail(ErrorCodeUpdateFailed, errors.Wrap(err, "failed to update team"))
	}

	team := mergeSaved(draft, saved)

	r.mu.Lock()
	next := make([]model.Team, len(r.teams))
	for i, t := range r.teams {
		if t.ID == team.ID {
			t = team
		}
		next[i] = t
	}
	r.teams = next
	r.form = model.TeamForm{}
	r.editing = nil
	r.formVisible = false
	r.mu.Unlock()

	l.Debug("team updated", zap.String("team_id", team.ID))

	return nil
}

// RequestDelete opens the delete confirmation for the team with id.
func (r *RosterService) RequestDelete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.teams {
		if t.ID == id {
			t := t
			r.pendingDelete = &t
			return
		}
	}
}

// DeclineDelete closes the delete confirmation without touching the store.
func (r *RosterService) DeclineDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pendingDelete = nil
}

// ConfirmDelete deletes the team awaiting confirmation, if any.
func (r *RosterService) ConfirmDelete(ctx context.Context) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	r.mu.Lock()
	pending := r.pendingDelete
	r.pendingDelete = nil
	r.mu.Unlock()

	if pending == nil {
		return nil
	}

	return r.destroy(ctx, pending.ID)
}

// Delete deletes the team with id once confirm agrees. A refusal touches
// nothing.
func (r *RosterService) Delete(ctx context.Context, id string, confirm Confirmer) *Error {
	r.op.Lock()
	defer r.op.Unlock()

	team := model.Team{ID: id}
	r.mu.Lock()
	for _, t := range r.teams {
		if t.ID == id {
			team = t
			break
		}
	}
	r.mu.Unlock()

	if !confirm(team) {
		return nil
	}

	return r.destroy(ctx, id)
}

func (r *RosterService) destroy(ctx context.Context, id string) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting team", zap.String("team_id", id))

	teams := r.conn.Teams()

	err := r.conn.Transactor().WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := teams.Get(txCtx, id); err != nil {
			return err
		}
		return teams.Destroy(txCtx, id)
	})
	if err != nil {
		l.Error("failed to delete team", zap.String("team_id", id), zap.Error(err))
		return r.fail(ErrorCodeDeleteFailed, errors.Wrap(err, "failed to delete team"))
	}

	r.mu.Lock()
	next := make([]model.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.ID != id {
			next = append(next, t)
		}
	}
	r.teams = next
	r.mu.Unlock()

	l.Debug("team deleted", zap.String("team_id", id))

	return nil
}

// StartEdit copies the team with id into the form and opens it in edit mode.
func (r *RosterService) StartEdit(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.teams {
		if t.ID == id {
			t := t
			r.form = model.FormFromTeam(t)
			r.editing = &t
			r.formVisible = true
			return true
		}
	}
	return false
}

// OpenForm shows the form. It keeps the current draft and mode.
func (r *RosterService) OpenForm() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.formVisible = true
}

// Cancel empties the form, leaves edit mode and hides the form.
func (r *RosterService) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.form = model.TeamForm{}
	r.editing = nil
	r.formVisible = false
}

// ChangeField sets one form field, keeping the others.
func (r *RosterService) ChangeField(name, value string) *Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.form.Set(name, value) {
		return NewError(ErrorCodeUnknownField, "unknown form field "+name)
	}
	return nil
}

func (r *RosterService) Snapshot() RosterState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := RosterState{
		Teams:       append([]model.Team{}, r.teams...),
		Loading:     r.loading,
		FormVisible: r.formVisible,
		Mode:        FormModeCreate,
		Form:        r.form,
	}
	if r.err != nil {
		e := *r.err
		state.Error = &e
	}
	if r.editing != nil {
		t := *r.editing
		state.Editing = &t
		state.Mode = FormModeEdit
	}
	if r.pendingDelete != nil {
		t := *r.pendingDelete
		state.PendingDelete = &t
	}
	return state
}

func (r *RosterService) setLoading(v bool) {
	r.mu.Lock()
	r.loading = v
	r.mu.Unlock()
}

func (r *RosterService) fail(code ErrorCode, err error) *Error {
	e := NewError(code, err.Error())

	r.mu.Lock()
	r.err = e
	r.mu.Unlock()

	return e
}

func fromRecord(rec *repository.Team) model.Team {
	return model.Team{
		ID:          rec.ID,
		Name:        rec.Name,
		FoundedYear: rec.Founded,
		LogoURL:     rec.Logo,
		Description: rec.Description,
	}
}

func toRecord(t model.Team) *repository.Team {
	return &repository.Team{
		ID:          t.ID,
		Name:        t.Name,
		Founded:     t.FoundedYear,
		Logo:        t.LogoURL,
		Description: t.Description,
	}
}

// mergeSaved prefers the fields the store echoed back and keeps the submitted
// value for every field it left empty.
func mergeSaved(submitted model.Team, saved *repository.Team) model.Team {
	team := submitted
	if saved == nil {
		return team
	}

	if saved.ID != "" {
		team.ID = saved.ID
	}
	if saved.Name != "" {
		team.Name = saved.Name
	}
	if saved.Founded != "" {
		team.FoundedYear = saved.Founded
	}
	if saved.Logo != "" {
		team.LogoURL = saved.Logo
	}
	if saved.Description != "" {
		team.Description = saved.Description
	}
	return team
}
