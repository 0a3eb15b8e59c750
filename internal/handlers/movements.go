package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tesouraria/internal/models"
)

// ListViewModel is the data passed to the movement listing template.
type ListViewModel struct {
	User      *models.User
	Title     string
	Type      models.MovementType
	Movements []models.Movement
	Month     string
	Year      string
	Error     string
}

// Route returns the listing page for the view's movement type.
func (vm ListViewModel) Route() string {
	route, _ := vm.Type.ListingRoute()
	return route
}

// FormViewModel is the data passed to the create/edit form template.
type FormViewModel struct {
	User     *models.User
	Type     models.MovementType
	Users    []models.User
	Movement *models.Movement
	IsEdit   bool
}

// IsTithe reports whether the form is scoped to a tithe, which is the
// only type that carries a contributing user.
func (vm FormViewModel) IsTithe() bool {
	return vm.Type == models.TypeTithe
}

// SelectedUserID returns the user linked to the movement being edited,
// or zero when there is none.
func (vm FormViewModel) SelectedUserID() int64 {
	if vm.Movement != nil && vm.Movement.UserID != nil {
		return *vm.Movement.UserID
	}
	return 0
}

// ListTithes renders the tithe listing for the effective period.
func (h *Handlers) ListTithes(w http.ResponseWriter, r *http.Request) {
	h.listMovements(w, r, models.TypeTithe, "Dízimos", "Erro ao buscar os dízimos")
}

// ListOfferings renders the offering listing for the effective period.
func (h *Handlers) ListOfferings(w http.ResponseWriter, r *http.Request) {
	h.listMovements(w, r, models.TypeOffering, "Ofertas", "Erro ao buscar as ofertas")
}

// ListExpenses renders the expense listing for the effective period.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	h.listMovements(w, r, models.TypeExpense, "Despesas", "Erro ao buscar as despesas")
}

// listMovements fetches and renders one movement type scoped to the
// period filter. A fetch failure degrades to an empty listing with an
// inline message; the page itself always renders.
func (h *Handlers) listMovements(w http.ResponseWriter, r *http.Request, tipo models.MovementType, title, errMsg string) {
	period := models.PeriodFrom(r.URL.Query().Get("mes"), r.URL.Query().Get("ano"), time.Now())

	vm := ListViewModel{
		User:  GetUserFromContext(r),
		Title: title,
		Type:  tipo,
		Month: period.Month,
		Year:  period.Year,
	}

	movements, err := h.api.ListMovements(r.Context(), tipo, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "List movements failed", "error", err, "tipo", tipo, "mes", period.Month, "ano", period.Year)
		vm.Error = errMsg
	} else {
		vm.Movements = movements
	}

	h.render(w, r, "movimentacoes.html", vm)
}

// NewMovementForm renders the creation form for the type in the route.
// The user list is fetched to populate the tithe-payer selector; a fetch
// failure is a hard error.
func (h *Handlers) NewMovementForm(w http.ResponseWriter, r *http.Request) {
	tipo := models.MovementType(r.PathValue("tipo"))
	if !tipo.Valid() {
		http.Error(w, "Tipo de movimentação inválido", http.StatusBadRequest)
		return
	}

	users, err := h.api.ListUsers(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List users failed", "error", err)
		http.Error(w, "Erro ao carregar formulário", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "cadastro.html", FormViewModel{
		User:  GetUserFromContext(r),
		Type:  tipo,
		Users: users,
	})
}

// CreateMovement builds a movement from the submitted form and forwards
// it to the API, then redirects to the listing of its type.
func (h *Handlers) CreateMovement(w http.ResponseWriter, r *http.Request) {
	tipo := models.MovementType(r.PathValue("tipo"))
	route, ok := tipo.ListingRoute()
	if !ok {
		http.Error(w, "Tipo de movimentação inválido", http.StatusBadRequest)
		return
	}

	movement, err := h.parseMovementForm(r, tipo)
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid movement form", "error", err, "tipo", tipo)
		http.Error(w, "Dados da movimentação inválidos", http.StatusBadRequest)
		return
	}

	if err := h.api.CreateMovement(r.Context(), movement); err != nil {
		slog.ErrorContext(r.Context(), "Create movement failed", "error", err, "tipo", tipo)
		http.Error(w, "Erro ao cadastrar movimentação", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, route, http.StatusFound)
}

// EditMovementForm renders the edit form pre-populated with the movement
// and the user list. Both reads must succeed; either failing is a hard
// error. They are independent and issued concurrently.
func (h *Handlers) EditMovementForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	var movement *models.Movement
	var users []models.User

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		m, err := h.api.GetMovement(ctx, id)
		if err == nil {
			movement = m
		}
		return err
	})
	g.Go(func() error {
		u, err := h.api.ListUsers(ctx)
		if err == nil {
			users = u
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Edit form reads failed", "error", err, "id", id)
		http.Error(w, "Erro ao carregar formulário de edição", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "cadastro.html", FormViewModel{
		User:     GetUserFromContext(r),
		Type:     movement.Type,
		Users:    users,
		Movement: movement,
		IsEdit:   true,
	})
}

// UpdateMovement builds a movement from the submitted form (including an
// explicit type field, unlike creation) and forwards the update, then
// redirects to the dashboard.
func (h *Handlers) UpdateMovement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Dados da movimentação inválidos", http.StatusBadRequest)
		return
	}

	movement, err := h.parseMovementForm(r, models.MovementType(r.FormValue("tipo")))
	if err != nil {
		slog.WarnContext(r.Context(), "Invalid movement form", "error", err, "id", id)
		http.Error(w, "Dados da movimentação inválidos", http.StatusBadRequest)
		return
	}

	if err := h.api.UpdateMovement(r.Context(), id, movement); err != nil {
		slog.ErrorContext(r.Context(), "Update movement failed", "error", err, "id", id)
		http.Error(w, "Erro ao atualizar movimentação", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// DeleteMovement forwards a delete-by-id and redirects to the dashboard.
func (h *Handlers) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	if err := h.api.DeleteMovement(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete movement failed", "error", err, "id", id)
		http.Error(w, "Erro ao excluir movimentação", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// parseMovementForm builds a Movement from form fields, validates it and
// applies the tithe-only user link rule before it ever reaches the API.
func (h *Handlers) parseMovementForm(r *http.Request, tipo models.MovementType) (models.Movement, error) {
	if err := r.ParseForm(); err != nil {
		return models.Movement{}, err
	}

	rawAmount := strings.TrimSpace(r.FormValue("valor"))
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return models.Movement{}, fmt.Errorf("invalid valor %q: %w", rawAmount, err)
	}
	if !amount.IsPositive() {
		return models.Movement{}, errors.New("valor must be positive")
	}

	movement := models.Movement{
		Description: strings.TrimSpace(r.FormValue("descricao")),
		Amount:      amount,
		Type:        tipo,
		Date:        strings.TrimSpace(r.FormValue("data")),
	}
	if v := strings.TrimSpace(r.FormValue("usuarioId")); v != "" {
		if userID, err := strconv.ParseInt(v, 10, 64); err == nil {
			movement.UserID = &userID
		}
	}

	if err := h.validate.Struct(movement); err != nil {
		return models.Movement{}, err
	}

	movement.Normalize()
	return movement, nil
}
