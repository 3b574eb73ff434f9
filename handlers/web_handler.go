package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kings-admin/config"
	"kings-admin/logger"
	"kings-admin/models"
	"kings-admin/services"
	"kings-admin/templates"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Journal журнал модерации, доступный только на чтение
type Journal interface {
	GetStats(ctx context.Context) (models.DecisionStats, error)
	GetPaginated(ctx context.Context, page, perPage int) ([]models.Decision, int64, error)
	GetByUserID(ctx context.Context, userID string) (*models.LatestDecision, error)
}

type WebHandler struct {
	store     *services.RecordStore
	view      *services.ListView
	journal   Journal
	cfg       *config.Config
	templates *template.Template
}

// NewWebHandler собирает обработчик; journal может быть nil, если журнал выключен
func NewWebHandler(store *services.RecordStore, view *services.ListView, journal Journal, cfg *config.Config) (*WebHandler, error) {
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}
	return &WebHandler{
		store:     store,
		view:      view,
		journal:   journal,
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type indexPage struct {
	Title     string
	Origin    string
	List      models.ListPage
	Loading   bool
	Loaded    bool
	LoadError string
	LoadedAt  string
	Flash     string
}

type confirmPage struct {
	Title  string
	Prompt string
	ID     string
	Record *models.UserRecord
	Query  string
	Page   int
}

// IndexHandler отображает таблицу пользователей
func (h *WebHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.ensureLoaded(r.Context())
	state := viewState(r.URL.Query())

	page := indexPage{
		Title:   "User List",
		Origin:  h.cfg.API.BaseURL,
		List:    h.view.Build(snap.Records, state),
		Loading: snap.Loading && !snap.Loaded,
		Loaded:  snap.Loaded,
		Flash:   r.URL.Query().Get("error"),
	}
	if snap.Err != nil {
		page.LoadError = snap.Err.Error()
	}
	if !snap.LoadedAt.IsZero() {
		page.LoadedAt = snap.LoadedAt.Format(time.RFC1123)
	}

	h.render(w, "index.html", page)
}

// RefreshHandler перечитывает список из API
func (h *WebHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	res := h.store.Load(r.Context())
	h.redirectBack(w, r, res)
}

// StatusHandler одобряет или отклоняет регистрацию
func (h *WebHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := models.Status(r.FormValue("status"))

	res := h.store.SetStatus(r.Context(), id, status)
	h.redirectBack(w, r, res)
}

// ConfirmDeleteHandler показывает запрос подтверждения удаления
func (h *WebHandler) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state := viewState(r.URL.Query())

	page := confirmPage{
		Title:  "Delete user",
		Prompt: services.DeletePrompt,
		ID:     id,
		Query:  state.Query,
		Page:   state.Page,
	}
	for _, rec := range h.store.Snapshot().Records {
		if rec.ID == id {
			rec := rec
			page.Record = &rec
			break
		}
	}

	h.render(w, "confirm.html", page)
}

// DeleteHandler удаляет регистрацию, если оператор подтвердил действие
func (h *WebHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	confirmed := r.FormValue("confirm") == "yes"

	res := h.store.Remove(r.Context(), id, formConfirmer(confirmed))
	h.redirectBack(w, r, res)
}

// GetUsersHandler возвращает отфильтрованную страницу пользователей
func (h *WebHandler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.ensureLoaded(r.Context())

	response := models.PaginatedResponse{
		ListPage: h.view.Build(snap.Records, viewState(r.URL.Query())),
		Loading:  snap.Loading,
	}
	if snap.Err != nil {
		response.Error = snap.Err.Error()
	}

	code := http.StatusOK
	if snap.Err != nil && !snap.Loaded {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, response)
}

// APIStatusHandler меняет статус через JSON API
func (h *WebHandler) APIStatusHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid JSON body",
		})
		return
	}

	res := h.store.SetStatus(r.Context(), mux.Vars(r)["id"], body.Status)
	writeResult(w, res)
}

// APIDeleteHandler удаляет регистрацию через JSON API; требует confirm=true
func (h *WebHandler) APIDeleteHandler(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	res := h.store.Remove(r.Context(), mux.Vars(r)["id"], formConfirmer(confirmed))
	writeResult(w, res)
}

// GetDecisionStatsHandler возвращает статистику журнала модерации
func (h *WebHandler) GetDecisionStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.journalEnabled(w) {
		return
	}

	stats, err := h.journal.GetStats(r.Context())
	if err != nil {
		journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetDecisionsHandler возвращает записи журнала с пагинацией
func (h *WebHandler) GetDecisionsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.journalEnabled(w) {
		return
	}

	page := 1
	perPage := 20

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 && pp <= 100 {
			perPage = pp
		}
	}

	decisions, total, err := h.journal.GetPaginated(r.Context(), page, perPage)
	if err != nil {
		journalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":        decisions,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": int(math.Ceil(float64(total) / float64(perPage))),
	})
}

// GetUserDecisionHandler возвращает последнее решение по пользователю
func (h *WebHandler) GetUserDecisionHandler(w http.ResponseWriter, r *http.Request) {
	if !h.journalEnabled(w) {
		return
	}

	latest, err := h.journal.GetByUserID(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   "no decision recorded",
		})
		return
	}
	if err != nil {
		journalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (h *WebHandler) journalEnabled(w http.ResponseWriter) bool {
	if h.journal != nil {
		return true
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"success": false,
		"error":   "moderation journal is disabled",
	})
	return false
}

func journalError(w http.ResponseWriter, err error) {
	logger.Error("Ошибка чтения журнала модерации", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// HealthHandler сообщает о готовности сервиса
func (h *WebHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"loaded":  snap.Loaded,
		"loading": snap.Loading,
		"records": len(snap.Records),
	})
}

// ensureLoaded загружает список, пока не удалась хотя бы одна загрузка
func (h *WebHandler) ensureLoaded(ctx context.Context) services.Snapshot {
	snap := h.store.Snapshot()
	if !snap.Loaded && !snap.Loading {
		h.store.Load(ctx)
		snap = h.store.Snapshot()
	}
	return snap
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("Ошибка отрисовки шаблона", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// redirectBack возвращает оператора к списку с тем же поиском и страницей
func (h *WebHandler) redirectBack(w http.ResponseWriter, r *http.Request, res services.Result) {
	values := url.Values{}
	if q := strings.TrimSpace(r.FormValue("q")); q != "" {
		values.Set("q", q)
	}
	if page, err := strconv.Atoi(r.FormValue("page")); err == nil && page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if !res.OK && !res.Declined && res.Err != nil {
		values.Set("error", res.Reason())
	}

	target := "/"
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func viewState(query url.Values) services.ViewState {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 1
	}
	return services.ViewState{
		Query: query.Get("q"),
		Page:  page,
	}
}

func formConfirmer(confirmed bool) services.Confirmer {
	return services.ConfirmFunc(func(context.Context, string) bool {
		return confirmed
	})
}

func writeResult(w http.ResponseWriter, res services.Result) {
	response := map[string]interface{}{
		"success": res.OK,
	}

	code := http.StatusOK
	switch {
	case res.Declined:
		code = http.StatusPreconditionRequired
		response["error"] = "confirmation required"
	case !res.OK:
		code = http.StatusBadGateway
		if res.Kind == services.KindInvalid {
			code = http.StatusBadRequest
		}
		response["error"] = res.Reason()
		response["kind"] = res.Kind
	case res.ReloadErr != nil:
		response["reload_error"] = res.ReloadErr.Error()
	}

	writeJSON(w, code, response)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Ошибка кодирования ответа", "error", err)
	}
}
