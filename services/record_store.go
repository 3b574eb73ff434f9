package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"kings-admin/logger"
	"kings-admin/models"

	"golang.org/x/sync/singleflight"
)

// Confirmer подтверждает разрушительное действие оператора
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc адаптер функции к Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// DecisionRecorder журнал решений оператора
type DecisionRecorder interface {
	Record(ctx context.Context, decision *models.Decision) error
}

const DeletePrompt = "Are you sure you want to delete this user?"

// Result итог операции хранилища
type Result struct {
	OK        bool
	Declined  bool
	Kind      ErrorKind
	Err       error
	Reloaded  bool
	ReloadErr error
}

// Reason текст причины неудачи для оператора
func (r Result) Reason() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.ReloadErr != nil:
		return r.ReloadErr.Error()
	}
	return ""
}

func failure(err error) Result {
	return Result{Kind: KindOf(err), Err: err}
}

// Snapshot согласованное состояние хранилища на момент чтения
type Snapshot struct {
	Records  []models.UserRecord
	Loading  bool
	Loaded   bool
	Err      error
	LoadedAt time.Time
}

// RecordStore владеет копией коллекции регистраций и флагом загрузки.
// Все изменения идут через Load, SetStatus и Remove.
type RecordStore struct {
	api      RegistryAPI
	recorder DecisionRecorder
	group    singleflight.Group
	fetchMu  sync.Mutex

	mutex    sync.RWMutex
	records  []models.UserRecord
	loading  bool
	loaded   bool
	lastErr  error
	loadedAt time.Time
}

func NewRecordStore(api RegistryAPI, recorder DecisionRecorder) *RecordStore {
	return &RecordStore{
		api:      api,
		recorder: recorder,
	}
}

// Snapshot возвращает копию текущего состояния
func (s *RecordStore) Snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]models.UserRecord, len(s.records))
	copy(records, s.records)
	return Snapshot{
		Records:  records,
		Loading:  s.loading,
		Loaded:   s.loaded,
		Err:      s.lastErr,
		LoadedAt: s.loadedAt,
	}
}

// Load перечитывает коллекцию из API. Одновременные вызовы объединяются
// в один запрос. При ошибке прежняя коллекция сохраняется.
func (s *RecordStore) Load(ctx context.Context) Result {
	ch := s.group.DoChan("load", func() (interface{}, error) {
		return nil, s.load(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return failure(res.Err)
		}
		return Result{OK: true, Reloaded: true}
	case <-ctx.Done():
		return failure(&APIError{Kind: KindTransport, Op: "list users", Err: ctx.Err()})
	}
}

// load выполняет запросы к API строго по очереди, поэтому более поздняя
// загрузка всегда применяется после более ранней
func (s *RecordStore) load(ctx context.Context) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.mutex.Lock()
	s.loading = true
	s.mutex.Unlock()

	records, err := s.api.ListUsers(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		logger.Error("Ошибка загрузки списка пользователей", "error", err, "kind", KindOf(err))
		return err
	}

	s.records = records
	s.loaded = true
	s.lastErr = nil
	s.loadedAt = time.Now()
	return nil
}

// SetStatus выставляет статус approved или rejected и перечитывает список
func (s *RecordStore) SetStatus(ctx context.Context, userID string, status models.Status) Result {
	if !status.Settable() {
		return failure(&APIError{Kind: KindInvalid, Op: "update status", Err: errors.New("статус должен быть approved или rejected")})
	}

	if err := s.api.UpdateStatus(ctx, userID, status); err != nil {
		logger.Error("Ошибка обновления статуса", "user_id", userID, "status", status, "error", err)
		return failure(err)
	}

	s.record(ctx, userID, models.ActionForStatus(status))
	return s.reload(ctx)
}

// Remove удаляет запись после подтверждения оператора и перечитывает список
func (s *RecordStore) Remove(ctx context.Context, userID string, confirmer Confirmer) Result {
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt) {
		return Result{Declined: true}
	}

	if err := s.api.DeleteUser(ctx, userID); err != nil {
		logger.Error("Ошибка удаления пользователя", "user_id", userID, "error", err)
		return failure(err)
	}

	s.record(ctx, userID, models.ActionDelete)
	return s.reload(ctx)
}

// reload перечитывает список после успешной мутации. Загрузка, начатая до
// мутации, не переиспользуется: новая ждёт её окончания и идёт в API заново.
// Ошибка перечитывания не отменяет саму мутацию.
func (s *RecordStore) reload(ctx context.Context) Result {
	s.group.Forget("load")
	res := s.Load(ctx)
	if res.Err != nil {
		return Result{OK: true, Kind: res.Kind, ReloadErr: res.Err}
	}
	return Result{OK: true, Reloaded: true}
}

func (s *RecordStore) record(ctx context.Context, userID string, action models.Action) {
	if s.recorder == nil {
		return
	}
	decision := &models.Decision{
		UserID:    userID,
		Action:    action,
		Email:     s.emailOf(userID),
		RequestID: RequestIDFromContext(ctx),
	}
	if err := s.recorder.Record(ctx, decision); err != nil {
		logger.Warn("Не удалось записать решение в журнал", "user_id", userID, "action", action, "error", err)
	}
}

// emailOf ищет email записи в текущей коллекции
func (s *RecordStore) emailOf(userID string) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, rec := range s.records {
		if rec.ID == userID {
			return rec.Email
		}
	}
	return ""
}
