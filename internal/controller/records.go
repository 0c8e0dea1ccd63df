package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"taskflow/internal/middleware"
	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/pkg/logger"
)

// Backend is the per-owner record store the handlers serve from.
type Backend interface {
	ListTasks(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error)
	GetTask(ctx context.Context, owner, id string) (models.Task, error)
	CreateTask(ctx context.Context, owner string, f models.TaskFields) (models.Task, error)
	UpdateTask(ctx context.Context, owner, id string, f models.TaskFields) (models.Task, error)
	DeleteTask(ctx context.Context, owner, id string) error

	ListCategories(ctx context.Context, owner string) ([]models.Category, error)
	GetCategory(ctx context.Context, owner, id string) (models.Category, error)
	CreateCategory(ctx context.Context, owner string, f models.CategoryFields) (models.Category, error)
	UpdateCategory(ctx context.Context, owner, id string, f models.CategoryFields) (models.Category, error)
	DeleteCategory(ctx context.Context, owner, id string) error
}

// EventPublisher announces successful writes.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.RecordEvent) error
}

// Records serves the task and category tables over the record contract.
type Records struct {
	backend Backend
	events  EventPublisher
	reads   singleflight.Group

	tasks      *table[models.Task, models.TaskRecord]
	categories *table[models.Category, models.CategoryRecord]
}

// NewRecords returns handlers over backend. events may be nil.
func NewRecords(backend Backend, events EventPublisher) *Records {
	rc := &Records{backend: backend, events: events}
	rc.tasks = &table[models.Task, models.TaskRecord]{
		name: models.TableTask,
		list: backend.ListTasks,
		get:  backend.GetTask,
		create: func(ctx context.Context, owner string, r models.TaskRecord) (models.Task, error) {
			return backend.CreateTask(ctx, owner, r.TaskFields)
		},
		update: func(ctx context.Context, owner string, r models.TaskRecord) (models.Task, error) {
			return backend.UpdateTask(ctx, owner, r.ID, r.TaskFields)
		},
		remove:    backend.DeleteTask,
		normalize: func(r models.TaskRecord) models.TaskRecord { r.TaskFields = r.TaskFields.Normalize(); return r },
		recordID:  func(r models.TaskRecord) string { return r.ID },
		id:        func(t models.Task) string { return t.ID },
	}
	rc.categories = &table[models.Category, models.CategoryRecord]{
		name: models.TableCategory,
		list: func(ctx context.Context, owner string, q models.TaskQuery) ([]models.Category, error) {
			if q.CategoryID != "" {
				return nil, errUnsupportedQuery
			}
			return backend.ListCategories(ctx, owner)
		},
		get: backend.GetCategory,
		create: func(ctx context.Context, owner string, r models.CategoryRecord) (models.Category, error) {
			return backend.CreateCategory(ctx, owner, r.CategoryFields)
		},
		update: func(ctx context.Context, owner string, r models.CategoryRecord) (models.Category, error) {
			return backend.UpdateCategory(ctx, owner, r.ID, r.CategoryFields)
		},
		remove:    backend.DeleteCategory,
		normalize: func(r models.CategoryRecord) models.CategoryRecord { r.CategoryFields = r.CategoryFields.Normalize(); return r },
		recordID:  func(r models.CategoryRecord) string { return r.ID },
		id:        func(c models.Category) string { return c.ID },
	}
	return rc
}

var errUnsupportedQuery = errors.New("Unsupported query")

// table binds one record type to the backend.
type table[T, R any] struct {
	name      string
	list      func(ctx context.Context, owner string, q models.TaskQuery) ([]T, error)
	get       func(ctx context.Context, owner, id string) (T, error)
	create    func(ctx context.Context, owner string, r R) (T, error)
	update    func(ctx context.Context, owner string, r R) (T, error)
	remove    func(ctx context.Context, owner, id string) error
	normalize func(R) R
	recordID  func(R) string
	id        func(T) string
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// describe maps backend errors to the text clients display. known is false
// for unexpected failures, which are reported generically.
func describe(err error) (msg string, known bool) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrInUse),
		errors.Is(err, repository.ErrUnknownCategory):
		return err.Error(), true
	default:
		return "Internal error", false
	}
}

func (rc *Records) publish(ctx context.Context, action, tableName, id, owner string) {
	if rc.events == nil {
		return
	}
	ev := models.RecordEvent{Action: action, Table: tableName, ID: id, Owner: owner, OccurredAt: time.Now().UTC()}
	if err := rc.events.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Record event publish failed", "error", err, "table", tableName, "id", id)
	}
}

// Query handles POST /api/records/:table/query.
func (rc *Records) Query(c *gin.Context) {
	switch c.Param("table") {
	case models.TableTask:
		query(rc, c, rc.tasks)
	case models.TableCategory:
		query(rc, c, rc.categories)
	default:
		fail(c, http.StatusNotFound, "Unknown table")
	}
}

// Get handles GET /api/records/:table/:id.
func (rc *Records) Get(c *gin.Context) {
	switch c.Param("table") {
	case models.TableTask:
		get(c, rc.tasks)
	case models.TableCategory:
		get(c, rc.categories)
	default:
		fail(c, http.StatusNotFound, "Unknown table")
	}
}

// Create handles POST /api/records/:table.
func (rc *Records) Create(c *gin.Context) {
	switch c.Param("table") {
	case models.TableTask:
		mutate(rc, c, rc.tasks, models.ActionCreate)
	case models.TableCategory:
		mutate(rc, c, rc.categories, models.ActionCreate)
	default:
		fail(c, http.StatusNotFound, "Unknown table")
	}
}

// Update handles PUT /api/records/:table.
func (rc *Records) Update(c *gin.Context) {
	switch c.Param("table") {
	case models.TableTask:
		mutate(rc, c, rc.tasks, models.ActionUpdate)
	case models.TableCategory:
		mutate(rc, c, rc.categories, models.ActionUpdate)
	default:
		fail(c, http.StatusNotFound, "Unknown table")
	}
}

// Delete handles DELETE /api/records/:table.
func (rc *Records) Delete(c *gin.Context) {
	switch c.Param("table") {
	case models.TableTask:
		remove(rc, c, rc.tasks)
	case models.TableCategory:
		remove(rc, c, rc.categories)
	default:
		fail(c, http.StatusNotFound, "Unknown table")
	}
}

func query[T, R any](rc *Records, c *gin.Context, tbl *table[T, R]) {
	ctx := c.Request.Context()
	owner := middleware.Owner(c)
	var body models.ListQuery
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "Invalid request")
			return
		}
	}
	q, err := models.ParseTaskQuery(body)
	if err != nil {
		fail(c, http.StatusBadRequest, errUnsupportedQuery.Error())
		return
	}

	// Identical concurrent listings for one owner share a single backend read.
	key := fmt.Sprintf("%s|%s|%s|%t", owner, tbl.name, q.CategoryID, q.Ascending)
	v, err, _ := rc.reads.Do(key, func() (interface{}, error) {
		return tbl.list(context.WithoutCancel(ctx), owner, q)
	})
	if err != nil {
		if ctx.Err() != nil || isContextErr(err) {
			return
		}
		if errors.Is(err, errUnsupportedQuery) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error(ctx, "Query failed", "error", err, "table", tbl.name)
		fail(c, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	data := v.([]T)
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, models.ListResponse[T]{Data: data})
}

func get[T, R any](c *gin.Context, tbl *table[T, R]) {
	ctx := c.Request.Context()
	rec, err := tbl.get(ctx, middleware.Owner(c), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		logger.Error(ctx, "Get failed", "error", err, "table", tbl.name)
		fail(c, http.StatusInternalServerError, "Failed to get record")
		return
	}
	c.JSON(http.StatusOK, models.GetResponse[T]{Data: &rec})
}

// mutate applies create or update to every record in the request. The
// response succeeds only if every record did; Message carries the first failure.
func mutate[T, R any](rc *Records, c *gin.Context, tbl *table[T, R], action string) {
	ctx := c.Request.Context()
	owner := middleware.Owner(c)
	var body models.MutationRequest[R]
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Records) == 0 {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	resp := models.MutationResponse[T]{Success: true, Results: make([]models.MutationResult[T], 0, len(body.Records))}
	for _, rec := range body.Records {
		result := mutateOne(ctx, owner, tbl, action, tbl.normalize(rec))
		if result.Success {
			rc.publish(ctx, action, tbl.name, tbl.id(*result.Data), owner)
		} else if resp.Success {
			resp.Success = false
			resp.Message = result.Message
		}
		resp.Results = append(resp.Results, result)
	}
	c.JSON(http.StatusOK, resp)
}

func mutateOne[T, R any](ctx context.Context, owner string, tbl *table[T, R], action string, rec R) models.MutationResult[T] {
	if action == models.ActionUpdate && tbl.recordID(rec) == "" {
		return models.MutationResult[T]{Message: "Record id is required"}
	}
	if errs := models.Validate(rec); errs != nil {
		return models.MutationResult[T]{Message: errs.Error()}
	}
	var (
		out T
		err error
	)
	if action == models.ActionCreate {
		out, err = tbl.create(ctx, owner, rec)
	} else {
		out, err = tbl.update(ctx, owner, rec)
	}
	if err != nil {
		msg, known := describe(err)
		if !known {
			logger.Error(ctx, "Mutation failed", "error", err, "table", tbl.name, "action", action)
		}
		return models.MutationResult[T]{Message: msg}
	}
	return models.MutationResult[T]{Success: true, Data: &out}
}

func remove[T, R any](rc *Records, c *gin.Context, tbl *table[T, R]) {
	ctx := c.Request.Context()
	owner := middleware.Owner(c)
	var body models.DeleteRequest
	if err := c.ShouldBindJSON(&body); err != nil || len(body.RecordIDs) == 0 {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	resp := models.DeleteResponse{Success: true}
	for _, id := range body.RecordIDs {
		if err := tbl.remove(ctx, owner, id); err != nil {
			msg, known := describe(err)
			if !known {
				logger.Error(ctx, "Delete failed", "error", err, "table", tbl.name, "id", id)
			}
			if resp.Success {
				resp.Success = false
				resp.Message = msg
			}
			continue
		}
		rc.publish(ctx, models.ActionDelete, tbl.name, id, owner)
	}
	c.JSON(http.StatusOK, resp)
}
