// Package gateway translates store intents into record-service calls and folds
// every outcome, including transport failures and malformed replies, into a Result.
package gateway

import (
	"context"
	"fmt"

	"taskflow/internal/models"
	"taskflow/pkg/logger"
)

// Result is the uniform outcome of a gateway call.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

// Ok wraps data in a successful Result.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail returns a failed Result carrying msg.
func Fail[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// RecordService is the record backend for one table. T is the stored entity,
// R the outbound record shape.
type RecordService[T, R any] interface {
	Fetch(ctx context.Context, q models.ListQuery) (*models.ListResponse[T], error)
	Get(ctx context.Context, id string, fields []string) (*models.GetResponse[T], error)
	Create(ctx context.Context, req models.MutationRequest[R]) (*models.MutationResponse[T], error)
	Update(ctx context.Context, req models.MutationRequest[R]) (*models.MutationResponse[T], error)
	Delete(ctx context.Context, req models.DeleteRequest) (*models.DeleteResponse, error)
}

const msgNoData = "No data returned from server"

// messages holds the fixed default message of every operation on one table.
type messages struct {
	list, notFound, get, create, update, delete string
}

// errMessage prefers the failure's own text.
func errMessage(err error, def string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return def
}

// recovered turns a panic inside the record service into a failed Result.
func recovered[T any](ctx context.Context, op, def string, out *Result[T]) {
	if r := recover(); r != nil {
		logger.Error(ctx, "Record service panicked", "op", op, "panic", fmt.Sprint(r))
		*out = Fail[T](def)
	}
}

func list[T, R any](ctx context.Context, svc RecordService[T, R], q models.ListQuery, msg messages) (res Result[[]T]) {
	defer recovered(ctx, "list", msg.list, &res)
	resp, err := svc.Fetch(ctx, q)
	if err != nil {
		logger.Error(ctx, "Gateway list failed", "error", err)
		return Fail[[]T](errMessage(err, msg.list))
	}
	if resp == nil || resp.Data == nil {
		return Fail[[]T](msgNoData)
	}
	return Ok(resp.Data)
}

func get[T, R any](ctx context.Context, svc RecordService[T, R], id string, fields []string, msg messages) (res Result[T]) {
	defer recovered(ctx, "get", msg.get, &res)
	resp, err := svc.Get(ctx, id, fields)
	if err != nil {
		logger.Error(ctx, "Gateway get failed", "error", err, "id", id)
		return Fail[T](errMessage(err, msg.get))
	}
	if resp == nil || resp.Data == nil {
		return Fail[T](msg.notFound)
	}
	return Ok(*resp.Data)
}

func mutate[T, R any](ctx context.Context, call func(context.Context, models.MutationRequest[R]) (*models.MutationResponse[T], error), rec R, op, def string) (res Result[T]) {
	defer recovered(ctx, op, def, &res)
	resp, err := call(ctx, models.MutationRequest[R]{Records: []R{rec}})
	if err != nil {
		logger.Error(ctx, "Gateway "+op+" failed", "error", err)
		return Fail[T](errMessage(err, def))
	}
	if resp == nil || !resp.Success {
		if resp != nil && resp.Message != "" {
			return Fail[T](resp.Message)
		}
		return Fail[T](def)
	}
	if len(resp.Results) == 0 || resp.Results[0].Data == nil {
		return Fail[T](def)
	}
	return Ok(*resp.Results[0].Data)
}

func remove[T, R any](ctx context.Context, svc RecordService[T, R], id, def string) (res Result[struct{}]) {
	defer recovered(ctx, "delete", def, &res)
	resp, err := svc.Delete(ctx, models.DeleteRequest{RecordIDs: []string{id}})
	if err != nil {
		logger.Error(ctx, "Gateway delete failed", "error", err, "id", id)
		return Fail[struct{}](errMessage(err, def))
	}
	if resp == nil || !resp.Success {
		if resp != nil && resp.Message != "" {
			return Fail[struct{}](resp.Message)
		}
		return Fail[struct{}](def)
	}
	return Ok(struct{}{})
}
