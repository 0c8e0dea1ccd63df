package models

import "fmt"

// Record tables served by the record service.
const (
	TableTask     = "task"
	TableCategory = "category"
)

// Operators and sort types understood by the record service.
const (
	OpExactMatch = "ExactMatch"
	SortDesc     = "DESC"
	SortAsc      = "ASC"
)

// Field names used in list queries.
const (
	FieldCategory  = "category"
	FieldCreatedAt = "createdAt"
)

// Condition restricts a listing to records whose field matches one of values.
type Condition struct {
	FieldName string   `json:"fieldName"`
	Operator  string   `json:"operator"`
	Values    []string `json:"values"`
}

// OrderBy sorts a listing.
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sortType"`
}

// ListQuery is the request body of a record listing.
type ListQuery struct {
	Fields  []string    `json:"fields,omitempty"`
	Where   []Condition `json:"where,omitempty"`
	OrderBy []OrderBy   `json:"orderBy,omitempty"`
}

// ListResponse carries a listing. A nil Data means the service returned nothing.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// GetResponse carries a single record.
type GetResponse[T any] struct {
	Data *T `json:"data"`
}

// MutationRequest carries records to create or update.
type MutationRequest[R any] struct {
	Records []R `json:"records"`
}

// MutationResult is the outcome for one record of a MutationRequest.
type MutationResult[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// MutationResponse answers a MutationRequest.
type MutationResponse[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Results []MutationResult[T] `json:"results,omitempty"`
}

// DeleteRequest names the records to delete.
type DeleteRequest struct {
	RecordIDs []string `json:"recordIds"`
}

// DeleteResponse answers a DeleteRequest.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ParseTaskQuery reduces a list query to the filters the task table supports:
// an ExactMatch on category and ordering by createdAt.
func ParseTaskQuery(q ListQuery) (TaskQuery, error) {
	var tq TaskQuery
	for _, c := range q.Where {
		if c.FieldName != FieldCategory || c.Operator != OpExactMatch || len(c.Values) != 1 {
			return TaskQuery{}, fmt.Errorf("unsupported condition %s %s", c.FieldName, c.Operator)
		}
		tq.CategoryID = c.Values[0]
	}
	for _, o := range q.OrderBy {
		if o.FieldName == FieldCreatedAt {
			tq.Ascending = o.SortType == SortAsc
		}
	}
	return tq, nil
}
