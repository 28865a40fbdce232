// Package dto provides the request and response envelopes of the Filmarkiv API.
// huma uses them to generate the OpenAPI description.
package dto

// ListResponse is the envelope of every list endpoint. There is no pagination.
type ListResponse[T any] struct {
	Success bool `json:"success" doc:"Always true"`
	Count   int  `json:"count" doc:"Number of items in data"`
	Data    []T  `json:"data" doc:"All matching items"`
}

// NewList wraps items, replacing nil with an empty list.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Success: true, Count: len(items), Data: items}
}

// DataResponse is the envelope of single-item responses.
type DataResponse[T any] struct {
	Success bool `json:"success" doc:"Always true"`
	Data    T    `json:"data"`
}

// NewData wraps v.
func NewData[T any](v T) DataResponse[T] {
	return DataResponse[T]{Success: true, Data: v}
}
