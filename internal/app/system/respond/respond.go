// internal/app/system/respond/respond.go

// Package respond writes the API's JSON response envelope.
//
// Every endpoint answers with { "success": bool, "message": "...",
// "data": {...} }; paginated payloads additionally carry a pagination
// block. Centralizing the envelope here keeps handlers to one line per
// outcome and guarantees the shape never drifts between features.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Pagination describes one page of a list response. Total is the page
// count; Count is the total number of matching records.
type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
}

// NewPagination computes the page count from the record count.
func NewPagination(page, limit int, count int64) Pagination {
	total := int((count + int64(limit) - 1) / int64(limit))
	return Pagination{Current: page, Total: total, Count: count}
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		zap.L().Warn("failed to encode response envelope", zap.Error(err))
	}
}

// OK writes a 200 success envelope with optional data.
func OK(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// BadRequest writes a 400 failure envelope.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 failure envelope.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 failure envelope.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound writes a 404 failure envelope.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// ServerError logs err and writes a 500 failure envelope with a generic
// message; internal detail never reaches the client.
func ServerError(w http.ResponseWriter, log *zap.Logger, message string, err error) {
	if log != nil {
		log.Error(message, zap.Error(err))
	}
	Error(w, http.StatusInternalServerError, message)
}
