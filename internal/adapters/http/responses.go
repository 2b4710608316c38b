package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ntandostore/core/internal/domain/entities"
	"github.com/ntandostore/core/internal/ports"
)

// ContextKeyAdmin holds the authenticated admin username
const ContextKeyAdmin = "admin"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Service not found"`
}

// MessageResponse is the body of a successful request with nothing else to return
type MessageResponse struct {
	Success  bool     `json:"success" example:"true"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// ok builds a success envelope. Failed post-save steps are listed under
// warnings; the request itself still succeeded.
func ok(message string, report *ports.SaveReport, fields echo.Map) echo.Map {
	body := echo.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	if warnings := report.Warnings(); len(warnings) > 0 {
		body["warnings"] = warnings
	}
	return body
}

// toHTTPError maps domain errors onto status codes. Storage failures keep
// their cause for the error log but show the client only fallback.
func toHTTPError(err error, fallback string) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, entities.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, clientMessage(err, entities.ErrNotFound))
	case errors.Is(err, entities.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err, entities.ErrValidation))
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, clientMessage(err, entities.ErrUnauthorized))
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}

// clientMessage strips wrapping context and the kind prefix from err
func clientMessage(err, kind error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || next == kind {
			break
		}
		err = next
	}

	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	if msg == "" {
		return kind.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func adminFromContext(c echo.Context) string {
	name, _ := c.Get(ContextKeyAdmin).(string)
	return name
}
