package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wheelhouse/service"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// Response is the error body shared by every endpoint
type Response struct {
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
	// WagerIndex is the 0-based offending wager, when a rejection names one
	WagerIndex *int `json:"wager_index,omitempty"`
}

func Error(msg string, status int) Response {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Response{Status: status, Error: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is required", err.Field()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s exceeds %s", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is invalid", err.Field()))
		}
	}

	return Response{
		Status: http.StatusBadRequest,
		Error:  strings.Join(errMsgs, ", "),
	}
}

// writeError maps service errors onto HTTP statuses. Rejections carry their
// reason to the client; failures are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *service.RejectionError
	switch {
	case errors.As(err, &rej):
		resp := Error(rej.Reason, http.StatusUnprocessableEntity)
		if rej.WagerIndex >= 0 {
			idx := rej.WagerIndex
			resp.WagerIndex = &idx
		}
		render.Status(r, resp.Status)
		render.JSON(w, r, resp)
		return

	case errors.Is(err, service.ErrServiceBusy):
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, Error(service.ErrServiceBusy.Error(), http.StatusServiceUnavailable))
		return

	case errors.Is(err, service.ErrAccountNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("account not found", http.StatusNotFound))
		return
	}

	log.WithFields(log.Fields{
		"requestID": middleware.GetReqID(r.Context()),
		"path":      r.URL.Path,
	}).WithError(err).Error("Request failed")

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, Error("internal error", http.StatusInternalServerError))
}
