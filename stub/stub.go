// Package stub serves canned backends for the registered services, so
// features can run without the real environment. Requests are decoded into
// the service's request shape and validated with its rules: valid requests
// get the success envelope, invalid ones get the error envelope with 400.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gobd/reststeps"
	"github.com/Gobd/reststeps/services"
)

// Responder builds the bodies for one service. req is a pointer to the
// decoded, validated request shape.
type Responder struct {
	Success func(req any) any
	Failure func(err error) any
}

// Responders returns the responders for the built-in services.
func Responders() map[string]Responder {
	return map[string]Responder{
		services.ConsentProvisionProcessResultName: {
			Success: consentSuccess,
			Failure: consentFailure,
		},
		services.AppServerBPTopupRequestName: {
			Success: func(any) any { return topupReply(0, false, "Success", uuid.NewString()) },
			Failure: func(err error) any { return topupReply(http.StatusBadRequest, true, err.Error(), "") },
		},
	}
}

// NewRouter returns a chi router with one route per service in reg that has
// a responder. Services without one are skipped.
func NewRouter(reg *services.Registry, responders map[string]Responder, logger *zap.Logger) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, requestLogger(logger))

	for _, def := range reg.All() {
		resp, ok := responders[def.Name]
		if !ok {
			logger.Debug("no stub responder", zap.String("service", def.Name))
			continue
		}
		r.MethodFunc(def.HTTPMethod(), def.Path, handle(def, resp))
	}
	return r
}

func handle(def services.Definition, resp Responder) http.HandlerFunc {
	reqType := reflect.TypeOf(def.Request)
	return func(w http.ResponseWriter, r *http.Request) {
		if reqType == nil {
			writeJSON(w, http.StatusOK, resp.Success(nil))
			return
		}
		req := reflect.New(reqType).Interface()
		if err := reststeps.DecodeAndValidateContext(r.Context(), r.Body, req); err != nil {
			writeJSON(w, http.StatusBadRequest, resp.Failure(err))
			return
		}
		writeJSON(w, http.StatusOK, resp.Success(req))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("stub request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}

func consentSuccess(req any) any {
	in, ok := req.(*services.ConsentRequest)
	if !ok {
		panic(fmt.Sprintf("consent responder got %T", req))
	}
	return services.ConsentSuccessResponse{
		StatusCode:  "0000",
		Description: "Success",
		Sample: services.ConsentSample{
			Status: "SUCCESS",
			Data: services.ConsentData{
				ConsentID:   in.ConsentID,
				PeopleID:    in.PeopleID,
				CifNo:       "CIF0000001",
				ReferenceNo: uuid.NewString(),
				Accounts: []services.ConsentAccount{
					{ProductName: "Savings", MaskedAccountNo: "XXXXXXXX1234"},
				},
				TagAllAccounts: "Y",
			},
		},
	}
}

func consentFailure(err error) any {
	return services.ConsentErrorResponse{
		StatusCode:  "400",
		Description: err.Error(),
		Sample:      map[string]any{},
	}
}

func topupReply(code int, failed bool, msg, data string) services.TopupResponse {
	return services.TopupResponse{Code: &code, Error: &failed, Msg: &msg, Data: &data}
}
