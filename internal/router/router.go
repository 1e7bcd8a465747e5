// Package router exposes the exercise tracker over HTTP using chi.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/exercisetracker/internal/gzippedhttp"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
	"github.com/patric-chuzhbe/exercisetracker/internal/models"
	"github.com/patric-chuzhbe/exercisetracker/internal/observability"
	"github.com/patric-chuzhbe/exercisetracker/internal/service"
	"github.com/patric-chuzhbe/exercisetracker/internal/validation"
)

const maxFormMemory = 1 << 20

type exerciseTracker interface {
	CreateUser(ctx context.Context, request models.CreateUserRequest) (models.UserResponse, error)
	ListUsers(ctx context.Context) ([]models.UserResponse, error)
	AddExercise(ctx context.Context, userID string, request models.AddExerciseRequest) (models.ExerciseCreatedResponse, error)
	GetLog(ctx context.Context, userID string, request models.LogRequest) (models.LogResponse, error)
	Ping(ctx context.Context) error
}

// Router holds the HTTP handlers of the service.
type Router struct {
	svc exerciseTracker
}

type initOptions struct {
	metricsHandler http.Handler
}

type InitOption func(*initOptions)

// WithMetricsHandler serves h at GET /metrics.
func WithMetricsHandler(h http.Handler) InitOption {
	return func(options *initOptions) {
		options.metricsHandler = h
	}
}

var errUnreadableBody = errors.New("unable to parse request body")

// New builds the chi router with the logging, metrics and gzip middleware.
func New(svc exerciseTracker, optionsProto ...InitOption) *chi.Mux {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	r := &Router{svc: svc}

	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		logger.WithLoggingHTTPMiddleware,
		observability.WithHTTPMetrics,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.NotFound(func(response http.ResponseWriter, request *http.Request) {
		writeJSON(response, http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	})
	router.MethodNotAllowed(func(response http.ResponseWriter, request *http.Request) {
		writeJSON(response, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
	})

	router.Get(`/ping`, r.GetPing)
	router.Post(`/api/users`, r.PostApiusers)
	router.Get(`/api/users`, r.GetApiusers)
	router.Post(`/api/users/{id}/exercises`, r.PostApiusersExercises)
	router.Get(`/api/users/{id}/logs`, r.GetApiusersLogs)

	if options.metricsHandler != nil {
		router.Method(http.MethodGet, `/metrics`, options.metricsHandler)
	}

	return router
}

// GetPing answers 200 when the storage is reachable.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.svc.Ping(request.Context()); err != nil {
		logger.Log.Errorw("storage ping failed", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "storage is unavailable"})
		return
	}

	writeJSON(response, http.StatusOK, map[string]string{"status": "ok"})
}

// PostApiusers registers a user from {username}.
func (r *Router) PostApiusers(response http.ResponseWriter, request *http.Request) {
	var requestData models.CreateUserRequest
	err := decodeBody(request, &requestData, func(values url.Values) {
		requestData.Username = formValue(values, "username")
	})
	if err != nil {
		writeError(response, err)
		return
	}

	created, err := r.svc.CreateUser(request.Context(), requestData)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, created)
}

// GetApiusers lists every registered user.
func (r *Router) GetApiusers(response http.ResponseWriter, request *http.Request) {
	users, err := r.svc.ListUsers(request.Context())
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, users)
}

// PostApiusersExercises logs an exercise for the user in the path.
func (r *Router) PostApiusersExercises(response http.ResponseWriter, request *http.Request) {
	var requestData models.AddExerciseRequest
	err := decodeBody(request, &requestData, func(values url.Values) {
		requestData.Description = formValue(values, "description")
		requestData.Duration = formValue(values, "duration")
		requestData.Date = formValue(values, "date")
	})
	if err != nil {
		writeError(response, err)
		return
	}

	created, err := r.svc.AddExercise(request.Context(), chi.URLParam(request, "id"), requestData)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, created)
}

// GetApiusersLogs returns the user's exercise log filtered by ?from&to&limit.
func (r *Router) GetApiusersLogs(response http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	log, err := r.svc.GetLog(
		request.Context(),
		chi.URLParam(request, "id"),
		models.LogRequest{
			From:  queryParam(query, "from"),
			To:    queryParam(query, "to"),
			Limit: queryParam(query, "limit"),
		},
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, log)
}

// decodeBody fills a request from a JSON body or, for form submissions,
// through fromForm.
func decodeBody(request *http.Request, target interface{}, fromForm func(url.Values)) error {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := request.ParseForm(); err != nil {
			return errUnreadableBody
		}
		fromForm(request.PostForm)
		return nil

	case "multipart/form-data":
		if err := request.ParseMultipartForm(maxFormMemory); err != nil {
			return errUnreadableBody
		}
		fromForm(request.PostForm)
		return nil
	}

	err := json.NewDecoder(request.Body).Decode(target)
	if err != nil && !errors.Is(err, io.EOF) {
		return errUnreadableBody
	}

	return nil
}

func formValue(values url.Values, key string) models.FormValue {
	if _, ok := values[key]; !ok {
		return models.FormValue{}
	}
	return models.NewFormValue(values.Get(key))
}

func queryParam(values url.Values, key string) *string {
	if _, ok := values[key]; !ok {
		return nil
	}
	value := values.Get(key)
	return &value
}

func writeError(response http.ResponseWriter, err error) {
	var invalidErr *validation.InvalidError

	switch {
	case errors.As(err, &invalidErr):
		logger.Log.Debugw("invalid request", zap.Error(err))
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: invalidErr.Error()})

	case errors.Is(err, errUnreadableBody):
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(response, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})

	default:
		logger.Log.Errorw("request failed", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugw("unable to write response", zap.Error(err))
	}
}
