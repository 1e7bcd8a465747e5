package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	users := testutil.ToFloat64(usersCreatedTotal)
	exercises := testutil.ToFloat64(exercisesLoggedTotal)

	Recorder{}.UserCreated()
	Recorder{}.ExerciseLogged()
	Recorder{}.ExerciseLogged()

	assert.Equal(t, users+1, testutil.ToFloat64(usersCreatedTotal))
	assert.Equal(t, exercises+2, testutil.ToFloat64(exercisesLoggedTotal))
}

func TestWithHTTPMetricsUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(WithHTTPMetrics)
	router.Get("/api/users/{id}/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequestsTotal.WithLabelValues("/api/users/{id}/logs", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/abc/logs", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/def/logs", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestHandlerExposesMetrics(t *testing.T) {
	Recorder{}.UserCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exercise_tracker_records_users_created_total")
}
