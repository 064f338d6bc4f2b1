package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposed(t *testing.T) {
	before := testutil.ToFloat64(AssistantAnswers.WithLabelValues("common_cache"))
	AssistantAnswers.WithLabelValues("common_cache").Inc()
	if got := testutil.ToFloat64(AssistantAnswers.WithLabelValues("common_cache")); got != before+1 {
		t.Fatalf("expected counter to grow by one, got %v -> %v", before, got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "utrippin_assistant_answers_total") {
		t.Fatalf("metric missing from exposition")
	}
}
