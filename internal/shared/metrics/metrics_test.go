package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluationNormalizesOutcome(t *testing.T) {
	before := testutil.ToFloat64(evaluationsTotal.WithLabelValues("evaluate", OutcomeError))
	ObserveEvaluation("evaluate", -time.Second, "weird")
	after := testutil.ToFloat64(evaluationsTotal.WithLabelValues("evaluate", OutcomeError))
	if after-before != 1 {
		t.Fatalf("expected error outcome to increment by 1, got %v", after-before)
	}
}

func TestAddSuggestionsSkipsZero(t *testing.T) {
	resolvedBefore := testutil.ToFloat64(suggestionsTotal.WithLabelValues("resolved"))
	droppedBefore := testutil.ToFloat64(suggestionsTotal.WithLabelValues("dropped"))

	AddSuggestions(2, 0)

	if got := testutil.ToFloat64(suggestionsTotal.WithLabelValues("resolved")) - resolvedBefore; got != 2 {
		t.Fatalf("expected resolved +2, got %v", got)
	}
	if got := testutil.ToFloat64(suggestionsTotal.WithLabelValues("dropped")) - droppedBefore; got != 0 {
		t.Fatalf("expected dropped unchanged, got %v", got)
	}
}

func TestHandlerRendersCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncFeedbackGenerated("maintain")

	router := gin.New()
	router.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `acen_feedback_generated_total{category="maintain"}`) {
		t.Fatalf("expected feedback counter in output:\n%s", resp.Body.String())
	}
}
