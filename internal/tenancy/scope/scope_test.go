package scope

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"talentflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestSetTagsRequestContextForLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	s := Scope{TenantID: uuid.New(), UserID: "user_1"}
	Set(c, s)

	if got, _ := c.Request.Context().Value(logger.TenantIDKey).(string); got != s.TenantID.String() {
		t.Fatalf("expected tenant_id %s on request context, got %q", s.TenantID, got)
	}
	got, ok := MustGet(c)
	if !ok || got != s {
		t.Fatalf("expected scope %+v, got %+v", s, got)
	}
}
