package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/testutil"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantBody       string
		wantRetryAfter string
	}{
		{
			name:       "validation",
			err:        apierror.NewValidation("passwords do not match"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"passwords do not match"}`,
		},
		{
			name:       "wrapped forbidden",
			err:        fmt.Errorf("claim: %w", apierror.NewForbidden(apierror.MsgAdminExists)),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"an admin already exists"}`,
		},
		{
			name:           "rate limited",
			err:            apierror.NewRateLimited(30 * time.Second),
			wantStatus:     http.StatusTooManyRequests,
			wantBody:       `{"error":"too many requests, please try again later","retryAfter":30}`,
			wantRetryAfter: "30",
		},
		{
			name:           "rate limited rounds up",
			err:            apierror.NewRateLimited(90*time.Second + time.Millisecond),
			wantStatus:     http.StatusTooManyRequests,
			wantBody:       `{"error":"too many requests, please try again later","retryAfter":91}`,
			wantRetryAfter: "91",
		},
		{
			name:           "rate limited under a second",
			err:            apierror.NewRateLimited(300 * time.Millisecond),
			wantStatus:     http.StatusTooManyRequests,
			wantBody:       `{"error":"too many requests, please try again later","retryAfter":1}`,
			wantRetryAfter: "1",
		},
		{
			name:       "plain error is hidden",
			err:        fmt.Errorf("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(c, testutil.MakeNoopLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantRetryAfter, rec.Header().Get("Retry-After"))
		})
	}
}
