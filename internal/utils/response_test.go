package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{
			name:     "forbidden keeps its code",
			err:      NewForbiddenError("ACCOUNT_NOT_APPROVED", "account pending admin approval"),
			wantCode: http.StatusForbidden,
			wantErr:  "ACCOUNT_NOT_APPROVED",
			wantMsg:  "account pending admin approval",
		},
		{
			name:     "wrapped conflict",
			err:      fmt.Errorf("approve: %w", NewConflictError("CLAIM_NOT_PENDING", "claim is not pending")),
			wantCode: http.StatusConflict,
			wantErr:  "CLAIM_NOT_PENDING",
			wantMsg:  "claim is not pending",
		},
		{
			name:     "plain error hides detail",
			err:      errors.New("mongo: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantErr:  "INTERNAL_ERROR",
			wantMsg:  ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)

			var body APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, StatusError, body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantErr, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}
