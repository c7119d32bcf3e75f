package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "access", time.Hour, testSecret)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestJWT_Rejects(t *testing.T) {
	valid, err := GenerateJWT(7, "access", time.Hour, testSecret)
	require.NoError(t, err)

	expired, err := GenerateJWT(7, "access", -time.Minute, testSecret)
	require.NoError(t, err)

	numericID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, testSecret},
		{"garbage", "not.a.token", testSecret},
		{"non-string user id", numericID, testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type params struct {
		Limit int `validate:"min=1,max=50"`
	}

	assert.NoError(t, ValidateStruct(params{Limit: 10}))

	err := ValidateStruct(params{Limit: 0})
	require.Error(t, err)
	assert.Equal(t, "Limit must be at least 1", err.Error())

	err = ValidateStruct(params{Limit: 51})
	require.Error(t, err)
	assert.Equal(t, "Limit must be at most 50", err.Error())
}

func TestRespondWithData(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithData(rec, http.StatusOK, []int{1, 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 2)
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, "bad limit")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"bad limit"}`, rec.Body.String())
}
