// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package internal_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rapidaai/scribe/pkg/commons"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAvailability(t *testing.T) {
	logger, err := commons.NewApplicationLogger(commons.Level("error"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{name: "available", status: http.StatusOK, body: `{"availability":"available"}`, want: true},
		{name: "no field", status: http.StatusOK, body: `{}`, want: true},
		{name: "downloading", status: http.StatusOK, body: `{"availability":"downloading"}`, want: false},
		{name: "unavailable", status: http.StatusOK, body: `{"availability":"Unavailable"}`, want: false},
		{name: "server error", status: http.StatusServiceUnavailable, body: `{}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ok, err := NewHTTPAvailability(logger, server.URL, time.Second).Available(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestHTTPAvailability_Unreachable(t *testing.T) {
	logger, _ := commons.NewApplicationLogger(commons.Level("error"))
	ok, err := NewHTTPAvailability(logger, "http://127.0.0.1:1/health", 200*time.Millisecond).Available(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStaticAvailability(t *testing.T) {
	ok, err := NewStaticAvailability(true).Available(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, _ = NewStaticAvailability(false).Available(context.Background())
	assert.False(t, ok)
}
