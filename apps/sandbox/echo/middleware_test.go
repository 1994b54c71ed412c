package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_requestIDMiddleware(t *testing.T) {
	app, _ := setup(t)

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "absent", header: "", keep: false},
		{name: "valid", header: "req-42", keep: true},
		{name: "unsafe", header: "bad id\n<script>", keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/")
			if tt.header != "" {
				req.Header.Set(requestIDHeader, tt.header)
			}
			app.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			if tt.keep {
				assert.Equal(t, tt.header, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func Test_loginLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l := newLoginLimiter(1, 2)

	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now), "burst exhausted")
	assert.True(t, l.allow("10.0.0.2", now), "limits are per client")
	assert.True(t, l.allow("10.0.0.1", now.Add(time.Second)), "tokens refill")

	l.allow("10.0.0.3", now.Add(limiterIdleTTL+2*time.Second))
	assert.NotContains(t, l.visitors, "10.0.0.2", "idle clients are forgotten")
	assert.Contains(t, l.visitors, "10.0.0.3")
}

func Test_loginLimiter_disabled(t *testing.T) {
	l := newLoginLimiter(0, 1)
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.True(t, l.allow("10.0.0.1", now))
	}
}
