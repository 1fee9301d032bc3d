package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformhttp "skateswap/internal/platform/http"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"valid", Message{To: "a@x.com", Subject: "s", HTMLBody: "<p>b</p>"}, false},
		{"missing recipient", Message{Subject: "s", HTMLBody: "b"}, true},
		{"blank subject", Message{To: "a@x.com", Subject: " ", HTMLBody: "b"}, true},
		{"missing body", Message{To: "a@x.com", Subject: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkSender_Config(t *testing.T) {
	t.Parallel()

	_, err := NewPostmarkSender(Config{From: "a@x.com"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPostmarkSender(Config{PostmarkServerToken: "tok"}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewPostmarkSender(Config{PostmarkServerToken: "tok", From: "a@x.com"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.client.HTTPClient)
}

// newPostmarkServer fakes the /email endpoint and records the decoded request.
func newPostmarkServer(t *testing.T, status int, body map[string]any, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "server-token", r.Header.Get("X-Postmark-Server-Token"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPostmarkSender_Send(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := newPostmarkServer(t, http.StatusOK, map[string]any{"ErrorCode": 0, "Message": "OK", "MessageID": "m-1"}, &got)

	s, err := NewPostmarkSender(Config{
		PostmarkServerToken: "server-token",
		From:                "no-reply@skateswap.test",
		ReplyTo:             "support@skateswap.test",
	}, platformhttp.NewHTTPClient(5*time.Second))
	require.NoError(t, err)
	s.client.BaseURL = srv.URL

	err = s.Send(context.Background(), Message{To: "ann@x.com", Subject: "Hi", HTMLBody: "<p>hi</p>", Tag: "t"})
	require.NoError(t, err)

	assert.Equal(t, "no-reply@skateswap.test", got["From"])
	assert.Equal(t, "support@skateswap.test", got["ReplyTo"])
	assert.Equal(t, "ann@x.com", got["To"])
	assert.Equal(t, "<p>hi</p>", got["HtmlBody"])
}

func TestPostmarkSender_Send_APIError(t *testing.T) {
	t.Parallel()

	srv := newPostmarkServer(t, http.StatusOK, map[string]any{"ErrorCode": 406, "Message": "Inactive recipient"}, nil)

	s, err := NewPostmarkSender(Config{PostmarkServerToken: "server-token", From: "a@x.com"}, nil)
	require.NoError(t, err)
	s.client.BaseURL = srv.URL

	err = s.Send(context.Background(), Message{To: "ann@x.com", Subject: "Hi", HTMLBody: "<p>hi</p>"})
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "406")
}

func TestPostmarkSender_Send_InvalidMessage(t *testing.T) {
	t.Parallel()

	s, err := NewPostmarkSender(Config{PostmarkServerToken: "server-token", From: "a@x.com"}, nil)
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{Subject: "Hi", HTMLBody: "b"})
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestLogSender_Send(t *testing.T) {
	t.Parallel()

	s := NewLogSender()
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@x.com", Subject: "s", HTMLBody: "b"}))
	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrInvalidParams)
}
