package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-helpdesk/internal/config"
)

func TestSendPostsTemplatePayload(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mailer := NewEmailJSMailer(config.NotificationConfig{
		APIURL:         server.URL,
		ServiceID:      "svc_1",
		UserID:         "user_1",
		TimeoutSeconds: 5,
	})

	err := mailer.Send(context.Background(), "tpl_assigned", "staff-a@it-helpdesk.local", map[string]string{
		"ticket_id": "IT2025-0042",
		"status":    "ASSIGNED",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc_1", captured.ServiceID)
	assert.Equal(t, "tpl_assigned", captured.TemplateID)
	assert.Equal(t, "user_1", captured.UserID)
	assert.Equal(t, "staff-a@it-helpdesk.local", captured.TemplateParams["to_email"])
	assert.Equal(t, "IT2025-0042", captured.TemplateParams["ticket_id"])
}

func TestSendReportsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	mailer := NewEmailJSMailer(config.NotificationConfig{APIURL: server.URL, TimeoutSeconds: 5})
	err := mailer.Send(context.Background(), "tpl", "someone@example.com", nil)
	assert.Error(t, err)
}
