package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmops/mrep/backend-go/internal/config"
)

func testSender(cfg config.WhatsAppConfig, baseURL string) *WhatsAppSender {
	s := NewWhatsAppSender(cfg)
	s.baseURL = baseURL
	return s
}

func TestWhatsAppSendDeliversToAll(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155550100", r.Form.Get("From"))
		assert.Contains(t, r.Form.Get("To"), "whatsapp:")
		assert.Equal(t, "hello", r.Form.Get("Body"))

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := testSender(config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155550100",
		To:         []string{"+923001234567", "whatsapp:+923007654321"},
		MaxRetries: 1,
	}, srv.URL)

	require.NoError(t, s.Send(context.Background(), "hello"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWhatsAppSendFailsWhenAllRecipientsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream error", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := testSender(config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155550100",
		To:         []string{"+923001234567"},
		MaxRetries: 1,
	}, srv.URL)

	err := s.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 recipients")
}

func TestWhatsAppSendPartialFailureIsOK(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "nope", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := testSender(config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155550100",
		To:         []string{"+923001111111", "+923002222222"},
		MaxRetries: 1,
	}, srv.URL)

	assert.NoError(t, s.Send(context.Background(), "hello"))
}

func TestWhatsAppSendUnconfigured(t *testing.T) {
	s := NewWhatsAppSender(config.WhatsAppConfig{})
	assert.Error(t, s.Send(context.Background(), "hello"))
}

func TestWhatsappAddr(t *testing.T) {
	assert.Equal(t, "whatsapp:+123", whatsappAddr("+123"))
	assert.Equal(t, "whatsapp:+123", whatsappAddr("whatsapp:+123"))
}
