package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

const testToken = "123456:secret-token"

func sampleOrder() *model.Order {
	return &model.Order{
		ID:               7,
		Bread:            2,
		Sweets:           model.Yes,
		Bars:             model.No,
		Choco:            model.Yes,
		Fruits:           model.No,
		Vegetable:        model.No,
		CollegeAvailable: model.Yes,
		Comments:         "no nuts",
		Timestamp:        "2024-03-01T07:30:00.000000",
	}
}

func TestFormatMessage(t *testing.T) {
	want := "New Order:\n" +
		"Bread: 2\n" +
		"Sweets: Yes\n" +
		"Bars: No\n" +
		"Choco: Yes\n" +
		"Fruits: No\n" +
		"Vegetable: No\n" +
		"College Available: Yes\n" +
		"Comments: no nuts\n" +
		"Timestamp: 2024-03-01T07:30:00.000000"

	assert.Equal(t, want, FormatMessage(sampleOrder()))
}

func TestFormatMessage_FlagsAreIndependent(t *testing.T) {
	order := sampleOrder()
	order.Sweets = model.No
	order.Bars = model.Yes
	order.Choco = model.Yes

	msg := FormatMessage(order)

	assert.Contains(t, msg, "Sweets: No\n")
	assert.Contains(t, msg, "Bars: Yes\n")
	assert.Contains(t, msg, "Choco: Yes\n")
}

func TestTelegramNotifier_Notify(t *testing.T) {
	var got sendMessageRequest
	var gotPath, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	n := NewTelegramNotifier(TelegramConfig{
		APIURL:   server.URL + "/",
		BotToken: testToken,
		ChatID:   "-100200",
	}, server.Client(), zaptest.NewLogger(t))

	err := n.Notify(context.Background(), sampleOrder())

	require.NoError(t, err)
	assert.Equal(t, "/bot"+testToken+"/sendMessage", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "-100200", got.ChatID)
	assert.Equal(t, FormatMessage(sampleOrder()), got.Text)
}

func TestTelegramNotifier_NotifyFailures(t *testing.T) {
	testCases := map[string]struct {
		status          int
		body            string
		wantStatus      int
		wantDescription string
	}{
		"unauthorized": {
			status:          http.StatusUnauthorized,
			body:            `{"ok":false,"error_code":401,"description":"Unauthorized"}`,
			wantStatus:      http.StatusUnauthorized,
			wantDescription: "Unauthorized",
		},
		"chat not found": {
			status:          http.StatusBadRequest,
			body:            `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
			wantStatus:      http.StatusBadRequest,
			wantDescription: "Bad Request: chat not found",
		},
		"ok false with 200": {
			status:     http.StatusOK,
			body:       `{"ok":false}`,
			wantStatus: http.StatusOK,
		},
		"gateway error without json": {
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			n := NewTelegramNotifier(TelegramConfig{
				APIURL:   server.URL,
				BotToken: testToken,
				ChatID:   "1",
			}, server.Client(), zaptest.NewLogger(t))

			err := n.Notify(context.Background(), sampleOrder())

			var deliveryErr *DeliveryError
			require.ErrorAs(t, err, &deliveryErr)
			assert.Equal(t, tc.wantStatus, deliveryErr.StatusCode)
			assert.Equal(t, tc.wantDescription, deliveryErr.Description)
		})
	}
}

func TestTelegramNotifier_UnreachableDoesNotLeakToken(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	n := NewTelegramNotifier(TelegramConfig{
		APIURL:   url,
		BotToken: testToken,
		ChatID:   "1",
	}, &http.Client{Timeout: time.Second}, zaptest.NewLogger(t))

	err := n.Notify(context.Background(), sampleOrder())

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.False(t, strings.Contains(err.Error(), testToken), "error leaks bot token: %v", err)
}

func TestTelegramNotifier_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	n := NewTelegramNotifier(TelegramConfig{
		APIURL:   server.URL,
		BotToken: testToken,
		ChatID:   "1",
	}, server.Client(), zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := n.Notify(ctx, sampleOrder())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNopNotifier(t *testing.T) {
	n := NewNopNotifier(zaptest.NewLogger(t))

	assert.NoError(t, n.Notify(context.Background(), sampleOrder()))
}
