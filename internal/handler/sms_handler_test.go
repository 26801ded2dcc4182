package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, f *fixture, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, f *fixture, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func webhookReply(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, "webhook must always answer 200")
	var body struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	return body.Reply
}

func TestWebhookJSONFormat(t *testing.T) {
	f := newFixture(t)

	reply := webhookReply(t, postJSON(t, f, "/sms_webhook", map[string]string{
		"phone": "9999900000", "msg": "REGISTER Rohit Auto",
	}))
	assert.Contains(t, reply, "Welcome Rohit")

	d, err := f.drivers.GetByPhone("9999900000")
	require.NoError(t, err)
	assert.Equal(t, "Auto", d.VehicleType)
}

func TestWebhookCarrierFormFormat(t *testing.T) {
	f := newFixture(t)
	f.seedDriver(t, "Rohit", "9999900000", "Auto", "Main Gate", time.Now().UTC())

	reply := webhookReply(t, postForm(t, f, "/api/sms/webhook", url.Values{
		"From": {"+91 99999 00000"},
		"Body": {"ON Hall 1"},
	}))
	assert.Equal(t, "Location updated to HALL 1", reply)
}

func TestWebhookFormAliasKeys(t *testing.T) {
	f := newFixture(t)
	f.seedDriver(t, "Rohit", "9999900000", "Auto", "Main Gate", time.Now().UTC())

	reply := webhookReply(t, postForm(t, f, "/sms_webhook", url.Values{
		"phone": {"9999900000"},
		"msg":   {"OFF"},
	}))
	assert.Equal(t, "You are now offline. Bye!", reply)
}

func TestWebhookUnknownSender(t *testing.T) {
	f := newFixture(t)

	reply := webhookReply(t, postJSON(t, f, "/sms_webhook", map[string]string{
		"phone": "7777700000", "msg": "hello?",
	}))
	assert.Equal(t, "Not registered. Send 'REGISTER [Name] [Vehicle]' to join.", reply)
}

func TestWebhookBadRegisterStillSuccess(t *testing.T) {
	f := newFixture(t)

	reply := webhookReply(t, postJSON(t, f, "/sms_webhook", map[string]string{
		"phone": "7777700000", "msg": "REGISTER Rohit",
	}))
	assert.Equal(t, "Error. Format: REGISTER [Name] [Vehicle]", reply)
}
