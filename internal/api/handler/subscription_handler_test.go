package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wis2kit/downloader/internal/queue"
	"github.com/wis2kit/downloader/internal/subscription"
)

type fakeTransport struct {
	subscribes   []string
	unsubscribes []string
}

func (f *fakeTransport) Subscribe(topic string) error {
	f.subscribes = append(f.subscribes, topic)
	return nil
}

func (f *fakeTransport) Unsubscribe(topic string) error {
	f.unsubscribes = append(f.unsubscribes, topic)
	return nil
}

func newTestRouter(transport *fakeTransport) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := &Dependencies{
		Logger:        logger,
		Subscriptions: subscription.NewService(subscription.NewTable(), transport, "/data", logger),
		Queue:         queue.New(),
	}

	h := NewSubscriptionHandler(deps)

	r := gin.New()
	r.GET("/wis2/subscriptions/list", h.List)
	r.GET("/wis2/subscriptions/add", h.Add)
	r.GET("/wis2/subscriptions/delete", h.Delete)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSubscriptionHandler_Add(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRouter(transport)

	w, body := doRequest(t, r, "/wis2/subscriptions/add?topic=a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"a": "/data"}, body)

	// Adding the same topic again returns the same mapping and issues
	// no second transport subscribe.
	w, body = doRequest(t, r, "/wis2/subscriptions/add?topic=a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"a": "/data"}, body)
	assert.Equal(t, []string{"a"}, transport.subscribes)
}

func TestSubscriptionHandler_AddMissingTopic(t *testing.T) {
	r := newTestRouter(&fakeTransport{})

	w, body := doRequest(t, r, "/wis2/subscriptions/add")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No topic passed", body["error"])
}

func TestSubscriptionHandler_Delete(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRouter(transport)

	doRequest(t, r, "/wis2/subscriptions/add?topic=a")

	w, body := doRequest(t, r, "/wis2/subscriptions/delete?topic=a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body)
	assert.Equal(t, []string{"a"}, transport.unsubscribes)
}

func TestSubscriptionHandler_DeleteUnknownTopic(t *testing.T) {
	transport := &fakeTransport{}
	r := newTestRouter(transport)

	// Unknown topic: transport unsubscribe is still attempted and the
	// response reports not found without an error status.
	w, body := doRequest(t, r, "/wis2/subscriptions/delete?topic=ghost")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Topic not found", body["message"])
	assert.Equal(t, []string{"ghost"}, transport.unsubscribes)
}

func TestSubscriptionHandler_DeleteMissingTopic(t *testing.T) {
	r := newTestRouter(&fakeTransport{})

	w, body := doRequest(t, r, "/wis2/subscriptions/delete")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No topic passed", body["error"])
}

func TestSubscriptionHandler_List(t *testing.T) {
	r := newTestRouter(&fakeTransport{})

	w, body := doRequest(t, r, "/wis2/subscriptions/list")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body)

	doRequest(t, r, "/wis2/subscriptions/add?topic=a")
	doRequest(t, r, "/wis2/subscriptions/add?topic=b")

	w, body = doRequest(t, r, "/wis2/subscriptions/list")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"a": "/data", "b": "/data"}, body)
}
