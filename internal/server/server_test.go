package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/trigger"
)

type fakeInvoker struct {
	calls int
	rec   model.Record
	res   trigger.Result
	err   error
}

func (f *fakeInvoker) Invoke(_ context.Context, _ model.Settings, rec model.Record) (trigger.Result, error) {
	f.calls++
	f.rec = rec
	return f.res, f.err
}

func newTestServer(token string, inv *fakeInvoker) *Server {
	cfg := model.DefaultAppConfig()
	settings := func() (model.Settings, error) {
		return model.NewSettings(cfg, model.Secrets{GitHubPAT: "ghp_test"}), nil
	}
	return New(cfg.Server, cfg.Trigger, token, inv, settings, nil)
}

func postEvent(t *testing.T, s *Server, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/ritm", &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func qualifyingEvent() trigger.Event {
	return trigger.Event{
		Current: trigger.Snapshot{
			SysID: "sys1", Number: "RITM0010001", State: "3",
			CatalogItem: "Start Research Computing",
		},
		Previous: &trigger.PriorSnapshot{
			SysID: "sys1", Number: "RITM0010001", State: "1",
			CatalogItem: "Start Research Computing",
		},
	}
}

func TestRecordEvent_Qualifying(t *testing.T) {
	inv := &fakeInvoker{res: trigger.Result{
		InvocationID: "inv-1",
		Archetype:    model.ArchetypeStandardResearch,
		Dispatched:   true,
		Outcome:      model.Outcome{Status: 204},
	}}
	s := newTestServer("", inv)

	rec := postEvent(t, s, "", qualifyingEvent())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Invoked)
	assert.True(t, resp.Success)
	assert.Equal(t, 204, resp.Status)
	assert.Equal(t, "standard_research", resp.Archetype)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, "RITM0010001", inv.rec.Number)
}

func TestRecordEvent_NotQualifying(t *testing.T) {
	inv := &fakeInvoker{}
	s := newTestServer("", inv)

	ev := qualifyingEvent()
	ev.Previous.State = "3"
	rec := postEvent(t, s, "", ev)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"invoked":false}`, rec.Body.String())
	assert.Zero(t, inv.calls)
}

func TestRecordEvent_PreviousWithStateOnly(t *testing.T) {
	inv := &fakeInvoker{res: trigger.Result{Dispatched: true, Outcome: model.Outcome{Status: 204}}}
	s := newTestServer("", inv)

	rec := postEvent(t, s, "", map[string]interface{}{
		"current": map[string]string{
			"sys_id": "sys1", "number": "RITM0010001", "state": "3",
			"catalog_item": "Start Research Computing",
		},
		"previous": map[string]string{"state": "1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inv.calls)
}

func TestRecordEvent_Token(t *testing.T) {
	inv := &fakeInvoker{res: trigger.Result{Dispatched: true, Outcome: model.Outcome{Status: 204}}}
	s := newTestServer("s3cret", inv)

	assert.Equal(t, http.StatusUnauthorized, postEvent(t, s, "", qualifyingEvent()).Code)
	assert.Equal(t, http.StatusUnauthorized, postEvent(t, s, "wrong", qualifyingEvent()).Code)
	assert.Zero(t, inv.calls)

	assert.Equal(t, http.StatusOK, postEvent(t, s, "s3cret", qualifyingEvent()).Code)
	assert.Equal(t, 1, inv.calls)
}

func TestRecordEvent_BadRequests(t *testing.T) {
	inv := &fakeInvoker{}
	s := newTestServer("", inv)

	assert.Equal(t, http.StatusBadRequest, postEvent(t, s, "", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, postEvent(t, s, "", trigger.Event{}).Code)
	assert.Equal(t, http.StatusBadRequest, postEvent(t, s, "", trigger.Event{
		Current: trigger.Snapshot{State: "3", CatalogItem: "Start Research Computing"},
	}).Code)
	assert.Zero(t, inv.calls)
}

func TestRecordEvent_WriteBackFailure(t *testing.T) {
	inv := &fakeInvoker{
		res: trigger.Result{Dispatched: true, Outcome: model.Outcome{Status: 204}},
		err: errors.New("writing outcome to RITM0010001: 503"),
	}
	s := newTestServer("", inv)

	rec := postEvent(t, s, "", qualifyingEvent())
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Dispatched)
	assert.Contains(t, resp.Error, "503")
}

func TestRecordEvent_SettingsFailure(t *testing.T) {
	inv := &fakeInvoker{}
	cfg := model.DefaultAppConfig()
	s := New(cfg.Server, cfg.Trigger, "", inv, func() (model.Settings, error) {
		return model.Settings{}, errors.New("keyring locked")
	}, nil)

	rec := postEvent(t, s, "", qualifyingEvent())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, inv.calls)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer("s3cret", &fakeInvoker{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
