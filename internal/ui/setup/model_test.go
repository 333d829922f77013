package setup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/credential"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/keys"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
)

type fakeSecrets struct {
	values map[string]string
	err    error
}

func (f *fakeSecrets) Set(key, value string) error {
	if f.err != nil {
		return f.err
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

type fakeChecker struct {
	settings model.Settings
	name     string
	err      error
}

func (f *fakeChecker) ValidateConnection(_ context.Context, settings model.Settings) (string, error) {
	f.settings = settings
	return f.name, f.err
}

func newTestModel(t *testing.T, existing model.Secrets, secrets *fakeSecrets, checker *fakeChecker) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	return New(model.DefaultAppConfig(), path, existing, secrets, checker, keys.DefaultKeyMap())
}

func TestApplyServiceNow(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{}, &fakeChecker{})
	m.values.owner = " umich-arc "
	m.values.instanceURL = "https://umich.service-now.com"
	m.values.username = "svc-provtrigger"
	m.values.sqlitePath = "/tmp/ignored.db"

	cfg := m.values.apply(m.cfg)

	assert.Equal(t, "umich-arc", cfg.GitHub.Owner)
	assert.Equal(t, "https://umich.service-now.com", cfg.ServiceNow.InstanceURL)
	assert.Equal(t, "svc-provtrigger", cfg.ServiceNow.Username)
	assert.Equal(t, model.DefaultSQLitePath(), cfg.RecordStore.SQLitePath)
	assert.Equal(t, "your-org", m.cfg.GitHub.Owner, "base config must not change")
}

func TestApplySQLite(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{}, &fakeChecker{})
	m.values.backend = model.BackendSQLite
	m.values.sqlitePath = "/var/lib/provtrigger/records.db"
	m.values.instanceURL = "https://ignored.example.com"

	cfg := m.values.apply(m.cfg)

	assert.Equal(t, model.BackendSQLite, cfg.RecordStore.Backend)
	assert.Equal(t, "/var/lib/provtrigger/records.db", cfg.RecordStore.SQLitePath)
	assert.Empty(t, cfg.ServiceNow.InstanceURL)
}

func TestSaveWritesConfigAndSecrets(t *testing.T) {
	secrets := &fakeSecrets{}
	checker := &fakeChecker{name: "umich-arc/umm-cloud-provisioning"}
	m := newTestModel(t, model.Secrets{}, secrets, checker)
	m.values.owner = "umich-arc"
	m.values.pat = "ghp_new"
	m.values.webhookToken = "hook"
	m.values.password = "pw"

	msg := m.save()()

	res, ok := msg.(ResultMsg)
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "umich-arc/umm-cloud-provisioning", res.Repository)

	assert.Equal(t, map[string]string{
		credential.KeyGitHubPAT:          "ghp_new",
		credential.KeyWebhookToken:       "hook",
		credential.KeyServiceNowPassword: "pw",
	}, secrets.values)
	assert.Equal(t, "ghp_new", checker.settings.PAT)
	assert.Equal(t, "umich-arc", checker.settings.Owner)

	saved, err := model.LoadConfig(m.configPath)
	require.NoError(t, err)
	assert.Equal(t, "umich-arc", saved.GitHub.Owner)
}

func TestSaveKeepsExistingPAT(t *testing.T) {
	secrets := &fakeSecrets{}
	checker := &fakeChecker{}
	m := newTestModel(t, model.Secrets{GitHubPAT: "ghp_stored"}, secrets, checker)

	res := m.save()().(ResultMsg)

	require.NoError(t, res.Err)
	assert.Empty(t, secrets.values)
	assert.Equal(t, "ghp_stored", checker.settings.PAT)
}

func TestSaveReportsSecretFailure(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{err: errors.New("locked")}, &fakeChecker{})
	m.values.pat = "ghp_new"

	res := m.save()().(ResultMsg)

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "locked")
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{}, &fakeChecker{})
	m.values.apiBaseURL = "not a url"

	res := m.save()().(ResultMsg)

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "invalid settings")
}

func TestResultFlow(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{}, &fakeChecker{})
	m.mode = ModeValidating

	next, _ := m.Update(ResultMsg{Err: errors.New("bad credentials")})
	m = next.(Model)
	assert.Equal(t, ModeResult, m.mode)
	assert.Contains(t, m.View(), "Connection failed")
	assert.Contains(t, m.View(), "bad credentials")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	assert.Equal(t, ModeValidating, m.mode)
	assert.NotNil(t, cmd)

	next, _ = m.Update(ResultMsg{Repository: "your-org/umm-cloud-provisioning"})
	m = next.(Model)
	assert.Contains(t, m.View(), "Connection successful")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "your-org/umm-cloud-provisioning", m.Result().Repository)
}

func TestRetryIgnoredAfterSuccess(t *testing.T) {
	m := newTestModel(t, model.Secrets{}, &fakeSecrets{}, &fakeChecker{})
	m.mode = ModeResult

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	assert.Nil(t, cmd)
	assert.Equal(t, ModeResult, next.(Model).mode)
}

func TestValidators(t *testing.T) {
	assert.Error(t, validateRequired("Owner")("  "))
	assert.NoError(t, validateRequired("Owner")("x"))
	assert.Error(t, validateURL(""))
	assert.Error(t, validateURL("api.github.com"))
	assert.NoError(t, validateURL("https://api.github.com"))
	assert.Error(t, validateSecret("Token", "")(""))
	assert.NoError(t, validateSecret("Token", "stored")(""))
}
