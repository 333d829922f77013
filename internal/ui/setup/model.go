// Package setup is the interactive configure wizard.
package setup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/credential"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/keys"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/theme"
)

// Mode represents the current state of the wizard.
type Mode int

const (
	ModeForm       Mode = iota // Editing settings
	ModeValidating             // Saving and testing the dispatch target
	ModeResult                 // Showing the validation result
)

// SecretWriter persists credentials outside the config file.
type SecretWriter interface {
	Set(key string, value string) error
}

// ConnectionChecker verifies that the dispatch target is reachable with
// the configured token.
type ConnectionChecker interface {
	ValidateConnection(ctx context.Context, settings model.Settings) (string, error)
}

// ResultMsg carries the outcome of saving and validating.
type ResultMsg struct {
	Repository string
	Err        error
}

// Result is what the wizard leaves behind when the program exits.
type Result struct {
	Config     *model.AppConfig
	Repository string
	Err        error
	Aborted    bool
}

// formValues lives on the heap so the form keeps valid pointers while
// the Model is copied through Update.
type formValues struct {
	owner        string
	repo         string
	apiBaseURL   string
	pat          string
	backend      string
	instanceURL  string
	username     string
	password     string
	sqlitePath   string
	webhookToken string
}

// Model is the Bubble Tea model for the configure wizard.
type Model struct {
	mode       Mode
	cfg        *model.AppConfig
	configPath string
	existing   model.Secrets
	secrets    SecretWriter
	checker    ConnectionChecker

	values  *formValues
	form    *huh.Form
	spinner spinner.Model
	help    help.Model
	keys    *keys.KeyMap

	result  ResultMsg
	aborted bool

	width, height int
}

// New creates the wizard prefilled from cfg. Stored secrets are never
// shown; leaving a secret field empty keeps the existing value.
func New(
	cfg *model.AppConfig,
	configPath string,
	existing model.Secrets,
	secrets SecretWriter,
	checker ConnectionChecker,
	k *keys.KeyMap,
) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		mode:       ModeForm,
		cfg:        cfg,
		configPath: configPath,
		existing:   existing,
		secrets:    secrets,
		checker:    checker,
		values: &formValues{
			owner:       cfg.GitHub.Owner,
			repo:        cfg.GitHub.Repo,
			apiBaseURL:  cfg.GitHub.APIBaseURL,
			backend:     cfg.RecordStore.Backend,
			instanceURL: cfg.ServiceNow.InstanceURL,
			username:    cfg.ServiceNow.Username,
			sqlitePath:  cfg.RecordStore.SQLitePath,
		},
		spinner: sp,
		help:    help.New(),
		keys:    k,
		width:   80,
		height:  24,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		return m, nil

	case ResultMsg:
		m.result = msg
		m.mode = ModeResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeResult:
			return m.handleResultKeys(msg)
		case ModeValidating:
			if msg.String() == "ctrl+c" {
				m.aborted = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.mode == ModeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Retry):
		if m.result.Err == nil {
			return m, nil
		}
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.save())
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.mode = ModeValidating
		return m, tea.Batch(m.spinner.Tick, m.save())
	case huh.StateAborted:
		m.aborted = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) buildForm() *huh.Form {
	v := m.values
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub owner").
				Description("Organization that owns the provisioning repository").
				Value(&v.owner).
				Validate(validateRequired("Owner")),
			huh.NewInput().
				Title("GitHub repository").
				Description("Repository whose workflows receive the dispatch").
				Value(&v.repo).
				Validate(validateRequired("Repository")),
			huh.NewInput().
				Title("API base URL").
				Placeholder("https://api.github.com").
				Value(&v.apiBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Personal Access Token").
				Description(secretHint(m.existing.GitHubPAT, "Token with repo scope")).
				EchoMode(huh.EchoModePassword).
				Value(&v.pat).
				Validate(validateSecret("Token", m.existing.GitHubPAT)),
			huh.NewInput().
				Title("Webhook token").
				Description(secretHint(m.existing.WebhookToken, "Shared secret for the event listener")).
				EchoMode(huh.EchoModePassword).
				Value(&v.webhookToken),
			huh.NewSelect[string]().
				Title("Record store").
				Description("Where requested items are read and work notes written").
				Options(
					huh.NewOption("ServiceNow Table API", model.BackendServiceNow),
					huh.NewOption("Local SQLite mirror", model.BackendSQLite),
				).
				Value(&v.backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Instance URL").
				Placeholder("https://umich.service-now.com").
				Value(&v.instanceURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Username").
				Description("Integration account for Basic authentication").
				Value(&v.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Description(secretHint(m.existing.ServiceNowPassword, "Integration account password")).
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(validateSecret("Password", m.existing.ServiceNowPassword)),
		).WithHideFunc(func() bool { return v.backend != model.BackendServiceNow }),
		huh.NewGroup(
			huh.NewInput().
				Title("SQLite path").
				Value(&v.sqlitePath).
				Validate(validateRequired("Path")),
		).WithHideFunc(func() bool { return v.backend != model.BackendSQLite }),
	).WithWidth(m.formWidth())
}

// apply returns a copy of base with the form values written over it.
func (v *formValues) apply(base *model.AppConfig) *model.AppConfig {
	cfg := *base
	cfg.Trigger.CatalogItems = append([]string(nil), base.Trigger.CatalogItems...)

	cfg.GitHub.Owner = strings.TrimSpace(v.owner)
	cfg.GitHub.Repo = strings.TrimSpace(v.repo)
	cfg.GitHub.APIBaseURL = strings.TrimSpace(v.apiBaseURL)
	cfg.RecordStore.Backend = v.backend

	switch v.backend {
	case model.BackendServiceNow:
		cfg.ServiceNow.InstanceURL = strings.TrimSpace(v.instanceURL)
		cfg.ServiceNow.Username = strings.TrimSpace(v.username)
	case model.BackendSQLite:
		cfg.RecordStore.SQLitePath = strings.TrimSpace(v.sqlitePath)
	}
	return &cfg
}

// save writes the config file and secrets, then validates the dispatch
// target with the resulting settings.
func (m Model) save() tea.Cmd {
	cfg := m.values.apply(m.cfg)
	v := *m.values
	path := m.configPath
	existing := m.existing
	secrets := m.secrets
	checker := m.checker

	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return ResultMsg{Err: fmt.Errorf("invalid settings: %w", err)}
		}
		if err := model.SaveConfig(path, cfg); err != nil {
			return ResultMsg{Err: err}
		}

		pat := existing.GitHubPAT
		for _, s := range []struct {
			key   string
			value string
		}{
			{credential.KeyGitHubPAT, v.pat},
			{credential.KeyServiceNowPassword, v.password},
			{credential.KeyWebhookToken, v.webhookToken},
		} {
			if s.value == "" {
				continue
			}
			if err := secrets.Set(s.key, s.value); err != nil {
				return ResultMsg{Err: fmt.Errorf("config saved but storing %s failed: %w", s.key, err)}
			}
			if s.key == credential.KeyGitHubPAT {
				pat = s.value
			}
		}

		settings := model.NewSettings(cfg, model.Secrets{GitHubPAT: pat})
		name, err := checker.ValidateConnection(context.Background(), settings)
		return ResultMsg{Repository: name, Err: err}
	}
}

// View renders the wizard based on the current mode.
func (m Model) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	switch m.mode {
	case ModeValidating:
		return style.Render(fmt.Sprintf(
			"%s Saving and testing the dispatch target...", m.spinner.View(),
		))
	case ModeResult:
		return style.Render(m.viewResult())
	default:
		return style.Render(m.form.View())
	}
}

func (m Model) viewResult() string {
	var content string
	if m.result.Err != nil {
		content = theme.OutcomeStyle(false).Render("Connection failed") + "\n\n" +
			m.result.Err.Error()
	} else {
		content = theme.OutcomeStyle(true).Render("Connection successful") + "\n\n" +
			fmt.Sprintf("Dispatch target: %s", m.result.Repository) + "\n" +
			fmt.Sprintf("Config written to %s", m.configPath)
	}
	return content + "\n\n" + m.help.View(m.keys)
}

// Result reports what the wizard did.
func (m Model) Result() Result {
	return Result{
		Config:     m.values.apply(m.cfg),
		Repository: m.result.Repository,
		Err:        m.result.Err,
		Aborted:    m.aborted,
	}
}

// Run shows the wizard in the alternate screen until the user leaves it.
func Run(ctx context.Context, m Model) (Result, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Result{}, fmt.Errorf("running configure wizard: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected wizard model %T", final)
	}
	return fm.Result(), nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func secretHint(existing, hint string) string {
	if existing != "" {
		return hint + " (leave empty to keep the stored value)"
	}
	return hint
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateSecret(fieldName, existing string) func(string) error {
	if existing != "" {
		return func(string) error { return nil }
	}
	return validateRequired(fieldName)
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
