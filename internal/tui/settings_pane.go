package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/geoflow/internal/config"
)

// SettingsPaneModel manages the settings form overlay.
type SettingsPaneModel struct {
	form        *huh.Form
	config      *config.Config
	savePath    string // "global" or "project"
	globalPath  string
	projectPath string
	width       int
	height      int
	visible     bool
	saved       bool
	err         error

	saveTarget     string
	workers        string
	postgresHost   string
	postgresPort   string
	postgresDB     string
	highwaySource  string
	skipStrategy   string
}

// NewSettingsPaneModel creates a new settings pane.
func NewSettingsPaneModel(cfg *config.Config, globalPath, projectPath string) SettingsPaneModel {
	defaultPG := cfg.Postgres["default"]

	m := SettingsPaneModel{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,
		visible:     false,
		saved:       false,

		saveTarget:    "global",
		workers:       strconv.Itoa(cfg.Pool.Workers),
		postgresHost:  defaultPG.Host,
		postgresPort:  strconv.Itoa(defaultPG.Port),
		postgresDB:    defaultPG.Database,
		highwaySource: cfg.Osm.SourceTable,
		skipStrategy:  cfg.Routing.SkipStrategy,
	}

	m.buildForm()
	return m
}

// buildForm constructs the Huh form with all settings fields.
func (m *SettingsPaneModel) buildForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("saveTarget").
				Title("Save To").
				Options(
					huh.NewOption("Global (~/.geoflow/config.json)", "global"),
					huh.NewOption("Project (.geoflow/config.json)", "project"),
				).
				Value(&m.saveTarget),
		).Title("Save Target"),

		huh.NewGroup(
			huh.NewInput().
				Key("workers").
				Title("Pool Workers").
				Value(&m.workers).
				Placeholder("4"),
		).Title("Pool"),

		huh.NewGroup(
			huh.NewInput().
				Key("postgresHost").
				Title("Postgres Host").
				Value(&m.postgresHost).
				Placeholder("localhost"),

			huh.NewInput().
				Key("postgresPort").
				Title("Postgres Port").
				Value(&m.postgresPort).
				Placeholder("5432"),

			huh.NewInput().
				Key("postgresDB").
				Title("Postgres Database").
				Value(&m.postgresDB).
				Placeholder("osm"),
		).Title("Postgres (default connection)"),

		huh.NewGroup(
			huh.NewInput().
				Key("highwaySource").
				Title("OSM Source Table").
				Value(&m.highwaySource).
				Placeholder("planet_osm_line"),

			huh.NewSelect[string]().
				Key("skipStrategy").
				Title("Routing Skip Strategy").
				Options(
					huh.NewOption("Nearest", "nearest"),
					huh.NewOption("Furthest", "furthest"),
				).
				Value(&m.skipStrategy),
		).Title("OSM / Routing"),
	)
}

// Init initializes the settings pane.
func (m SettingsPaneModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the settings pane.
func (m SettingsPaneModel) Update(msg tea.Msg) (SettingsPaneModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.visible = false
			m.saved = false
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if err := m.applyFormToConfig(); err != nil {
			m.err = err
			m.saved = false
			return m, cmd
		}

		targetPath := m.globalPath
		if m.saveTarget == "project" {
			targetPath = m.projectPath
		}

		if err := config.Save(m.config, targetPath); err != nil {
			m.err = err
			m.saved = false
		} else {
			m.saved = true
			m.err = nil
		}

		if m.saved {
			m.visible = false
		}
	}

	return m, cmd
}

// applyFormToConfig copies form field values back to the config struct.
func (m *SettingsPaneModel) applyFormToConfig() error {
	workers, err := strconv.Atoi(m.workers)
	if err != nil {
		return fmt.Errorf("invalid worker count %q: %w", m.workers, err)
	}
	port, err := strconv.Atoi(m.postgresPort)
	if err != nil {
		return fmt.Errorf("invalid postgres port %q: %w", m.postgresPort, err)
	}

	m.config.Pool.Workers = workers

	defaultPG := m.config.Postgres["default"]
	defaultPG.Host = m.postgresHost
	defaultPG.Port = port
	defaultPG.Database = m.postgresDB
	m.config.Postgres["default"] = defaultPG

	m.config.Osm.SourceTable = m.highwaySource
	m.config.Routing.SkipStrategy = m.skipStrategy

	return nil
}

// View renders the settings pane.
func (m SettingsPaneModel) View() string {
	if !m.visible {
		return ""
	}

	var content string

	if m.saved && m.form.State == huh.StateCompleted {
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true).
			Render("✓ Settings saved successfully!")
	} else if m.err != nil {
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true).
			Render(fmt.Sprintf("✗ Error saving: %v", m.err))
	} else {
		content = m.form.View()
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(m.width - 4).
		Height(m.height - 4)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render("⚙ Settings")

	body := style.Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

// SetSize updates the dimensions of the settings pane.
func (m *SettingsPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.form != nil {
		m.form.WithWidth(w - 8).WithHeight(h - 8)
	}
}

// SetVisible shows or hides the settings pane.
func (m *SettingsPaneModel) SetVisible(v bool) {
	m.visible = v
	m.saved = false
	m.err = nil

	if v && m.form != nil {
		m.buildForm()
	}
}

// IsVisible returns whether the settings pane is currently visible.
func (m SettingsPaneModel) IsVisible() bool {
	return m.visible
}
