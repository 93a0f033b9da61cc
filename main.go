package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/glance/internal/config"
	"github.com/llehouerou/glance/internal/diskcache"
	"github.com/llehouerou/glance/internal/engine"
	"github.com/llehouerou/glance/internal/errmsg"
	"github.com/llehouerou/glance/internal/fetch"
	"github.com/llehouerou/glance/internal/logging"
	"github.com/llehouerou/glance/internal/memcache"
	"github.com/llehouerou/glance/internal/state"
	"github.com/llehouerou/glance/internal/ui"
	"github.com/llehouerou/glance/internal/ui/gallery"
	"github.com/llehouerou/glance/internal/ui/picture"
	"github.com/llehouerou/glance/internal/ui/statusbar"
	"github.com/llehouerou/glance/internal/ui/styles"
	"github.com/llehouerou/glance/internal/ui/termimg"
)

type model struct {
	gallery  gallery.Model
	picture  picture.Model
	status   statusbar.Model
	stateMgr *state.Manager
	disk     *diskcache.Cache
	width    int
	height   int

	// urlSource is set while the picture pane shows a URL passed on the
	// command line instead of the gallery selection.
	urlSource string
}

// openURLMsg tells the app to display the given URL in the picture pane.
type openURLMsg string

// startTarget is where the viewer opens: a folder for the gallery, an
// entry to focus in it, and optionally a URL to display straight away.
type startTarget struct {
	dir      string
	focus    string
	sortMode string
	url      string
}

// resolveStart turns the command line argument, the saved navigation
// state, and the configured default folder into the viewer's starting
// point. An explicit path argument beats the saved state; saved state
// beats the config default; the working directory is the last resort.
func resolveStart(arg string, nav *state.NavigationState, defaultFolder string) (startTarget, error) {
	var t startTarget

	if nav != nil {
		if _, err := os.Stat(nav.CurrentPath); err == nil {
			t.dir = nav.CurrentPath
			t.focus = nav.SelectedName
			t.sortMode = nav.SortMode
		}
	}
	if t.dir == "" {
		t.dir = defaultFolder
	}

	switch {
	case arg == "":

	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		t.url = arg

	default:
		info, err := os.Stat(arg)
		if err != nil {
			return startTarget{}, fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpFolderOpen, arg, err))
		}
		if info.IsDir() {
			t.dir = arg
			t.focus = ""
		} else {
			t.dir = filepath.Dir(arg)
			t.focus = filepath.Base(arg)
		}
	}

	if t.dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return startTarget{}, err
		}
		t.dir = cwd
	}

	return t, nil
}

func initialModel(arg string) (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	stateMgr, err := state.Open()
	if err != nil {
		return model{}, fmt.Errorf("%s", errmsg.Format(errmsg.OpStateLoad, err))
	}

	cacheCfg := cfg.GetCacheConfig()
	disk, err := diskcache.Open(cacheCfg.Dir, cacheCfg.DiskBudget())
	if err != nil {
		// The viewer still works without a disk cache, every fetch
		// just goes to the network.
		log.Warn().Err(err).Msg("disk cache unavailable")
		disk = nil
	}

	httpFetcher := fetch.NewHTTPFetcher(fetch.HTTPOptions{
		Client:           &http.Client{Timeout: cfg.HTTPTimeout()},
		Cache:            disk,
		UserAgent:        cfg.HTTP.UserAgent,
		SkipRevalidation: !cacheCfg.ShouldRevalidate(),
		Log:              log.Logger,
	})
	registry := fetch.NewRegistry(httpFetcher, fetch.NewFileFetcher())

	eng := engine.NewPipeline(engine.PipelineOptions{
		Fetchers: registry,
		Memory:   memcache.New(cacheCfg.MemoryBudget()),
		Log:      log.Logger,
	})

	var nav *state.NavigationState
	if navState, err := stateMgr.GetNavigation(); err == nil {
		nav = navState
	}

	start, err := resolveStart(arg, nav, cfg.DefaultFolder)
	if err != nil {
		stateMgr.Close()
		return model{}, err
	}

	browser, err := gallery.New(start.dir, start.sortMode)
	if err != nil {
		stateMgr.Close()
		return model{}, fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpFolderOpen, start.dir, err))
	}

	if start.focus != "" {
		browser.FocusByName(start.focus)
	}

	m := model{
		gallery:   browser,
		stateMgr:  stateMgr,
		disk:      disk,
		status:    statusbar.New(),
		urlSource: start.url,
	}

	m.picture = picture.New(eng, termimg.ByName(cfg.Protocol), picture.Options{
		Scale: scalePolicy(cfg.ScalePolicy),
	})

	return m, nil
}

func scalePolicy(name string) picture.ScalePolicy {
	switch name {
	case "fill":
		return picture.ScaleFill
	case "stretch":
		return picture.ScaleStretch
	case "none":
		return picture.ScaleNone
	}
	return picture.ScaleFit
}

func (m model) Init() tea.Cmd {
	// The initial load goes through the same message path as later ones
	// so the session lands in the model bubbletea keeps.
	initial := func() tea.Msg {
		if m.urlSource != "" {
			return openURLMsg(m.urlSource)
		}
		return gallery.SelectionChangedMsg{
			CurrentPath:  m.gallery.CurrentPath(),
			SelectedName: m.gallery.SelectedName(),
		}
	}
	return tea.Batch(m.picture.Init(), initial)
}

// browserWidth returns the width of the folder panel.
func (m model) browserWidth() int {
	return m.width / ui.BrowserWidthDivisor
}

func (m model) panelHeight() int {
	return m.height - ui.StatusBarHeight
}

// displayName is what the status bar calls the image on display.
func (m model) displayName() string {
	if m.urlSource != "" {
		return m.urlSource
	}
	return m.gallery.SelectedName()
}

// viewedPath is what goes into the recently-viewed list, empty when the
// display target is not an image.
func (m model) viewedPath() string {
	if m.urlSource != "" {
		return m.urlSource
	}
	if sel := m.gallery.Selected(); sel != nil && !sel.IsDir {
		return sel.Path
	}
	return ""
}

// showSelected points the picture pane at the gallery selection.
func (m *model) showSelected() tea.Cmd {
	sel := m.gallery.Selected()
	if sel == nil || sel.IsDir || !gallery.IsImageFile(sel.Name) {
		return nil
	}

	cmd := m.picture.SetRequest(engine.NewRequest(sel.Path))
	if cmd != nil {
		m.status.SetLoading(sel.Name)
	}
	return cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The picture pane sees every message so that its frame-scoped
	// transmission state stays in step with what View emitted.
	var picCmd tea.Cmd
	m.picture, picCmd = m.picture.Update(msg)
	cmds = append(cmds, picCmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.gallery.SetSize(m.browserWidth(), m.panelHeight())
		m.picture.SetSize(m.width-m.browserWidth()-ui.BorderHeight, m.panelHeight()-ui.BorderHeight)
		m.status.SetSize(m.width, ui.StatusBarHeight)
		if m.disk != nil {
			m.status.SetCacheUsage(m.disk.Usage())
		}
		return m, tea.Batch(cmds...)

	case openURLMsg:
		m.urlSource = string(msg)
		if cmd := m.picture.SetRequest(engine.NewRequest(m.urlSource)); cmd != nil {
			m.status.SetLoading(m.urlSource)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case gallery.SelectionChangedMsg:
		// Browsing the gallery leaves URL mode behind.
		m.urlSource = ""
		m.stateMgr.SaveNavigation(state.NavigationState{
			CurrentPath:  msg.CurrentPath,
			SelectedName: msg.SelectedName,
			SortMode:     m.gallery.SortMode(),
		})
		cmds = append(cmds, m.showSelected())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.picture.Close()
			m.stateMgr.Close()
			if m.disk != nil {
				m.disk.Close()
			}
			return m, tea.Quit

		case "r":
			if cmd := m.picture.Reload(engine.CacheBypass); cmd != nil {
				if name := m.displayName(); name != "" {
					m.status.SetLoading(name)
				}
				cmds = append(cmds, cmd)
			}
		}

		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.Update(msg)
		cmds = append(cmds, cmd)

	case picture.ResultMsg:
		if res := m.picture.Result(); res != nil {
			m.status.SetResult(m.displayName(), res)
			if m.disk != nil {
				m.status.SetCacheUsage(m.disk.Usage())
			}
			if _, ok := res.(engine.Success); ok {
				if viewed := m.viewedPath(); viewed != "" {
					if err := m.stateMgr.AddRecent(viewed); err != nil {
						log.Debug().Err(err).Msg("recent list update failed")
					}
				}
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	paneWidth := m.width - m.browserWidth()
	pane := styles.PanelStyle(false).
		Width(paneWidth - ui.BorderHeight).
		Render(m.picture.View())

	view := lipgloss.JoinHorizontal(lipgloss.Top, m.gallery.View(), pane)
	view += "\n" + m.status.View()

	// Graphics go around the frame: transmits before it (sent once per
	// image), the placement escape after it.
	if transmit := m.picture.TakeTransmit(); transmit != "" {
		view = transmit + view
	}
	view += m.picture.Placement(2, m.browserWidth()+2)

	return view
}

func main() {
	closer := logging.Setup()
	defer closer.Close()

	var arg string
	if len(os.Args) > 1 {
		arg = os.Args[1]
	}

	m, err := initialModel(arg)
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
