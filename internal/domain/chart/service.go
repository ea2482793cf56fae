package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/exchange"
	"github.com/rpggio/ganttline/internal/metrics"
	"github.com/rpggio/ganttline/internal/render"
	"github.com/rpggio/ganttline/internal/repository"
	"github.com/rpggio/ganttline/internal/timeline"
	"golang.org/x/sync/singleflight"
)

// Service owns chart settings and the computed timeline view.
type Service struct {
	charts     Repository
	projects   Projects
	activities activity.Repository
	logger     *slog.Logger

	defaults  Settings
	renderCfg render.Config
	now       func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	views map[string]cachedView
}

type cachedView struct {
	key  viewKey
	view *View
}

// viewKey identifies everything a computed view depends on.
type viewKey struct {
	tenantID    string
	revision    int64
	granularity timeline.Granularity
	columnWidth float64
	weekStart   string
}

func (k viewKey) String() string {
	return fmt.Sprintf("%s|%d|%s|%g|%s", k.tenantID, k.revision, k.granularity, k.columnWidth, k.weekStart)
}

// Option configures a Service.
type Option func(*Service)

// WithDefaults sets the settings used for tenants without stored values.
func WithDefaults(d Settings) Option {
	return func(s *Service) {
		s.defaults = d.withDefaults(DefaultSettings())
	}
}

// WithRenderConfig sets the SVG style.
func WithRenderConfig(cfg render.Config) Option {
	return func(s *Service) {
		s.renderCfg = cfg
	}
}

// WithClock overrides the export timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a chart service. activities may be nil.
func NewService(charts Repository, projects Projects, activities activity.Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		charts:     charts,
		projects:   projects,
		activities: activities,
		logger:     logger,
		defaults:   DefaultSettings(),
		renderCfg:  render.DefaultConfig(),
		now:        time.Now,
		views:      make(map[string]cachedView),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SettingsUpdate changes the non-nil settings.
type SettingsUpdate struct {
	SessionID          string
	Granularity        *string
	ColumnWidth        *float64
	ProjectColumnWidth *float64
	WeekStart          *string
}

// TimelineRequest optionally overrides the stored granularity and column width.
type TimelineRequest struct {
	Granularity string
	ColumnWidth float64
}

// ImportResult describes the chart after an import.
type ImportResult struct {
	Revision int64             `json:"revision"`
	Settings Settings          `json:"settings"`
	Projects []project.Project `json:"projects"`
}

// Get returns the tenant's chart with defaults applied.
func (s *Service) Get(ctx context.Context, tenantID string) (*Chart, error) {
	c, err := s.charts.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Chart{TenantID: tenantID, Settings: s.defaults}, nil
		}
		return nil, fmt.Errorf("getting chart: %w", err)
	}
	c.Settings = c.Settings.withDefaults(s.defaults)
	return c, nil
}

// Settings returns the tenant's effective settings.
func (s *Service) Settings(ctx context.Context, tenantID string) (Settings, error) {
	c, err := s.Get(ctx, tenantID)
	if err != nil {
		return Settings{}, err
	}
	return c.Settings, nil
}

// UpdateSettings validates and stores a settings change.
func (s *Service) UpdateSettings(ctx context.Context, tenantID string, req SettingsUpdate) (*Chart, error) {
	current, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	next, err := applyUpdate(current.Settings, req)
	if err != nil {
		return nil, err
	}

	rev, err := s.charts.SaveSettings(ctx, tenantID, next)
	if err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	s.record(ctx, tenantID, req.SessionID, activity.TypeSettingsUpdated, describeSettings(next), rev)

	return &Chart{TenantID: tenantID, Settings: next, Revision: rev, UpdatedAt: s.now()}, nil
}

// Timeline returns the computed view of the tenant's chart. Views are
// memoised per revision and coalesced across concurrent callers.
func (s *Service) Timeline(ctx context.Context, tenantID string, req TimelineRequest) (*View, error) {
	// Revision before projects: a view is never cached under a revision newer than its data.
	c, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settings := c.Settings
	if req.Granularity != "" {
		g, err := timeline.ParseGranularity(req.Granularity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
		settings.Granularity = g
	}
	if req.ColumnWidth != 0 {
		settings.ColumnWidth = req.ColumnWidth
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	key := viewKey{
		tenantID:    tenantID,
		revision:    c.Revision,
		granularity: settings.Granularity,
		columnWidth: settings.ColumnWidth,
		weekStart:   settings.WeekStart,
	}
	if view, ok := s.cached(key); ok {
		metrics.CacheHit()
		return view, nil
	}

	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		if view, ok := s.cached(key); ok {
			return view, nil
		}
		metrics.CacheMiss()
		projects, err := s.projects.List(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
		view, err := ComputeView(projects, settings)
		if err != nil {
			return nil, err
		}
		view.Revision = c.Revision
		for _, w := range view.Warnings {
			metrics.SpanWarning()
			s.logger.Warn("project outside timeline", "tenant_id", tenantID, "revision", c.Revision, "detail", w)
		}
		s.store(key, view)
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*View), nil
}

// ComputeView lays out projects under settings. It is pure and safe to call
// without a Service.
func ComputeView(projects []project.Project, settings Settings) (*View, error) {
	engine := timeline.NewEngine(timeline.WithWeekStart(settings.Weekday()))

	start := time.Now()
	layout, err := engine.Layout(project.Spans(projects), settings.Granularity, settings.ColumnWidth)
	metrics.ObserveLayout(settings.Granularity.String(), len(layout.Buckets), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("computing layout: %w", err)
	}

	view := &View{
		Settings: settings,
		Projects: projects,
		Layout:   layout,
	}
	if len(layout.Buckets) > 0 {
		for _, p := range projects {
			if err := engine.CheckSpan(p.Span(), layout.Buckets, settings.Granularity); err != nil {
				view.Warnings = append(view.Warnings, fmt.Sprintf("project %s: %v", p.ID, err))
			}
		}
	}
	return view, nil
}

// Export returns the tenant's chart as an exchange document.
func (s *Service) Export(ctx context.Context, tenantID string) (exchange.Document, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return exchange.Document{}, err
	}
	projects, err := s.projects.List(ctx, tenantID)
	if err != nil {
		return exchange.Document{}, fmt.Errorf("listing projects: %w", err)
	}
	return exchange.New(projects, exchange.Settings{
		TimeScale:          settings.Granularity.TimeScale(),
		ColumnWidth:        settings.ColumnWidth,
		ProjectColumnWidth: settings.ProjectColumnWidth,
	}, s.now()), nil
}

// Import replaces the tenant's projects with those in doc and applies any
// settings the document carries. Settings are checked before anything is written.
// Each write advances the revision, so an import that changes settings moves it by two.
func (s *Service) Import(ctx context.Context, tenantID, sessionID string, doc *exchange.Document) (*ImportResult, error) {
	if doc == nil {
		return nil, exchange.ErrInvalidDocument
	}
	incoming, err := doc.ProjectList()
	if err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settings := current.Settings
	settingsChanged := false
	if doc.Settings != nil {
		update := SettingsUpdate{}
		if doc.Settings.TimeScale != "" {
			update.Granularity = &doc.Settings.TimeScale
		}
		if doc.Settings.ColumnWidth != 0 {
			update.ColumnWidth = &doc.Settings.ColumnWidth
		}
		if doc.Settings.ProjectColumnWidth != 0 {
			update.ProjectColumnWidth = &doc.Settings.ProjectColumnWidth
		}
		settings, err = applyUpdate(settings, update)
		if err != nil {
			return nil, err
		}
		settingsChanged = settings != current.Settings
	}

	// Projects and settings are separate writes; a failed settings write
	// puts the previous projects back.
	var previous []project.Project
	if settingsChanged {
		if previous, err = s.projects.List(ctx, tenantID); err != nil {
			return nil, fmt.Errorf("listing projects: %w", err)
		}
	}

	replaced, err := s.projects.Replace(ctx, tenantID, incoming)
	if err != nil {
		return nil, err
	}

	var rev int64
	if settingsChanged {
		rev, err = s.charts.SaveSettings(ctx, tenantID, settings)
		if err != nil {
			if _, restoreErr := s.projects.Replace(ctx, tenantID, previous); restoreErr != nil {
				s.logger.Error("restoring projects after failed import", "tenant_id", tenantID, "error", restoreErr)
			}
			return nil, fmt.Errorf("saving settings: %w", err)
		}
	} else {
		c, err := s.Get(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		rev = c.Revision
	}

	s.record(ctx, tenantID, sessionID, activity.TypeChartImported, fmt.Sprintf("imported %d projects", len(replaced)), rev)
	return &ImportResult{Revision: rev, Settings: settings, Projects: replaced}, nil
}

// RenderSVG writes the tenant's current view as SVG.
func (s *Service) RenderSVG(ctx context.Context, tenantID string, req TimelineRequest, w io.Writer) error {
	view, err := s.Timeline(ctx, tenantID, req)
	if err != nil {
		return err
	}
	return render.SVG(w, view.RenderChart(), s.renderCfg)
}

func (s *Service) cached(key viewKey) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.views[key.tenantID]
	if !ok || entry.key != key {
		return nil, false
	}
	return entry.view, true
}

// store keeps only the latest view per tenant.
func (s *Service) store(key viewKey, view *View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.views[key.tenantID]; ok && entry.key.revision > key.revision {
		return
	}
	s.views[key.tenantID] = cachedView{key: key, view: view}
}

func (s *Service) record(ctx context.Context, tenantID, sessionID string, typ activity.ActivityType, summary string, rev int64) {
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		Summary:      summary,
		Revision:     rev,
	}
	if sessionID != "" {
		entry.SessionID = &sessionID
	}
	activity.Record(ctx, s.activities, s.logger, tenantID, entry)
}

func applyUpdate(current Settings, req SettingsUpdate) (Settings, error) {
	next := current
	if req.Granularity != nil {
		g, err := timeline.ParseGranularity(*req.Granularity)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
		next.Granularity = g
	}
	if req.ColumnWidth != nil {
		next.ColumnWidth = *req.ColumnWidth
	}
	if req.ProjectColumnWidth != nil {
		next.ProjectColumnWidth = *req.ProjectColumnWidth
	}
	if req.WeekStart != nil {
		next.WeekStart = normalizeWeekStart(*req.WeekStart)
	}
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	return next, nil
}

func describeSettings(s Settings) string {
	parts := []string{
		"granularity=" + s.Granularity.String(),
		fmt.Sprintf("column_width=%g", s.ColumnWidth),
		fmt.Sprintf("project_column_width=%g", s.ProjectColumnWidth),
		"week_start=" + s.WeekStart,
	}
	return "settings: " + strings.Join(parts, " ")
}
