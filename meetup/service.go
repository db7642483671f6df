package meetup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meetupgraph/meetupgraph/dot"
	"github.com/meetupgraph/meetupgraph/graphs"
	"github.com/meetupgraph/meetupgraph/render"
)

const (
	// ConnectionsQuery returns one row per person met by $name.
	ConnectionsQuery = "MATCH (p)-[:MET]-(q) WHERE p.name = $name RETURN p, q"
	// ExportQuery returns every MET relationship once.
	ExportQuery = "MATCH (n)-[:MET]->(m) RETURN n, m"
)

// Renderer turns a graph description into image bytes.
type Renderer interface {
	Render(ctx context.Context, description string, extraArgs []string) ([]byte, error)
}

// Option configures a Service.
type Option func(*options)

type options struct {
	queryTimeout time.Duration
	maxRows      int
	dotOptions   []dot.Option
	logger       *zap.Logger
}

// WithQueryTimeout bounds every store read made by the service.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.queryTimeout = d
	}
}

// WithMaxRows caps the rows a single request may read.
func WithMaxRows(n int) Option {
	return func(o *options) {
		o.maxRows = n
	}
}

// WithDescriptionOptions sets the graph header used for every description.
func WithDescriptionOptions(opts ...dot.Option) Option {
	return func(o *options) {
		o.dotOptions = opts
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Service answers graph and query requests against a graph store.
type Service struct {
	store    graphs.GraphStore
	renderer Renderer
	opts     *options
}

// NewService returns a service reading from store and drawing with renderer.
func NewService(store graphs.GraphStore, renderer Renderer, opts ...Option) *Service {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Service{
		store:    store,
		renderer: renderer,
		opts:     o,
	}
}

// Graph renders the people who met who.
func (s *Service) Graph(ctx context.Context, who, extraArgs string) ([]byte, error) {
	who = strings.TrimSpace(who)
	if who == "" {
		return nil, &ArgumentError{Name: "who", Reason: "is required"}
	}

	return s.renderQuery(ctx, ConnectionsQuery, map[string]any{"name": strings.ToLower(who)}, extraArgs)
}

// GraphQuery renders the nodes returned by an arbitrary query. Every row
// becomes one chain of the nodes it contains.
func (s *Service) GraphQuery(ctx context.Context, query, extraArgs string) ([]byte, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ArgumentError{Name: "query", Reason: "is required"}
	}

	return s.renderQuery(ctx, query, nil, extraArgs)
}

// Query runs an arbitrary query and returns its rows as text.
func (s *Service) Query(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &ArgumentError{Name: "query", Reason: "is required"}
	}

	result, err := s.store.Query(ctx, query, nil, s.queryOptions()...)
	if err != nil {
		return "", err
	}

	return graphs.FormatResult(result), nil
}

// Describe runs a query and serializes the nodes of every row into a graph
// description.
func (s *Service) Describe(ctx context.Context, query string, params map[string]any) (string, error) {
	result, err := s.store.Query(ctx, query, params, s.queryOptions()...)
	if err != nil {
		return "", err
	}

	groups, err := graphs.NodeGroups(result)
	if err != nil {
		return "", err
	}

	s.opts.logger.Debug("described graph",
		zap.Int("groups", len(groups)))

	return dot.Serialize(groups, s.opts.dotOptions...), nil
}

// Export describes the whole MET graph.
func (s *Service) Export(ctx context.Context) (string, error) {
	return s.Describe(ctx, ExportQuery, nil)
}

// Connections describes the people who met who, without rendering.
func (s *Service) Connections(ctx context.Context, who string) (string, error) {
	who = strings.TrimSpace(who)
	if who == "" {
		return "", &ArgumentError{Name: "who", Reason: "is required"}
	}

	return s.Describe(ctx, ConnectionsQuery, map[string]any{"name": strings.ToLower(who)})
}

func (s *Service) renderQuery(ctx context.Context, query string, params map[string]any, extraArgs string) ([]byte, error) {
	args := render.SplitArgs(extraArgs)
	if err := render.CheckArgs(args); err != nil {
		return nil, err
	}

	description, err := s.Describe(ctx, query, params)
	if err != nil {
		return nil, err
	}

	image, err := s.renderer.Render(ctx, description, args)
	if err != nil {
		return nil, fmt.Errorf("render graph: %w", err)
	}

	return image, nil
}

func (s *Service) queryOptions() []graphs.Option {
	var opts []graphs.Option
	if s.opts.queryTimeout > 0 {
		opts = append(opts, graphs.WithTimeout(s.opts.queryTimeout))
	}
	if s.opts.maxRows > 0 {
		opts = append(opts, graphs.WithMaxRows(s.opts.maxRows))
	}
	return opts
}
