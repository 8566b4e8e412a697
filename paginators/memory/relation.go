package memory

import (
	"context"
	"errors"
	"io"

	"github.com/hadi77ir/go-relay/relay"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DataSourceFunc returns the full relation owned by owner, already in relation order.
// It is called on every Paginate, so the relation may change between calls.
type DataSourceFunc[O any, T any] func(ctx context.Context, owner O) ([]T, error)

// Static returns a data source serving the same items for every owner
func Static[O any, T any](items []T) DataSourceFunc[O, T] {
	return func(context.Context, O) ([]T, error) {
		return items, nil
	}
}

// Options extends relay.Options with paginator-specific options
type Options struct {
	*relay.Options

	// Logger receives one debug entry per call and warnings for failed fetches and
	// large relations. If nil, nothing is logged.
	Logger logrus.FieldLogger

	// Tracer opens a span per call. If nil, the noop tracer is used.
	Tracer trace.Tracer
}

// DefaultOptions returns options with default engine settings and no logging or tracing
func DefaultOptions() *Options {
	return &Options{
		Options: relay.DefaultOptions(),
	}
}

// Relation paginates a relation materialized by a data source
type Relation[O any, T any, K comparable] struct {
	name       string
	dataSource DataSourceFunc[O, T]
	engine     *relay.Engine[T, K]
	logger     logrus.FieldLogger
	tracer     trace.Tracer
}

// NewRelation creates a paginator for one relation kind
func NewRelation[O any, T any, K comparable](
	name string,
	dataSource DataSourceFunc[O, T],
	key relay.KeyFunc[T, K],
	codec relay.Codec[K],
	opts *Options,
) *Relation[O, T, K] {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Options == nil {
		opts.Options = relay.DefaultOptions()
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("github.com/hadi77ir/go-relay")
	}

	return &Relation[O, T, K]{
		name:       name,
		dataSource: dataSource,
		engine:     relay.NewEngine(key, codec, opts.Options),
		logger:     logger.WithField("relation", name),
		tracer:     tracer,
	}
}

// Name returns the relation name
func (r *Relation[O, T, K]) Name() string {
	return r.name
}

// Engine returns the engine slicing this relation
func (r *Relation[O, T, K]) Engine() *relay.Engine[T, K] {
	return r.engine
}

// Paginate validates args, fetches the relation and returns the selected window
func (r *Relation[O, T, K]) Paginate(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error) {
	ctx, span := r.tracer.Start(ctx, "relay.paginate",
		trace.WithAttributes(attribute.String("relay.relation", r.name)))
	defer span.End()

	conn, err := r.paginate(ctx, owner, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := relay.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("relay.error_code", string(code)))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("relay.edges", len(conn.Edges)),
		attribute.Bool("relay.has_next_page", conn.PageInfo.HasNextPage),
		attribute.Bool("relay.has_previous_page", conn.PageInfo.HasPreviousPage),
	)
	return conn, nil
}

func (r *Relation[O, T, K]) paginate(ctx context.Context, owner O, args relay.Args) (*relay.Connection[T], error) {
	// Reject bad arguments before paying for the fetch.
	if err := args.Validate(); err != nil {
		r.logger.WithError(err).WithField("code", relay.CodeOf(err)).Debug("rejected pagination arguments")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seq, err := r.dataSource(ctx, owner)
	if err != nil {
		var fetchErr *relay.FetchError
		if !errors.As(err, &fetchErr) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			err = relay.NewFetchError("fetch "+r.name, err)
		}
		r.logger.WithError(err).Warn("relation fetch failed")
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("relay.sequence_length", len(seq)))
	if r.engine.Options().IsLargeRelation(len(seq)) {
		r.logger.WithField("length", len(seq)).Warn("paginating a large relation in memory")
	}

	conn, err := r.engine.Paginate(seq, args)
	if err != nil {
		r.logger.WithError(err).WithField("code", relay.CodeOf(err)).Debug("rejected pagination cursor")
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"length":            len(seq),
		"edges":             len(conn.Edges),
		"has_next_page":     conn.PageInfo.HasNextPage,
		"has_previous_page": conn.PageInfo.HasPreviousPage,
	}).Debug("paginated relation")

	return conn, nil
}
