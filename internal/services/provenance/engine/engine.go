// Package engine exposes the provenance operations. Each mutation runs as one
// state.Store.Update: registry, ledger, market and journal steps either all
// commit or none do.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/provenance/internal/platform/errors"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/asset"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/journal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/ledger"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/market"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/principal"
	"github.com/louisbranch/provenance/internal/services/provenance/domain/registry"
	"github.com/louisbranch/provenance/internal/services/provenance/state"
)

const tracerName = "github.com/louisbranch/provenance/engine"

// Options configures an Engine.
type Options struct {
	// MintPolicy gates asset minting. Nil allows every caller.
	MintPolicy registry.MintPolicy
	// Settlement selects how purchases pay sellers.
	Settlement market.Settlement
	// Tracer overrides the global OpenTelemetry tracer.
	Tracer trace.Tracer
}

// Engine runs provenance operations against a state store.
type Engine struct {
	store    state.Store
	registry *registry.Registry
	ledger   *ledger.Ledger
	market   *market.Market
	tracer   trace.Tracer
}

// New creates an engine over store.
func New(store state.Store, opts Options) (*Engine, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	reg := registry.New(opts.MintPolicy)
	led := ledger.New(reg)
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Engine{
		store:    store,
		registry: reg,
		ledger:   led,
		market:   market.New(reg, led, opts.Settlement),
		tracer:   tracer,
	}, nil
}

// Settlement returns the configured settlement mode.
func (e *Engine) Settlement() market.Settlement {
	return e.market.Settlement()
}

// Version returns the committed state version.
func (e *Engine) Version(ctx context.Context) (uint64, error) {
	return e.store.Version(ctx)
}

func (e *Engine) update(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(state.Txn) error) error {
	ctx, span := e.tracer.Start(ctx, "provenance."+op, trace.WithAttributes(attrs...))
	defer span.End()
	err := e.store.Update(ctx, fn)
	finish(span, err)
	return err
}

func (e *Engine) view(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(state.Reader) error) error {
	ctx, span := e.tracer.Start(ctx, "provenance."+op, trace.WithAttributes(attrs...))
	defer span.End()
	err := e.store.View(ctx, fn)
	finish(span, err)
	return err
}

func finish(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, string(apperrors.CodeOf(err)))
}

func assetAttr(id asset.ID) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int64("provenance.asset_id", int64(id))}
}

func requireCaller(caller principal.Principal) error {
	if caller.IsZero() {
		return principal.ErrInvalid
	}
	return nil
}

func record(txn state.Txn, evt journal.Event) error {
	if _, err := journal.Append(txn, evt); err != nil {
		return fmt.Errorf("append %s event: %w", evt.Type, err)
	}
	return nil
}
