package ln

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	cLightning "github.com/lncm/una/clightning"
	"github.com/lncm/una/common"
	"github.com/lncm/una/eclair"
	"github.com/lncm/una/lnd"
)

const (
	TracerName = "github.com/lncm/una/ln"

	DefaultWatchInterval = time.Minute

	watchTimeout = 5 * time.Second
)

// client is what every backend adapter provides.
type client interface {
	GetInfo(ctx context.Context) (common.NodeInfo, error)
	CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error)
	PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error)
	GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error)
	DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error)
	Close() error
}

// Node is a Lightning node behind one of the supported backends. It holds no
// mutable state and is safe for concurrent use.
type Node struct {
	Backend common.Backend

	client client
	tracer trace.Tracer
}

// New validates conf for the given backend and builds its adapter. No network
// call is made.
func New(backend common.Backend, conf common.NodeConfig) (*Node, error) {
	c, err := newClient(backend, conf)
	if err != nil {
		return nil, err
	}

	log.WithField("backend", backend.String()).Debug("node created")

	return &Node{
		Backend: backend,
		client:  c,
		tracer:  otel.Tracer(TracerName),
	}, nil
}

func newClient(backend common.Backend, conf common.NodeConfig) (client, error) {
	switch backend {
	case common.BackendLndRest:
		c, err := lnd.NewConfig(conf)
		if err != nil {
			return nil, err
		}

		return lnd.New(c)

	case common.BackendClnGrpc:
		c, err := cLightning.NewConfig(conf)
		if err != nil {
			return nil, err
		}

		return cLightning.New(c)

	case common.BackendEclairRest:
		c, err := eclair.NewConfig(conf)
		if err != nil {
			return nil, err
		}

		return eclair.New(c)

	case common.BackendLndGrpc:
		return nil, &common.Error{
			Kind:    common.KindInvalidBackend,
			Message: "backend LndGrpc is not implemented",
			Err:     common.ErrNotImplemented,
		}

	default:
		return nil, &common.Error{
			Kind:    common.KindInvalidBackend,
			Message: fmt.Sprintf("invalid backend: %s", backend),
		}
	}
}

func (n *Node) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return n.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("una.backend", n.Backend.String())))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("una.error_kind", common.KindOf(err).String()))
	}

	span.End()
}

func (n *Node) GetInfo(ctx context.Context) (info common.NodeInfo, err error) {
	ctx, span := n.start(ctx, "GetInfo")
	defer func() { end(span, err) }()

	return n.client.GetInfo(ctx)
}

func (n *Node) CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (res common.CreateInvoiceResult, err error) {
	ctx, span := n.start(ctx, "CreateInvoice")
	defer func() { end(span, err) }()

	return n.client.CreateInvoice(ctx, params)
}

func (n *Node) PayInvoice(ctx context.Context, params common.PayInvoiceParams) (res common.PayInvoiceResult, err error) {
	ctx, span := n.start(ctx, "PayInvoice")
	defer func() { end(span, err) }()

	return n.client.PayInvoice(ctx, params)
}

// GetInvoice looks up an invoice issued by this node.
func (n *Node) GetInvoice(ctx context.Context, paymentHash string) (inv common.Invoice, err error) {
	ctx, span := n.start(ctx, "GetInvoice")
	defer func() { end(span, err) }()

	return n.client.GetInvoice(ctx, paymentHash)
}

func (n *Node) DecodeInvoice(ctx context.Context, bolt11 string) (res common.DecodeInvoiceResult, err error) {
	ctx, span := n.start(ctx, "DecodeInvoice")
	defer func() { end(span, err) }()

	return n.client.DecodeInvoice(ctx, bolt11)
}

// Close releases the backend connection. The Node can't be used afterwards.
func (n *Node) Close() error {
	return n.client.Close()
}

// Watch calls GetInfo every interval until ctx is done, logging when the node
// becomes unreachable and when it comes back. A non-positive interval means
// DefaultWatchInterval.
func (n *Node) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0

	for {
		callCtx, cancel := context.WithTimeout(ctx, watchTimeout)
		_, err := n.GetInfo(callCtx)
		cancel()

		switch {
		case err == nil && failures > 0:
			log.WithField("count", failures).Println("node connection reestablished")
			failures = 0

		case err != nil && ctx.Err() == nil:
			failures++
			log.WithError(err).WithFields(log.Fields{
				"count": failures,
				"kind":  common.KindOf(err).String(),
			}).Warn("node unreachable")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
