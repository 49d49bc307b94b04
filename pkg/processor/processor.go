// Package processor turns a plan request into a single price.
//
// A request ends in exactly one of four states: cancelled (the user did not
// confirm), not found (unknown plan code), invalid (bad member count or
// feature), or priced. Process collapses the first three into the sentinel
// -1; Quote keeps them apart for callers that want to explain the failure.
package processor

import (
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/observability"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/pricing"
)

// Rejected is the value Process returns for any request that was not priced.
const Rejected = -1

// PlanResolver resolves a plan code. *catalog.Catalog implements it.
type PlanResolver interface {
	Lookup(code string) (catalog.Plan, bool)
}

var _ PlanResolver = (*catalog.Catalog)(nil)

// Request is one pricing request as supplied by a UI.
type Request struct {
	PlanCode  string   `json:"plan" yaml:"plan"`
	Members   int      `json:"members" yaml:"members"`
	Features  []string `json:"features" yaml:"features"`
	Confirmed bool     `json:"confirmed" yaml:"confirmed"`
}

// Quote is a confirmed, priced request.
type Quote struct {
	ID        string            `json:"id" yaml:"id"`
	PlanCode  string            `json:"plan" yaml:"plan"`
	PlanName  string            `json:"plan_name" yaml:"plan_name"`
	Members   int               `json:"members" yaml:"members"`
	Features  []string          `json:"features" yaml:"features"`
	Breakdown pricing.Breakdown `json:"breakdown" yaml:"breakdown"`
	Total     int               `json:"total" yaml:"total"`
}

// Processor applies the confirmation gate and the pricing engine to
// requests. It is safe for concurrent use.
type Processor struct {
	plans   PlanResolver
	logger  *slog.Logger
	metrics *observability.Metrics
	newID   func() string
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for per-request debug records.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records every outcome in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithIDGenerator overrides how quote IDs are generated.
func WithIDGenerator(fn func() string) Option {
	return func(p *Processor) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// New returns a Processor resolving plans through plans.
func New(plans PlanResolver, opts ...Option) *Processor {
	p := &Processor{
		plans:   plans,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: observability.NewMetrics(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Metrics returns the processor's outcome counters.
func (p *Processor) Metrics() *observability.Metrics {
	return p.metrics
}

// Process prices req and returns the total, or Rejected if the request was
// cancelled, names an unknown plan, or fails validation. A zero total is a
// valid price.
func (p *Processor) Process(req Request) int {
	q, err := p.Quote(req)
	if err != nil {
		return Rejected
	}
	return q.Total
}

// Quote prices a confirmed request. Errors are *pricing.Error values of kind
// Cancelled, UnknownPlan, InvalidMemberCount or UnknownFeature.
func (p *Processor) Quote(req Request) (*Quote, error) {
	if !req.Confirmed {
		err := &pricing.Error{Kind: pricing.KindCancelled, Plan: req.PlanCode}
		p.reject(req, err)
		return nil, err
	}

	plan, b, err := p.Preview(req)
	if err != nil {
		p.reject(req, err)
		return nil, err
	}

	q := &Quote{
		ID:        p.newID(),
		PlanCode:  plan.Code,
		PlanName:  plan.Name,
		Members:   req.Members,
		Features:  append([]string(nil), req.Features...),
		Breakdown: b,
		Total:     b.Total,
	}
	p.metrics.Record(observability.OutcomePriced, q.Total)
	p.logger.Debug("plan priced",
		"quote", q.ID,
		"plan", q.PlanCode,
		"members", q.Members,
		"features", q.Features,
		"total", q.Total,
	)
	return q, nil
}

// Preview resolves and prices req without the confirmation gate, so a UI can
// show the summary it is about to ask the user to confirm. It does not
// record metrics.
func (p *Processor) Preview(req Request) (catalog.Plan, pricing.Breakdown, error) {
	plan, ok := p.plans.Lookup(req.PlanCode)
	if !ok {
		return catalog.Plan{}, pricing.Breakdown{}, &pricing.Error{Kind: pricing.KindUnknownPlan, Plan: req.PlanCode}
	}
	b, err := pricing.Compute(plan, req.Members, req.Features)
	if err != nil {
		return plan, pricing.Breakdown{}, err
	}
	return plan, b, nil
}

func (p *Processor) reject(req Request, err error) {
	kind := pricing.KindOf(err)
	p.metrics.Record(outcomeFor(kind), 0)
	p.logger.Debug("plan rejected",
		"plan", req.PlanCode,
		"members", req.Members,
		"features", req.Features,
		"kind", kind.String(),
		"error", err,
	)
}

func outcomeFor(k pricing.Kind) observability.Outcome {
	switch {
	case k == pricing.KindCancelled:
		return observability.OutcomeCancelled
	case k == pricing.KindUnknownPlan:
		return observability.OutcomeUnknownPlan
	default:
		return observability.OutcomeInvalid
	}
}

// IsRejected reports whether err came from a rejected request rather than
// some unrelated failure.
func IsRejected(err error) bool {
	var pe *pricing.Error
	return errors.As(err, &pe)
}
