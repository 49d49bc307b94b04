package processor

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/catalog"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/observability"
	"github.com/FabricioChang/Workshop-Continous-Integration/pkg/pricing"
)

// countingResolver records lookups so tests can prove the cancellation gate
// runs before the catalog is consulted.
type countingResolver struct {
	plans   map[string]catalog.Plan
	lookups int
}

func (r *countingResolver) Lookup(code string) (catalog.Plan, bool) {
	r.lookups++
	p, ok := r.plans[code]
	return p, ok
}

func TestProcess_Outcomes(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want int
	}{
		{"cancelled valid request", Request{PlanCode: "BASIC", Members: 1, Confirmed: false}, -1},
		{"unknown plan", Request{PlanCode: "XYZ", Members: 1, Confirmed: true}, -1},
		{"zero members", Request{PlanCode: "BASIC", Members: 0, Confirmed: true}, -1},
		{"feature from another plan", Request{PlanCode: "BASIC", Members: 1, Features: []string{"EP"}, Confirmed: true}, -1},
		{"basic single", Request{PlanCode: "BASIC", Members: 1, Confirmed: true}, 50},
		{"lower-case plan code", Request{PlanCode: "basic", Members: 2, Features: []string{"CG", "LK"}, Confirmed: true}, 144},
		{"premium with extras", Request{PlanCode: "PREMIUM", Members: 1, Features: []string{"EP", "CI"}, Confirmed: true}, 181},
		{"premium group", Request{PlanCode: "PREMIUM", Members: 2, Features: []string{"EP"}, Confirmed: true}, 270},
		{"family four", Request{PlanCode: "FAMILY", Members: 4, Features: []string{"CF", "GD"}, Confirmed: true}, 688},
	}

	p := New(catalog.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Process(tt.req))
		})
	}
}

func TestProcess_CancelledAlwaysRejected(t *testing.T) {
	p := New(catalog.Default())
	for _, plan := range catalog.Default().Plans() {
		req := Request{PlanCode: plan.Code, Members: 3, Features: plan.FeatureCodes()}
		assert.Equal(t, Rejected, p.Process(req), plan.Code)
	}
}

func TestQuote_CancelledBeforeLookup(t *testing.T) {
	r := &countingResolver{}
	p := New(r)

	q, err := p.Quote(Request{PlanCode: "NOPE", Members: -3})
	assert.Nil(t, q)
	assert.ErrorIs(t, err, pricing.ErrCancelled)
	assert.Equal(t, pricing.KindCancelled, pricing.KindOf(err))
	assert.Zero(t, r.lookups)
}

func TestQuote_ErrorKinds(t *testing.T) {
	p := New(catalog.Default())

	tests := []struct {
		name string
		req  Request
		kind pricing.Kind
	}{
		{"cancelled", Request{PlanCode: "BASIC", Members: 1}, pricing.KindCancelled},
		{"unknown plan", Request{PlanCode: "XYZ", Members: 1, Confirmed: true}, pricing.KindUnknownPlan},
		{"invalid members", Request{PlanCode: "BASIC", Members: 0, Confirmed: true}, pricing.KindInvalidMemberCount},
		{"unknown feature", Request{PlanCode: "BASIC", Members: 1, Features: []string{"EP"}, Confirmed: true}, pricing.KindUnknownFeature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := p.Quote(tt.req)
			require.Error(t, err)
			assert.Nil(t, q)
			assert.Equal(t, tt.kind, pricing.KindOf(err))
			assert.True(t, IsRejected(err))
		})
	}
}

func TestQuote_Priced(t *testing.T) {
	p := New(catalog.Default(), WithIDGenerator(func() string { return "q-1" }))

	features := []string{"CF", "GD"}
	q, err := p.Quote(Request{PlanCode: "family", Members: 4, Features: features, Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, "q-1", q.ID)
	assert.Equal(t, "FAMILY", q.PlanCode)
	assert.Equal(t, "Family", q.PlanName)
	assert.Equal(t, 4, q.Members)
	assert.Equal(t, 688, q.Total)
	assert.Equal(t, q.Breakdown.Total, q.Total)
	assert.Equal(t, 82, q.Breakdown.GroupDiscount)

	features[0] = "XX"
	assert.Equal(t, []string{"CF", "GD"}, q.Features)
}

func TestQuote_DefaultIDIsUUID(t *testing.T) {
	p := New(catalog.Default())
	q, err := p.Quote(Request{PlanCode: "BASIC", Members: 1, Confirmed: true})
	require.NoError(t, err)

	_, err = uuid.Parse(q.ID)
	assert.NoError(t, err)
}

func TestProcess_ZeroTotalIsNotRejected(t *testing.T) {
	r := &countingResolver{plans: map[string]catalog.Plan{
		"FREE": {Code: "FREE", Name: "Free"},
	}}
	p := New(r)

	assert.Equal(t, 0, p.Process(Request{PlanCode: "FREE", Members: 2, Confirmed: true}))
	assert.Equal(t, Rejected, p.Process(Request{PlanCode: "FREE", Members: 2}))
}

func TestPreview_IgnoresConfirmation(t *testing.T) {
	p := New(catalog.Default())

	plan, b, err := p.Preview(Request{PlanCode: "PREMIUM", Members: 1, Features: []string{"EP", "CI"}})
	require.NoError(t, err)
	assert.Equal(t, "PREMIUM", plan.Code)
	assert.Equal(t, 26, b.Surcharge)
	assert.Equal(t, 181, b.Total)

	assert.Zero(t, p.Metrics().Requests())

	_, _, err = p.Preview(Request{PlanCode: "XYZ", Members: 1})
	assert.ErrorIs(t, err, pricing.ErrUnknownPlan)
}

func TestProcessor_RecordsMetrics(t *testing.T) {
	m := observability.NewMetrics()
	p := New(catalog.Default(), WithMetrics(m))

	p.Process(Request{PlanCode: "BASIC", Members: 1, Confirmed: true})
	p.Process(Request{PlanCode: "BASIC", Members: 2, Features: []string{"CG", "LK"}, Confirmed: true})
	p.Process(Request{PlanCode: "BASIC", Members: 1})
	p.Process(Request{PlanCode: "XYZ", Members: 1, Confirmed: true})
	p.Process(Request{PlanCode: "BASIC", Members: 0, Confirmed: true})
	p.Process(Request{PlanCode: "BASIC", Members: 1, Features: []string{"EP"}, Confirmed: true})

	assert.Same(t, m, p.Metrics())
	assert.Equal(t, map[string]int64{
		"priced_count":       2,
		"cancelled_count":    1,
		"unknown_plan_count": 1,
		"invalid_count":      2,
		"priced_total_sum":   194,
	}, m.Snapshot())
}

func TestProcessor_LogsRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(catalog.Default(), WithLogger(logger))

	p.Process(Request{PlanCode: "XYZ", Members: 1, Confirmed: true})
	assert.Contains(t, buf.String(), "plan rejected")
	assert.Contains(t, buf.String(), "kind=unknown_plan")

	buf.Reset()
	p.Process(Request{PlanCode: "BASIC", Members: 1, Confirmed: true})
	assert.Contains(t, buf.String(), "plan priced")
	assert.Contains(t, buf.String(), "total=50")
}

func TestIsRejected(t *testing.T) {
	assert.False(t, IsRejected(nil))
	assert.False(t, IsRejected(errors.New("boom")))
	assert.True(t, IsRejected(&pricing.Error{Kind: pricing.KindCancelled}))
}

func TestProcessor_Concurrent(t *testing.T) {
	p := New(catalog.Default())
	reqs := []Request{
		{PlanCode: "FAMILY", Members: 4, Features: []string{"CF", "GD"}, Confirmed: true},
		{PlanCode: "premium", Members: 2, Features: []string{"EP"}, Confirmed: true},
		{PlanCode: "BASIC", Members: 1},
		{PlanCode: "XYZ", Members: 1, Confirmed: true},
	}
	want := []int{688, 270, Rejected, Rejected}

	const rounds = 25
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		for j, req := range reqs {
			j, req := j, req
			wg.Add(1)
			go func() {
				defer wg.Done()
				if j%2 == 0 {
					assert.Equal(t, want[j], p.Process(req))
					return
				}
				q, err := p.Quote(req)
				if want[j] == Rejected {
					assert.Error(t, err)
					return
				}
				if assert.NoError(t, err) {
					assert.Equal(t, want[j], q.Total)
				}
			}()
		}
	}
	wg.Wait()

	snap := p.Metrics().Snapshot()
	assert.EqualValues(t, 2*rounds, snap["priced_count"])
	assert.EqualValues(t, rounds, snap["cancelled_count"])
	assert.EqualValues(t, rounds, snap["unknown_plan_count"])
	assert.EqualValues(t, rounds*(688+270), snap["priced_total_sum"])
	assert.EqualValues(t, 4*rounds, p.Metrics().Requests())
}
