package batch

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

// Item is one package to evaluate. Label is echoed back unchanged.
type Item struct {
	Label    string
	Package  calculator.PackageSpec
	Quantity int
}

// Outcome is the evaluation of a single item against a single profile.
// Exactly one of Result and Err is meaningful.
type Outcome struct {
	Label       string
	ContainerID string
	Result      calculator.LoadResult
	Plan        *calculator.ShipmentPlan
	Err         error
}

// Evaluator runs calculations on a bounded number of goroutines.
type Evaluator struct {
	calc    calculator.Calculator
	workers int
}

// NewEvaluator creates an Evaluator. A non-positive workers value uses GOMAXPROCS.
func NewEvaluator(calc calculator.Calculator, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evaluator{calc: calc, workers: workers}
}

// Workers reports the concurrency limit.
func (e *Evaluator) Workers() int {
	return e.workers
}

// EvaluatePackages computes the load of every item against one profile.
// Outcomes are returned in input order.
func (e *Evaluator) EvaluatePackages(ctx context.Context, profile calculator.ContainerProfile, items []Item) ([]Outcome, error) {
	outcomes := make([]Outcome, len(items))
	err := e.run(ctx, len(items), func(i int) {
		outcomes[i] = e.evaluate(profile, items[i])
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// CompareProfiles computes the load of one item against every profile.
// Outcomes are returned in profile order.
func (e *Evaluator) CompareProfiles(ctx context.Context, profiles []calculator.ContainerProfile, item Item) ([]Outcome, error) {
	outcomes := make([]Outcome, len(profiles))
	err := e.run(ctx, len(profiles), func(i int) {
		outcomes[i] = e.evaluate(profiles[i], item)
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (e *Evaluator) run(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < n; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Cancellation observed before any goroutine ran leaves Wait with nothing to report.
	return ctx.Err()
}

func (e *Evaluator) evaluate(profile calculator.ContainerProfile, item Item) Outcome {
	out := Outcome{Label: item.Label, ContainerID: profile.ID}

	if item.Quantity > 0 {
		plan, err := e.calc.PlanShipment(profile, item.Package, item.Quantity)
		switch {
		case err == nil:
			out.Result = plan.PerContainer
			out.Plan = &plan
			return out
		case errors.Is(err, calculator.ErrDoesNotFit):
			// fall through to report the zero-capacity load itself
		default:
			out.Err = err
			return out
		}
	}

	res, err := e.calc.CalculateLoad(profile, item.Package)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res
	return out
}
