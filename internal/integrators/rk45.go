package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/qwell/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// DormandPrince is the adaptive 5(4) embedded Runge-Kutta method with
// first-same-as-last stages. It keeps no per-run state.
type DormandPrince struct {
	Tol dynamo.Tolerances

	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince(tol dynamo.Tolerances) *DormandPrince {
	return &DormandPrince{
		Tol:      tol,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// StepAdaptive takes one trial step of size h from (x, y) and returns the
// candidate state, its scaled error norm (accept when <= 1) and the step
// size the controller suggests next.
func (r *DormandPrince) StepAdaptive(sys dynamo.System, x float64, y dynamo.State, h float64) (dynamo.State, float64, float64, error) {
	tol := r.Tol
	if tol.Abs == 0 && tol.Rel == 0 {
		tol = dynamo.DefaultTolerances()
	}
	k1 := sys.Derive(x, y)
	yNew, _, errNorm := r.trial(sys, x, y, k1, h, tol)
	if !finite(errNorm) || !yNew.IsValid() {
		return yNew, errNorm, h, dynamo.Failure(0, x, y, dynamo.ErrNonFinite)
	}
	return yNew, errNorm, h * r.factor(errNorm), nil
}

func (r *DormandPrince) Integrate(sys dynamo.System, span dynamo.Domain, y0 dynamo.State, obs dynamo.Observer) (dynamo.Stats, error) {
	var stats dynamo.Stats

	tol, err := r.Tol.Resolve(span)
	if err != nil {
		return stats, err
	}
	if len(y0) != sys.Dim() {
		return stats, fmt.Errorf("%w: state has %d components, system has %d", dynamo.ErrDimensionMismatch, len(y0), sys.Dim())
	}

	x := span.Min
	y := y0.Clone()
	if !y.IsValid() {
		return stats, dynamo.Failure(0, x, y, dynamo.ErrNonFinite)
	}
	if obs != nil {
		obs.OnStep(x, y)
	}

	k1 := sys.Derive(x, y)
	stats.Evaluations++
	if !k1.IsValid() {
		return stats, dynamo.Failure(0, x, y, dynamo.ErrNonFinite)
	}

	h := tol.InitialStep
	if h == 0 {
		h = r.initialStep(sys, x, y, k1, span.Max-x, tol, &stats)
	}
	h = math.Min(h, tol.MaxStep)

	rejectedLast := false
	for x < span.Max {
		if stats.Steps+stats.Rejected >= tol.MaxSteps {
			return stats, dynamo.Failure(stats.Steps, x, y, dynamo.ErrTooManySteps)
		}

		last := false
		if x+h >= span.Max {
			h = span.Max - x
			last = true
		}
		if h < tol.MinStep && !last {
			return stats, dynamo.Failure(stats.Steps, x, y, dynamo.ErrStepTooSmall)
		}

		yNew, k7, errNorm := r.trial(sys, x, y, k1, h, tol)
		stats.Evaluations += 6
		if !finite(errNorm) {
			return stats, dynamo.Failure(stats.Steps, x, y, dynamo.ErrNonFinite)
		}

		if errNorm > 1 {
			stats.Rejected++
			rejectedLast = true
			h *= math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.2))
			continue
		}

		if !yNew.IsValid() || !k7.IsValid() {
			return stats, dynamo.Failure(stats.Steps, x, yNew, dynamo.ErrNonFinite)
		}

		if last {
			x = span.Max
		} else {
			x += h
		}
		y, k1 = yNew, k7
		stats.Steps++
		stats.LastStep = h
		if obs != nil {
			obs.OnStep(x, y)
		}

		scale := r.factor(errNorm)
		if rejectedLast {
			scale = math.Min(scale, 1)
		}
		rejectedLast = false
		h = math.Min(h*scale, tol.MaxStep)
	}

	return stats, nil
}

func (r *DormandPrince) factor(errNorm float64) float64 {
	if errNorm == 0 {
		return r.maxScale
	}
	s := r.safety * math.Pow(errNorm, -0.2)
	return math.Min(r.maxScale, math.Max(r.minScale, s))
}

// trial computes the 5th-order solution, the FSAL derivative at its end and
// the RMS error norm scaled by Abs + Rel*max(|y|, |yNew|).
func (r *DormandPrince) trial(sys dynamo.System, x float64, y, k1 dynamo.State, h float64, tol dynamo.Tolerances) (dynamo.State, dynamo.State, float64) {
	n := len(y)
	tmp := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		tmp[i] = y[i] + h*b21*k1[i]
	}
	k2 := sys.Derive(x+a2*h, tmp)

	for i := 0; i < n; i++ {
		tmp[i] = y[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x+a3*h, tmp)

	for i := 0; i < n; i++ {
		tmp[i] = y[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x+a4*h, tmp)

	for i := 0; i < n; i++ {
		tmp[i] = y[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x+a5*h, tmp)

	for i := 0; i < n; i++ {
		tmp[i] = y[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x+h, tmp)

	yNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(x+h, yNew)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := tol.Abs + tol.Rel*math.Max(math.Abs(y[i]), math.Abs(yNew[i]))
		e := errEst / scale
		sum += e * e
	}

	return yNew, k7, math.Sqrt(sum / float64(n))
}

// initialStep estimates a starting step from the first and second
// derivative magnitudes (Hairer, Nørsett & Wanner, II.4).
func (r *DormandPrince) initialStep(sys dynamo.System, x float64, y, f0 dynamo.State, span float64, tol dynamo.Tolerances, stats *dynamo.Stats) float64 {
	n := len(y)
	d0, d1 := 0.0, 0.0
	for i := 0; i < n; i++ {
		sk := tol.Abs + tol.Rel*math.Abs(y[i])
		d0 += (y[i] / sk) * (y[i] / sk)
		d1 += (f0[i] / sk) * (f0[i] / sk)
	}
	d0 = math.Sqrt(d0 / float64(n))
	d1 = math.Sqrt(d1 / float64(n))

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, math.Min(tol.MaxStep, span))

	y1 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y1[i] = y[i] + h0*f0[i]
	}
	f1 := sys.Derive(x+h0, y1)
	stats.Evaluations++

	d2 := 0.0
	for i := 0; i < n; i++ {
		sk := tol.Abs + tol.Rel*math.Abs(y[i])
		d := (f1[i] - f0[i]) / sk
		d2 += d * d
	}
	d2 = math.Sqrt(d2/float64(n)) / h0

	var h1 float64
	if dm := math.Max(d1, d2); dm <= 1e-15 || !finite(dm) {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/dm, 1.0/5.0)
	}

	return math.Min(100*h0, math.Min(h1, tol.MaxStep))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
