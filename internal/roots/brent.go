package roots

import "math"

// Brent finds a root of f in [lo, hi] with Brent's method: inverse quadratic
// interpolation or secant steps, falling back to bisection whenever the
// interpolated step would not shrink the bracket fast enough.
func Brent(f Func, lo, hi float64, opts Options) (Result, error) {
	if err := checkBounds(lo, hi); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()
	c := &counter{f: f}

	fpre, fcur, res, done, err := endpoints(c, lo, hi)
	if err != nil {
		return Result{}, err
	}
	if done {
		return res, nil
	}

	xpre, xcur := lo, hi
	var xblk, fblk, spre, scur float64

	for res.Iterations = 0; res.Iterations < opts.MaxIter; {
		res.Iterations++

		if fpre*fcur < 0 {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (opts.XTol + opts.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			res.Converged = true
			break
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}

		if fcur, err = c.eval(xcur); err != nil {
			return Result{}, err
		}
	}

	res.Root, res.FRoot = xcur, fcur
	res.FuncCalls = c.calls
	return res, nil
}
