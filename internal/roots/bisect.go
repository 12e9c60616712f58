package roots

import "math"

// Bisect halves [lo, hi] until its half-width falls below
// XTol + RTol*|mid|. The returned root is always the last point evaluated.
func Bisect(f Func, lo, hi float64, opts Options) (Result, error) {
	if err := checkBounds(lo, hi); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()
	c := &counter{f: f}

	flo, _, res, done, err := endpoints(c, lo, hi)
	if err != nil {
		return Result{}, err
	}
	if done {
		return res, nil
	}

	a, b := lo, hi
	var mid, fmid float64
	for res.Iterations = 0; res.Iterations < opts.MaxIter; {
		res.Iterations++

		mid = a + (b-a)/2
		if fmid, err = c.eval(mid); err != nil {
			return Result{}, err
		}

		if fmid == 0 || (b-a)/2 < opts.XTol+opts.RTol*math.Abs(mid) {
			res.Converged = true
			break
		}
		if math.Signbit(fmid) == math.Signbit(flo) {
			a, flo = mid, fmid
		} else {
			b = mid
		}
	}

	res.Root, res.FRoot = mid, fmid
	res.FuncCalls = c.calls
	return res, nil
}
