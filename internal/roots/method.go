package roots

import "fmt"

type Method string

const (
	MethodBrent  Method = "brent"
	MethodBisect Method = "bisect"
)

func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "", MethodBrent:
		return MethodBrent, nil
	case MethodBisect:
		return MethodBisect, nil
	}
	return "", fmt.Errorf("unknown root method: %s", name)
}

func (m Method) Find(f Func, lo, hi float64, opts Options) (Result, error) {
	switch m {
	case MethodBisect:
		return Bisect(f, lo, hi, opts)
	default:
		return Brent(f, lo, hi, opts)
	}
}
