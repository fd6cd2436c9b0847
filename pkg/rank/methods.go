package rank

import (
	"github.com/yumyai/generanker/pkg/errs"
)

// Method names one of the supported ranking methods.
type Method int

const (
	MethodFoldChange Method = iota
	MethodDESeqShrinkage
	MethodCohenD
	MethodNormCohenD
	MethodNormFoldChange
	MethodS2NRatio
	MethodNormS2NRatio
	MethodBWSTest
	MethodNormBWSTest
)

var methodKeys = [...]string{
	MethodFoldChange:     "fold_change",
	MethodDESeqShrinkage: "deseq_shrinkage",
	MethodCohenD:         "cohen_d",
	MethodNormCohenD:     "norm_cohen_d",
	MethodNormFoldChange: "norm_fold_change",
	MethodS2NRatio:       "s2n_ratio",
	MethodNormS2NRatio:   "norm_s2n_ratio",
	MethodBWSTest:        "bws_test",
	MethodNormBWSTest:    "norm_bws_test",
}

// String returns the key used to select the method on the command line.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodKeys) {
		return "unknown"
	}
	return methodKeys[m]
}

// Valid reports whether m is one of the declared methods.
func (m Method) Valid() bool {
	return m >= 0 && int(m) < len(methodKeys)
}

// ParseMethod maps a method key to its Method.
func ParseMethod(key string) (Method, error) {
	for m, k := range methodKeys {
		if k == key {
			return Method(m), nil
		}
	}
	return 0, errs.Configf("unknown ranking method %q", key)
}

// Methods lists every declared method in declaration order.
func Methods() []Method {
	out := make([]Method, len(methodKeys))
	for i := range out {
		out[i] = Method(i)
	}
	return out
}
