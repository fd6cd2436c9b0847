package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/yumyai/generanker/pkg/dataset"
	"github.com/yumyai/generanker/pkg/errs"
)

// Descriptor is a registered method with its metadata.
type Descriptor struct {
	Method      Method
	Name        string
	Description string
	Options     []Option
	Exec        Func
}

// Key is the command-line name of the method.
func (d Descriptor) Key() string { return d.Method.String() }

// Run checks args against the method's options, fills in defaults and runs it.
func (d Descriptor) Run(ctx context.Context, ds *dataset.Dual, args Args) (*Result, error) {
	full, err := withDefaults(d.Options, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Key(), err)
	}
	return d.Exec(ctx, ds, full)
}

// Registry maps methods to descriptors. It is filled once at startup.
type Registry struct {
	methods map[Method]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{methods: make(map[Method]Descriptor)}
}

// Register adds d. Each method may be registered once.
func (r *Registry) Register(d Descriptor) error {
	if !d.Method.Valid() {
		return fmt.Errorf("cannot register undeclared method %d", int(d.Method))
	}
	if d.Exec == nil {
		return fmt.Errorf("method %s has no implementation", d.Method)
	}
	if _, dup := r.methods[d.Method]; dup {
		return fmt.Errorf("method %s registered twice", d.Method)
	}
	r.methods[d.Method] = d
	return nil
}

// Lookup finds a registered method by key.
func (r *Registry) Lookup(key string) (Descriptor, error) {
	m, err := ParseMethod(key)
	if err != nil {
		return Descriptor{}, err
	}
	d, ok := r.methods[m]
	if !ok {
		return Descriptor{}, errs.Configf("ranking method %q is not available", key)
	}
	return d, nil
}

// Descriptors returns the registered methods in declaration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.methods))
	for _, d := range r.methods {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// Deps are the collaborators the default methods delegate to.
type Deps struct {
	Cohen      CohenEstimator
	Shrinkage  ShrinkageEstimator
	Normalizer Normalizer
}

var (
	bwsOptions = []Option{{
		Name:    "alternative",
		Usage:   "one-sided or two-sided statistic",
		Default: OneSided,
	}}
	s2nOptions = []Option{{
		Name:    "epsilon",
		Usage:   "denominator used when both standard deviations are zero",
		Default: "1e-05",
	}}
)

// DefaultRegistry registers every method using deps.
func DefaultRegistry(deps Deps) (*Registry, error) {
	if deps.Cohen == nil || deps.Shrinkage == nil || deps.Normalizer == nil {
		return nil, fmt.Errorf("default registry needs every collaborator")
	}
	norm := Normalized(deps.Normalizer)

	descriptors := []Descriptor{
		{
			Method:      MethodFoldChange,
			Name:        "Fold Change",
			Description: "Use a non-normalized, raw fold change metric.",
			Exec:        FoldChange,
		},
		{
			Method:      MethodDESeqShrinkage,
			Name:        "DESeq2 Shrinkage",
			Description: "Use DESeq2-shrunk fold changes. Always normalizes the input",
			Exec:        Shrinkage(deps.Shrinkage),
		},
		{
			Method:      MethodCohenD,
			Name:        "Cohen's d",
			Description: "Use the Cohen's d metric",
			Exec:        CohenD(deps.Cohen),
		},
		{
			Method:      MethodNormCohenD,
			Name:        "Normalized Cohen's d",
			Description: "Use a DESeq2-normalized Cohen's d metric",
			Exec:        Chain(CohenD(deps.Cohen), norm),
		},
		{
			Method:      MethodNormFoldChange,
			Name:        "Normalized Fold Change",
			Description: "Use a DESeq2-normalized fold change metric",
			Exec:        Chain(FoldChange, norm),
		},
		{
			Method:      MethodS2NRatio,
			Name:        "Signal to noise ratio",
			Description: "Use the signal to noise ratio (diff of means divided by the sum of standard deviations)",
			Options:     s2nOptions,
			Exec:        SignalToNoise,
		},
		{
			Method:      MethodNormS2NRatio,
			Name:        "Normalized signal to noise ratio",
			Description: "Use the signal to noise ratio metric on normalized data",
			Options:     s2nOptions,
			Exec:        Chain(SignalToNoise, norm),
		},
		{
			Method:      MethodBWSTest,
			Name:        "Baumgartner-Weiss-Schindler test statistic",
			Description: "Use the BWS test statistic, which works well with high N samples",
			Options:     bwsOptions,
			Exec:        BWS,
		},
		{
			Method:      MethodNormBWSTest,
			Name:        "Normalized Baumgartner-Weiss-Schindler test statistic",
			Description: "Same as BWS, but on normalized data",
			Options:     bwsOptions,
			Exec:        Chain(BWS, norm),
		},
	}

	r := NewRegistry()
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}
