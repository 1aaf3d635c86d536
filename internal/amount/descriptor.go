package amount

import "fmt"

// Descriptor is a declarative Provider: the capability envelopes, policy and
// priority of an amount implementation without any behaviour of its own.
// Built-in providers and manifest-defined providers are both Descriptors.
type Descriptor struct {
	name       string
	amountType Type
	version    string
	priority   int
	policy     QueryInclusionPolicy
	def        Context
	maximal    Context
}

// DescriptorOption customises a Descriptor.
type DescriptorOption func(*Descriptor)

// WithPriority sets the registration priority.
func WithPriority(priority int) DescriptorOption {
	return func(d *Descriptor) { d.priority = priority }
}

// WithPolicy sets the query inclusion policy.
func WithPolicy(policy QueryInclusionPolicy) DescriptorOption {
	return func(d *Descriptor) { d.policy = policy }
}

// WithVersion records the semantic version of the implementation.
func WithVersion(version string) DescriptorOption {
	return func(d *Descriptor) { d.version = version }
}

// NewDescriptor returns a descriptor for amountType. Both contexts are bound
// to amountType.
func NewDescriptor(name string, amountType Type, def, maximal Context, opts ...DescriptorOption) *Descriptor {
	d := &Descriptor{
		name:       name,
		amountType: amountType,
		def:        def.WithAmountType(amountType),
		maximal:    maximal.WithAmountType(amountType),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Descriptor) Name() string                               { return d.name }
func (d *Descriptor) AmountType() Type                           { return d.amountType }
func (d *Descriptor) Version() string                            { return d.version }
func (d *Descriptor) Priority() int                              { return d.priority }
func (d *Descriptor) QueryInclusionPolicy() QueryInclusionPolicy { return d.policy }
func (d *Descriptor) DefaultContext() Context                    { return d.def }
func (d *Descriptor) MaximalContext() Context                    { return d.maximal }

// NewFactory returns a factory working under the default context.
func (d *Descriptor) NewFactory() Factory {
	return &contextFactory{amountType: d.amountType, ctx: d.def, maximal: d.maximal}
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s[%s priority=%d policy=%s]", d.name, d.amountType, d.priority, d.policy)
}

type contextFactory struct {
	amountType Type
	ctx        Context
	maximal    Context
}

func (f *contextFactory) AmountType() Type        { return f.amountType }
func (f *contextFactory) Context() Context        { return f.ctx }
func (f *contextFactory) MaximalContext() Context { return f.maximal }

func (f *contextFactory) WithContext(ctx Context) (Factory, error) {
	if ctx.AmountType != "" && ctx.AmountType != f.amountType {
		return nil, fmt.Errorf("%w: context is bound to %s, factory creates %s", ErrContextExceedsMaximal, ctx.AmountType, f.amountType)
	}
	if !IsCompatible(ctx, f.maximal) {
		return nil, fmt.Errorf("%w: required=%s maximal=%s", ErrContextExceedsMaximal, ctx, f.maximal)
	}
	return &contextFactory{amountType: f.amountType, ctx: ctx.WithAmountType(f.amountType), maximal: f.maximal}, nil
}
