package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *AmountProvider) DeepCopyInto(out *AmountProvider) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new AmountProvider.
func (in *AmountProvider) DeepCopy() *AmountProvider {
	if in == nil {
		return nil
	}
	out := new(AmountProvider)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *AmountProvider) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *AmountProviderList) DeepCopyInto(out *AmountProviderList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]AmountProvider, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new AmountProviderList.
func (in *AmountProviderList) DeepCopy() *AmountProviderList {
	if in == nil {
		return nil
	}
	out := new(AmountProviderList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *AmountProviderList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *AmountProviderSpec) DeepCopyInto(out *AmountProviderSpec) {
	*out = *in
	if in.Priority != nil {
		out.Priority = new(int32)
		*out.Priority = *in.Priority
	}
	in.DefaultContext.DeepCopyInto(&out.DefaultContext)
	in.MaximalContext.DeepCopyInto(&out.MaximalContext)
}

// DeepCopy copies the receiver, creating a new AmountProviderSpec.
func (in *AmountProviderSpec) DeepCopy() *AmountProviderSpec {
	if in == nil {
		return nil
	}
	out := new(AmountProviderSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *MonetaryContextSpec) DeepCopyInto(out *MonetaryContextSpec) {
	*out = *in
	if in.MaxScale != nil {
		out.MaxScale = new(int32)
		*out.MaxScale = *in.MaxScale
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *AmountProviderStatus) DeepCopyInto(out *AmountProviderStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new AmountProviderStatus.
func (in *AmountProviderStatus) DeepCopy() *AmountProviderStatus {
	if in == nil {
		return nil
	}
	out := new(AmountProviderStatus)
	in.DeepCopyInto(out)
	return out
}
