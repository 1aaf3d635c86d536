package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AmountFlavor is the numeric flavor of an amount implementation.
// +kubebuilder:validation:Enum=UNDEFINED;PRECISION;FIXED_SCALE;PERFORMANCE
type AmountFlavor string

// QueryInclusionPolicy controls whether a provider answers capability queries.
// +kubebuilder:validation:Enum=ALWAYS;DIRECT_REFERENCE_ONLY;NEVER
type QueryInclusionPolicy string

type AmountProviderPhase string

const (
	AmountFlavorUndefined   AmountFlavor = "UNDEFINED"
	AmountFlavorPrecision   AmountFlavor = "PRECISION"
	AmountFlavorFixedScale  AmountFlavor = "FIXED_SCALE"
	AmountFlavorPerformance AmountFlavor = "PERFORMANCE"

	QueryInclusionAlways              QueryInclusionPolicy = "ALWAYS"
	QueryInclusionDirectReferenceOnly QueryInclusionPolicy = "DIRECT_REFERENCE_ONLY"
	QueryInclusionNever               QueryInclusionPolicy = "NEVER"

	// AmountProviderPhaseRegistered means the provider owns its amount type.
	AmountProviderPhaseRegistered AmountProviderPhase = "Registered"
	// AmountProviderPhaseShadowed means a higher priority provider owns the amount type.
	AmountProviderPhaseShadowed AmountProviderPhase = "Shadowed"
	// AmountProviderPhaseAmbiguous means another provider has the same type and priority.
	AmountProviderPhaseAmbiguous AmountProviderPhase = "Ambiguous"
	// AmountProviderPhaseInvalid means the spec could not be converted.
	AmountProviderPhaseInvalid AmountProviderPhase = "Invalid"
)

// MonetaryContextSpec describes the capability envelope of an amount implementation.
type MonetaryContextSpec struct {
	// Precision is the maximum number of significant digits. 0 means unbounded.
	// +kubebuilder:validation:Minimum=0
	Precision int32 `json:"precision,omitempty"`

	// MaxScale is the maximum number of fractional digits. Omitted or -1 means unbounded.
	// +kubebuilder:validation:Minimum=-1
	MaxScale *int32 `json:"maxScale,omitempty"`

	// +optional
	Flavor AmountFlavor `json:"flavor,omitempty"`

	// RoundingMode is informational, e.g. HALF_EVEN.
	// +optional
	RoundingMode string `json:"roundingMode,omitempty"`
}

// AmountProvider registers a monetary amount implementation with the registry.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=ap
// +kubebuilder:printcolumn:name="Type",type=string,JSONPath=`.spec.amountType`
// +kubebuilder:printcolumn:name="Priority",type=integer,JSONPath=`.spec.priority`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type AmountProvider struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AmountProviderSpec   `json:"spec"`
	Status AmountProviderStatus `json:"status,omitempty"`
}

type AmountProviderSpec struct {
	// AmountType identifies the implementation, e.g. "moneta.Money".
	// +kubebuilder:validation:MinLength=1
	AmountType string `json:"amountType"`

	// Version is the semantic version of the implementation.
	// +optional
	Version string `json:"version,omitempty"`

	// Priority decides between providers of the same amount type. Higher wins.
	// +optional
	Priority *int32 `json:"priority,omitempty"`

	// +optional
	QueryInclusionPolicy QueryInclusionPolicy `json:"queryInclusionPolicy,omitempty"`

	DefaultContext MonetaryContextSpec `json:"defaultContext"`
	MaximalContext MonetaryContextSpec `json:"maximalContext"`
}

type AmountProviderStatus struct {
	ObservedGeneration int64               `json:"observedGeneration,omitempty"`
	Phase              AmountProviderPhase `json:"phase,omitempty"`
	Message            string              `json:"message,omitempty"`
	// ShadowedBy names the provider that owns the amount type when Phase is Shadowed.
	ShadowedBy string             `json:"shadowedBy,omitempty"`
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
type AmountProviderList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []AmountProvider `json:"items"`
}

func init() {
	SchemeBuilder.Register(&AmountProvider{}, &AmountProviderList{})
}
