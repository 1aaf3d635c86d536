package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/money"
	"github.com/anvil-platform/moneta/internal/semver"
)

const kindAmountProvider = "AmountProvider"

// ErrInvalidManifest indicates an AmountProvider that cannot be turned into a provider.
var ErrInvalidManifest = errors.New("discovery: invalid amount provider manifest")

// DecodeManifests decodes every AmountProvider document in a YAML or JSON
// stream. Documents of other kinds and empty documents are skipped.
func DecodeManifests(data []byte) ([]monetav1alpha1.AmountProvider, error) {
	dec := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)

	var out []monetav1alpha1.AmountProvider
	for {
		var obj monetav1alpha1.AmountProvider
		if err := dec.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		if obj.Kind == "" && obj.APIVersion == "" && obj.Spec.AmountType == "" {
			continue
		}
		if obj.Kind != kindAmountProvider {
			continue
		}
		if obj.APIVersion != monetav1alpha1.GroupVersion.String() {
			return nil, fmt.Errorf("%w: %s %q has apiVersion %q, want %q",
				ErrInvalidManifest, obj.Kind, obj.Name, obj.APIVersion, monetav1alpha1.GroupVersion.String())
		}
		out = append(out, obj)
	}
}

// FromManifest converts an AmountProvider into a provider descriptor named
// after the object.
func FromManifest(obj *monetav1alpha1.AmountProvider) (*amount.Descriptor, error) {
	if strings.HasPrefix(manifestName(obj), money.Namespace+"/") {
		return nil, fmt.Errorf("%w: %s: namespace %q is reserved for built-in providers", ErrInvalidManifest, manifestName(obj), money.Namespace)
	}
	spec := obj.Spec
	amountType := strings.TrimSpace(spec.AmountType)
	if amountType == "" {
		return nil, fmt.Errorf("%w: %s: spec.amountType is required", ErrInvalidManifest, manifestName(obj))
	}

	policy, err := amount.ParseQueryInclusionPolicy(string(spec.QueryInclusionPolicy))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, manifestName(obj), err)
	}
	def, err := toContext(spec.DefaultContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: defaultContext: %v", ErrInvalidManifest, manifestName(obj), err)
	}
	maximal, err := toContext(spec.MaximalContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: maximalContext: %v", ErrInvalidManifest, manifestName(obj), err)
	}

	opts := []amount.DescriptorOption{amount.WithPolicy(policy)}
	if spec.Priority != nil {
		opts = append(opts, amount.WithPriority(int(*spec.Priority)))
	}
	if v := strings.TrimSpace(spec.Version); v != "" {
		if _, err := semver.ParseVersion(v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, manifestName(obj), err)
		}
		opts = append(opts, amount.WithVersion(v))
	}
	return amount.NewDescriptor(manifestName(obj), amount.Type(amountType), def, maximal, opts...), nil
}

func toContext(spec monetav1alpha1.MonetaryContextSpec) (amount.Context, error) {
	if spec.Precision < 0 {
		return amount.Context{}, fmt.Errorf("precision %d is negative", spec.Precision)
	}
	maxScale := amount.UnboundedScale
	if spec.MaxScale != nil {
		if *spec.MaxScale < amount.UnboundedScale {
			return amount.Context{}, fmt.Errorf("maxScale %d is below -1", *spec.MaxScale)
		}
		maxScale = int(*spec.MaxScale)
	}
	flavor, err := amount.ParseFlavor(string(spec.Flavor))
	if err != nil {
		return amount.Context{}, err
	}
	return amount.Context{
		Precision:    int(spec.Precision),
		MaxScale:     maxScale,
		Flavor:       flavor,
		RoundingMode: amount.RoundingMode(strings.ToUpper(strings.TrimSpace(spec.RoundingMode))),
	}, nil
}

// ManifestName returns the provider name FromManifest assigns to obj.
func ManifestName(obj *monetav1alpha1.AmountProvider) string { return manifestName(obj) }

func manifestName(obj *monetav1alpha1.AmountProvider) string {
	if obj.Namespace == "" {
		return obj.Name
	}
	return obj.Namespace + "/" + obj.Name
}
