package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/internal/amount"
)

// Kubernetes discovers providers from AmountProvider objects in one namespace.
// Objects are ordered by creation time, then name. Objects being deleted are
// ignored and invalid objects are logged and skipped.
type Kubernetes struct {
	Reader    client.Reader
	Namespace string
	Logger    logr.Logger
}

func (k *Kubernetes) Discover(ctx context.Context) ([]amount.Provider, error) {
	objs, err := k.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]amount.Provider, 0, len(objs))
	for i := range objs {
		desc, err := FromManifest(&objs[i])
		if err != nil {
			k.Logger.Info("skipping invalid amount provider", "amountProvider", ManifestName(&objs[i]), "error", err.Error())
			continue
		}
		out = append(out, desc)
	}
	return out, nil
}

// List returns the live AmountProviders in discovery order.
func (k *Kubernetes) List(ctx context.Context) ([]monetav1alpha1.AmountProvider, error) {
	var list monetav1alpha1.AmountProviderList
	if err := k.Reader.List(ctx, &list, client.InNamespace(k.Namespace)); err != nil {
		return nil, fmt.Errorf("list amount providers: %w", err)
	}

	items := make([]monetav1alpha1.AmountProvider, 0, len(list.Items))
	for _, item := range list.Items {
		if item.DeletionTimestamp != nil {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].CreationTimestamp, items[j].CreationTimestamp
		if !ti.Equal(&tj) {
			return ti.Before(&tj)
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}
