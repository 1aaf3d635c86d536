package controllers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	toolscache "k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/internal/registry"
)

// CatalogRefresher keeps the registry of every replica in step with the
// AmountProviders in the cluster. The reconciler writes status on the
// elected leader only; the refresher runs everywhere.
type CatalogRefresher struct {
	Informers cache.Informers
	Registry  *registry.Service
	Logger    logr.Logger
}

func (r *CatalogRefresher) NeedLeaderElection() bool { return false }

// Start loads the catalog once the informer cache has synced and reloads it
// on every AmountProvider add, spec change and delete until ctx is done.
func (r *CatalogRefresher) Start(ctx context.Context) error {
	informer, err := r.Informers.GetInformer(ctx, &monetav1alpha1.AmountProvider{})
	if err != nil {
		return fmt.Errorf("get amount provider informer: %w", err)
	}
	changes := make(chan struct{}, 1)
	if _, err := informer.AddEventHandler(amountProviderChangeHandler(changes)); err != nil {
		return fmt.Errorf("watch amount providers: %w", err)
	}

	if !r.Informers.WaitForCacheSync(ctx) {
		return nil
	}
	if _, err := r.Registry.Reload(ctx); err != nil {
		r.Logger.Error(err, "initial amount provider load failed")
	}
	return r.Registry.Run(ctx, changes)
}

// amountProviderChangeHandler signals changes without blocking. Signals
// raised while one is pending coalesce into it. Status-only updates are
// ignored.
func amountProviderChangeHandler(changes chan<- struct{}) toolscache.ResourceEventHandler {
	signal := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	return toolscache.ResourceEventHandlerFuncs{
		AddFunc: func(any) { signal() },
		UpdateFunc: func(oldObj, newObj any) {
			o, okOld := oldObj.(client.Object)
			n, okNew := newObj.(client.Object)
			if okOld && okNew && o.GetGeneration() == n.GetGeneration() {
				return
			}
			signal()
		},
		DeleteFunc: func(any) { signal() },
	}
}
