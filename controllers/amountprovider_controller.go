package controllers

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/catalog"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/registry"
)

const controllerAmountProvider = "AmountProvider"

// AmountProviderReconciler rebuilds the provider catalog whenever an
// AmountProvider changes and reports each provider's registration outcome in
// its status.
//
// RBAC:
// +kubebuilder:rbac:groups=moneta.anvil.dev,resources=amountproviders,verbs=get;list;watch
// +kubebuilder:rbac:groups=moneta.anvil.dev,resources=amountproviders/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type AmountProviderReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Registry *registry.Service
	// Source must be the source Registry discovers from.
	Source   *discovery.Kubernetes
	Recorder record.EventRecorder
}

func (r *AmountProviderReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	monetaControllerReconcileTotal.WithLabelValues(controllerAmountProvider).Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", controllerAmountProvider,
		"namespace", req.Namespace,
		"amountProvider", req.Name,
	)

	if r.Source.Namespace != "" && req.Namespace != r.Source.Namespace {
		return ctrl.Result{}, nil
	}

	objs, err := r.Source.List(ctx)
	if err != nil {
		monetaControllerReconcileErrorTotal.WithLabelValues(controllerAmountProvider).Inc()
		return ctrl.Result{}, err
	}

	cat, err := r.Registry.Reload(ctx)
	var ambiguous *catalog.AmbiguousRegistrationError
	switch {
	case errors.As(err, &ambiguous):
		logger.Info("amount provider catalog is ambiguous, previous catalog stays live", "error", err.Error())
		for i := range objs {
			name := discovery.ManifestName(&objs[i])
			if name != ambiguous.Existing && name != ambiguous.Incoming {
				continue
			}
			other := ambiguous.Existing
			if name == other {
				other = ambiguous.Incoming
			}
			msg := fmt.Sprintf("%s has the same amount type %s and priority %d", other, ambiguous.AmountType, ambiguous.Priority)
			if err := r.applyStatus(ctx, &objs[i], monetav1alpha1.AmountProviderPhaseAmbiguous, msg, ""); err != nil {
				monetaControllerReconcileErrorTotal.WithLabelValues(controllerAmountProvider).Inc()
				return ctrl.Result{}, err
			}
		}
		return ctrl.Result{}, nil
	case err != nil:
		monetaControllerReconcileErrorTotal.WithLabelValues(controllerAmountProvider).Inc()
		return ctrl.Result{}, err
	}

	for i := range objs {
		phase, msg, shadowedBy := registrationOutcome(&objs[i], cat)
		if err := r.applyStatus(ctx, &objs[i], phase, msg, shadowedBy); err != nil {
			monetaControllerReconcileErrorTotal.WithLabelValues(controllerAmountProvider).Inc()
			return ctrl.Result{}, err
		}
	}

	logger.V(1).Info("amount providers reconciled", "objects", len(objs), "registered", cat.Len(), "generation", cat.Generation())
	return ctrl.Result{}, nil
}

// registrationOutcome reports how obj fared in cat.
func registrationOutcome(obj *monetav1alpha1.AmountProvider, cat *catalog.Catalog) (monetav1alpha1.AmountProviderPhase, string, string) {
	desc, err := discovery.FromManifest(obj)
	if err != nil {
		return monetav1alpha1.AmountProviderPhaseInvalid, err.Error(), ""
	}

	winner, ok := cat.Lookup(desc.AmountType())
	if !ok {
		return monetav1alpha1.AmountProviderPhaseInvalid, "excluded from the catalog by the provider version constraint", ""
	}
	if winnerName := amount.NameOf(winner); winnerName != desc.Name() {
		return monetav1alpha1.AmountProviderPhaseShadowed,
			fmt.Sprintf("amount type %s is provided by %s with priority %d", desc.AmountType(), winnerName, amount.PriorityOf(winner)),
			winnerName
	}
	return monetav1alpha1.AmountProviderPhaseRegistered, fmt.Sprintf("registered for amount type %s", desc.AmountType()), ""
}

func (r *AmountProviderReconciler) applyStatus(ctx context.Context, obj *monetav1alpha1.AmountProvider, phase monetav1alpha1.AmountProviderPhase, message, shadowedBy string) error {
	before := obj.DeepCopy()

	obj.Status.ObservedGeneration = obj.Generation
	obj.Status.Phase = phase
	obj.Status.Message = message
	obj.Status.ShadowedBy = shadowedBy

	cond := metav1.Condition{
		Type:    AmountProviderConditionRegistered,
		Status:  metav1.ConditionFalse,
		Reason:  string(phase),
		Message: message,
	}
	if phase == monetav1alpha1.AmountProviderPhaseRegistered {
		cond.Status = metav1.ConditionTrue
	}
	setAmountProviderCondition(obj, cond)

	if equality.Semantic.DeepEqual(before.Status, obj.Status) {
		return nil
	}
	if err := r.Status().Patch(ctx, obj, client.MergeFrom(before)); err != nil {
		return client.IgnoreNotFound(err)
	}

	if before.Status.Phase != phase {
		amountProviderPhaseTransitionsTotal.WithLabelValues(string(phase)).Inc()
		eventType := corev1.EventTypeNormal
		if phase == monetav1alpha1.AmountProviderPhaseAmbiguous || phase == monetav1alpha1.AmountProviderPhaseInvalid {
			eventType = corev1.EventTypeWarning
		}
		r.recordEventf(obj, eventType, string(phase), "%s", message)
	}
	return nil
}

func (r *AmountProviderReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *AmountProviderReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&monetav1alpha1.AmountProvider{}, builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		Complete(r)
}
