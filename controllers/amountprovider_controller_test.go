package controllers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/money"
	"github.com/anvil-platform/moneta/internal/registry"
)

const testNamespace = "moneta-test"

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func int32Ptr(v int32) *int32 { return &v }

func newAmountProvider(name, amountType string, priority int32, created time.Duration) *monetav1alpha1.AmountProvider {
	return &monetav1alpha1.AmountProvider{
		TypeMeta: metav1.TypeMeta{APIVersion: "moneta.anvil.dev/v1alpha1", Kind: "AmountProvider"},
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         testNamespace,
			Generation:        1,
			CreationTimestamp: metav1.NewTime(baseTime.Add(created)),
		},
		Spec: monetav1alpha1.AmountProviderSpec{
			AmountType: amountType,
			Version:    "1.0.0",
			Priority:   int32Ptr(priority),
			DefaultContext: monetav1alpha1.MonetaryContextSpec{
				Precision: 64,
				MaxScale:  int32Ptr(63),
				Flavor:    monetav1alpha1.AmountFlavorPrecision,
			},
			MaximalContext: monetav1alpha1.MonetaryContextSpec{
				Flavor: monetav1alpha1.AmountFlavorPrecision,
			},
		},
	}
}

func newReconciler(t *testing.T, objs ...client.Object) (*AmountProviderReconciler, client.Client, *record.FakeRecorder) {
	t.Helper()

	scheme := runtime.NewScheme()
	if err := monetav1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	cl := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithStatusSubresource(&monetav1alpha1.AmountProvider{}).
		Build()

	src := &discovery.Kubernetes{Reader: cl, Namespace: testNamespace, Logger: logr.Discard()}
	recorder := record.NewFakeRecorder(32)
	r := &AmountProviderReconciler{
		Client:   cl,
		Scheme:   scheme,
		Registry: registry.New(src),
		Source:   src,
		Recorder: recorder,
	}
	return r, cl, recorder
}

func reconcileOne(t *testing.T, r *AmountProviderReconciler, name string) {
	t.Helper()
	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: testNamespace, Name: name}})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
}

func getProvider(t *testing.T, cl client.Client, name string) monetav1alpha1.AmountProvider {
	t.Helper()
	var obj monetav1alpha1.AmountProvider
	if err := cl.Get(context.Background(), types.NamespacedName{Namespace: testNamespace, Name: name}, &obj); err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return obj
}

func TestAmountProviderReconcile_RegistersAndShadows(t *testing.T) {
	winner := newAmountProvider("decimal-fast", "acme.Decimal", 10, time.Minute)
	loser := newAmountProvider("decimal", "acme.Decimal", 0, 0)
	other := newAmountProvider("cents", "acme.Cents", 0, 2*time.Minute)

	r, cl, recorder := newReconciler(t, winner, loser, other)
	reconcileOne(t, r, "decimal-fast")

	got := getProvider(t, cl, "decimal-fast")
	if got.Status.Phase != monetav1alpha1.AmountProviderPhaseRegistered {
		t.Fatalf("expected decimal-fast Registered, got %q (%s)", got.Status.Phase, got.Status.Message)
	}
	if got.Status.ObservedGeneration != 1 {
		t.Fatalf("expected observedGeneration 1, got %d", got.Status.ObservedGeneration)
	}
	if len(got.Status.Conditions) != 1 || got.Status.Conditions[0].Status != metav1.ConditionTrue {
		t.Fatalf("expected Registered=True condition, got %+v", got.Status.Conditions)
	}

	shadowed := getProvider(t, cl, "decimal")
	if shadowed.Status.Phase != monetav1alpha1.AmountProviderPhaseShadowed {
		t.Fatalf("expected decimal Shadowed, got %q", shadowed.Status.Phase)
	}
	if shadowed.Status.ShadowedBy != testNamespace+"/decimal-fast" {
		t.Fatalf("expected shadowedBy decimal-fast, got %q", shadowed.Status.ShadowedBy)
	}

	if getProvider(t, cl, "cents").Status.Phase != monetav1alpha1.AmountProviderPhaseRegistered {
		t.Fatalf("expected cents Registered")
	}

	if registered := r.Registry.Resolver().AmountTypes(); len(registered) != 2 {
		t.Fatalf("expected 2 amount types in the live catalog, got %v", registered)
	}
	if len(recorder.Events) != 3 {
		t.Fatalf("expected one event per phase change, got %d", len(recorder.Events))
	}

	// A second pass with nothing changed leaves status and events alone.
	reconcileOne(t, r, "decimal-fast")
	if len(recorder.Events) != 3 {
		t.Fatalf("expected no new events, got %d", len(recorder.Events))
	}
}

func TestAmountProviderReconcile_AmbiguousKeepsPreviousCatalog(t *testing.T) {
	first := newAmountProvider("first", "acme.Decimal", 5, 0)
	r, cl, _ := newReconciler(t, first)
	reconcileOne(t, r, "first")

	before := r.Registry.Catalog().Generation()
	if before == "" {
		t.Fatalf("expected a catalog generation after the first reconcile")
	}

	second := newAmountProvider("second", "acme.Decimal", 5, time.Minute)
	if err := cl.Create(context.Background(), second); err != nil {
		t.Fatalf("create: %v", err)
	}
	reconcileOne(t, r, "second")

	if got := r.Registry.Catalog().Generation(); got != before {
		t.Fatalf("expected previous catalog %s to stay live, got %s", before, got)
	}
	for _, name := range []string{"first", "second"} {
		obj := getProvider(t, cl, name)
		if obj.Status.Phase != monetav1alpha1.AmountProviderPhaseAmbiguous {
			t.Fatalf("expected %s Ambiguous, got %q", name, obj.Status.Phase)
		}
		if !strings.Contains(obj.Status.Message, "priority 5") {
			t.Fatalf("expected message to name the priority, got %q", obj.Status.Message)
		}
	}
}

func TestAmountProviderReconcile_InvalidSpec(t *testing.T) {
	bad := newAmountProvider("bad", "acme.Bad", 0, 0)
	bad.Spec.MaximalContext.Precision = -3
	good := newAmountProvider("good", "acme.Good", 0, time.Minute)

	r, cl, recorder := newReconciler(t, bad, good)
	reconcileOne(t, r, "bad")

	obj := getProvider(t, cl, "bad")
	if obj.Status.Phase != monetav1alpha1.AmountProviderPhaseInvalid {
		t.Fatalf("expected Invalid, got %q", obj.Status.Phase)
	}
	if obj.Status.Conditions[0].Status != metav1.ConditionFalse {
		t.Fatalf("expected Registered=False condition")
	}
	if getProvider(t, cl, "good").Status.Phase != monetav1alpha1.AmountProviderPhaseRegistered {
		t.Fatalf("expected the valid provider to register")
	}

	var warning bool
	for len(recorder.Events) > 0 {
		if strings.HasPrefix(<-recorder.Events, "Warning Invalid") {
			warning = true
		}
	}
	if !warning {
		t.Fatalf("expected a Warning event for the invalid provider")
	}
}

func TestAmountProviderReconcile_IgnoresOtherNamespaces(t *testing.T) {
	r, _, _ := newReconciler(t)
	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: "elsewhere", Name: "x"}})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if r.Registry.Catalog().Generation() != "" {
		t.Fatalf("expected no reload for a foreign namespace")
	}
}

func TestAmountProviderReconcile_BuiltinNamespaceIsInvalid(t *testing.T) {
	impostor := newAmountProvider("money", string(money.MoneyType), 0, 0)
	impostor.Namespace = money.Namespace

	r, cl, _ := newReconciler(t, impostor)
	r.Source.Namespace = ""
	r.Registry = registry.New(discovery.Chain{discovery.Static(money.Providers()), r.Source})

	_, err := r.Reconcile(context.Background(), ctrl.Request{NamespacedName: types.NamespacedName{Namespace: money.Namespace, Name: "money"}})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var obj monetav1alpha1.AmountProvider
	if err := cl.Get(context.Background(), types.NamespacedName{Namespace: money.Namespace, Name: "money"}, &obj); err != nil {
		t.Fatalf("get: %v", err)
	}
	if obj.Status.Phase != monetav1alpha1.AmountProviderPhaseInvalid {
		t.Fatalf("expected Invalid, got %q", obj.Status.Phase)
	}
	if !strings.Contains(obj.Status.Message, "reserved") {
		t.Fatalf("expected message to name the reserved namespace, got %q", obj.Status.Message)
	}
}
