package main

import (
	"context"
	"flag"
	"os"

	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	monetav1alpha1 "github.com/anvil-platform/moneta/api/v1alpha1"
	"github.com/anvil-platform/moneta/controllers"
	"github.com/anvil-platform/moneta/internal/config"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/grpcapi"
	"github.com/anvil-platform/moneta/internal/money"
	"github.com/anvil-platform/moneta/internal/registry"
	"github.com/anvil-platform/moneta/internal/resolver"
	"github.com/anvil-platform/moneta/internal/tracing"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(monetav1alpha1.AddToScheme(scheme))
}

// everyReplica runs on all replicas, not only the elected leader.
type everyReplica struct {
	manager.RunnableFunc
}

func (everyReplica) NeedLeaderElection() bool { return false }

func main() {
	var metricsAddr string
	var probeAddr string
	var grpcAddr string
	var enableLeaderElection bool
	var namespace string
	var configPath string
	var defaultAmountType string

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.StringVar(&grpcAddr, "grpc-bind-address", ":9090", "The address the amount registry gRPC API binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	flag.StringVar(&namespace, "namespace", "", "Namespace to discover AmountProviders in. Empty watches all namespaces.")
	flag.StringVar(&configPath, "config", "", "Optional registry configuration file.")
	flag.StringVar(&defaultAmountType, "default-amount-type", "", "Amount type returned when a query names no requirements.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	cfg, err := config.Load(viper.New(), configPath)
	if err != nil {
		setupLog.Error(err, "unable to load configuration")
		os.Exit(1)
	}
	if defaultAmountType == "" {
		defaultAmountType = cfg.DefaultAmountType()
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		setupLog.Error(err, "unable to set up tracing")
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: metricsAddr},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "amountprovider.moneta.anvil.dev",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	registryLog := ctrl.Log.WithName("registry")
	k8sSource := &discovery.Kubernetes{
		Reader:    mgr.GetClient(),
		Namespace: namespace,
		Logger:    registryLog.WithName("discovery"),
	}
	var manifests discovery.Source = k8sSource
	if constraint, ok := cfg.VersionConstraint(); ok {
		manifests = discovery.VersionFilter{Source: k8sSource, Constraint: constraint, Logger: registryLog}
	}
	var sources discovery.Chain
	if cfg.Providers.Builtins {
		sources = append(sources, discovery.Static(money.Providers()))
	}
	sources = append(sources, manifests)

	regOpts := []registry.Option{
		registry.WithLogger(registryLog),
		registry.WithDefaultAmountType(defaultAmountType),
	}
	if cfg.Cache.QueryTTL > 0 {
		regOpts = append(regOpts, registry.WithQueryCache(resolver.NewQueryCache(cfg.Cache.QueryTTL)))
	}
	reg := registry.New(sources, regOpts...)

	if err := (&controllers.AmountProviderReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Registry: reg,
		Source:   k8sSource,
		Recorder: mgr.GetEventRecorderFor("AmountProvider"),
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "AmountProvider")
		os.Exit(1)
	}

	if err := mgr.Add(&controllers.CatalogRefresher{
		Informers: mgr.GetCache(),
		Registry:  reg,
		Logger:    registryLog,
	}); err != nil {
		setupLog.Error(err, "unable to add catalog refresher")
		os.Exit(1)
	}

	srv := grpcapi.NewServer(reg.Resolver(),
		grpcapi.WithTracer(tp.Tracer()),
		grpcapi.WithLogger(ctrl.Log.WithName("grpc")),
	)
	if err := mgr.Add(everyReplica{manager.RunnableFunc(func(ctx context.Context) error {
		setupLog.Info("serving amount registry", "address", grpcAddr)
		return grpcapi.Serve(ctx, grpcAddr, srv)
	})}); err != nil {
		setupLog.Error(err, "unable to add gRPC server")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
