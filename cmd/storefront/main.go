package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"google.golang.org/api/option"

	authapp "github.com/Koushik0914/ecospha-organics/internal/auth/app"
	authfirestore "github.com/Koushik0914/ecospha-organics/internal/auth/infra/firestore"
	"github.com/Koushik0914/ecospha-organics/internal/auth/infra/identitytoolkit"
	authmemory "github.com/Koushik0914/ecospha-organics/internal/auth/infra/memory"
	cartapp "github.com/Koushik0914/ecospha-organics/internal/cart/app"
	cartmemory "github.com/Koushik0914/ecospha-organics/internal/cart/infra/memory"
	cartredis "github.com/Koushik0914/ecospha-organics/internal/cart/infra/redis"
	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	catalogfirestore "github.com/Koushik0914/ecospha-organics/internal/catalog/infra/firestore"
	catalogmemdb "github.com/Koushik0914/ecospha-organics/internal/catalog/infra/memdb"
	checkoutapp "github.com/Koushik0914/ecospha-organics/internal/checkout/app"
	"github.com/Koushik0914/ecospha-organics/internal/gateway"
	orderapp "github.com/Koushik0914/ecospha-organics/internal/order/app"
	orderfirestore "github.com/Koushik0914/ecospha-organics/internal/order/infra/firestore"
	ordermemdb "github.com/Koushik0914/ecospha-organics/internal/order/infra/memdb"
	testimonialapp "github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
	testimonialfirestore "github.com/Koushik0914/ecospha-organics/internal/testimonial/infra/firestore"
	testimonialmemdb "github.com/Koushik0914/ecospha-organics/internal/testimonial/infra/memdb"
	"github.com/Koushik0914/ecospha-organics/pkg/config"
	"github.com/Koushik0914/ecospha-organics/pkg/logger"
	"github.com/Koushik0914/ecospha-organics/pkg/shutdown"
)

type backends struct {
	products     catalogapp.ProductRepo
	testimonials testimonialapp.TestimonialRepo
	userOrders   orderapp.UserOrderRepo
	adminOrders  orderapp.AdminOrderRepo
	cartStorage  cartapp.Storage
	provider     authapp.Provider
	authorizer   authapp.Authorizer
	close        func()
}

func buildFirestoreBackends(ctx context.Context, cfg config.Config) (backends, error) {
	var opts []option.ClientOption
	if cfg.FirestoreCredsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.FirestoreProject, opts...)
	if err != nil {
		return backends{}, fmt.Errorf("firestore client: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return backends{}, fmt.Errorf("redis ping: %w", err)
	}

	return backends{
		products:     catalogfirestore.NewProductRepo(client),
		testimonials: testimonialfirestore.NewTestimonialRepo(client),
		userOrders:   orderfirestore.NewUserOrderRepo(client),
		adminOrders:  orderfirestore.NewAdminOrderRepo(client),
		cartStorage:  cartredis.NewStorage(rdb),
		provider:     identitytoolkit.NewProvider(cfg.IdentityAPIKey),
		authorizer:   authfirestore.NewRoleAuthorizer(client),
		close: func() {
			_ = rdb.Close()
			_ = client.Close()
		},
	}, nil
}

func buildMemoryBackends(cfg config.Config) (backends, error) {
	products, err := catalogmemdb.NewProductRepo()
	if err != nil {
		return backends{}, fmt.Errorf("product store: %w", err)
	}
	testimonials, err := testimonialmemdb.NewTestimonialRepo()
	if err != nil {
		return backends{}, fmt.Errorf("testimonial store: %w", err)
	}
	userOrders, err := ordermemdb.NewUserOrderRepo()
	if err != nil {
		return backends{}, fmt.Errorf("user order store: %w", err)
	}
	adminOrders, err := ordermemdb.NewAdminOrderRepo()
	if err != nil {
		return backends{}, fmt.Errorf("admin order store: %w", err)
	}

	return backends{
		products:     products,
		testimonials: testimonials,
		userOrders:   userOrders,
		adminOrders:  adminOrders,
		cartStorage:  cartmemory.NewStorage(),
		provider:     authmemory.NewProvider(),
		authorizer:   authapp.NewStaticAuthorizer(cfg.AdminUIDs),
		close:        func() {},
	}, nil
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	var (
		be  backends
		err error
	)
	switch cfg.Backend {
	case config.BackendFirestore:
		be, err = buildFirestoreBackends(ctx, cfg)
	case config.BackendMemory:
		be, err = buildMemoryBackends(cfg)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		log.Error("backend init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer be.close()

	cartSvc := cartapp.NewService(be.cartStorage, log)
	flow := checkoutapp.NewFlow(cartSvc, cfg.CheckoutConfirmWait, log)

	server := gateway.NewServer(
		catalogapp.NewService(be.products),
		cartSvc,
		flow,
		orderapp.NewService(cartSvc, be.userOrders, be.adminOrders, flow, log),
		testimonialapp.NewService(be.testimonials),
		authapp.NewService(be.provider, be.authorizer, log),
		log,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No write timeout: the live-query streams stay open until the
		// client disconnects.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("backend", cfg.Backend))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
