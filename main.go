package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/norun9/mobileshop/authstore"
	"github.com/norun9/mobileshop/cartstore"
	"github.com/norun9/mobileshop/catalog"
	"github.com/norun9/mobileshop/loginstore"
	"github.com/norun9/mobileshop/notify"
)

const (
	defaultPort       = "8080"
	defaultLoginDelay = time.Second
)

func main() {
	ctx := context.Background()

	log := logrus.New()
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
	logrus.SetOutput(log.Out)
	logrus.SetFormatter(log.Formatter)

	// Tracing is enabled only when a collector endpoint is configured.
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		tp, err := initTracerProvider(ctx, endpoint)
		if err != nil {
			log.Fatalf("failed to initialize tracer provider: %v", err)
		}
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				log.Warnf("error shutting down tracer provider: %v", err)
			}
		}()
	}

	// Login-record store: Redis when configured, in-memory otherwise (a
	// restart then always starts logged out).
	var logins loginstore.ILoginStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		log.Infof("using RedisLoginStore at %s", redisAddr)
		redisStore, err := loginstore.NewRedisLoginStore(redisAddr)
		if err != nil {
			log.Fatalf("failed to create RedisLoginStore: %v", err)
		}
		if err := redisStore.Initialize(ctx); err != nil {
			log.Fatalf("failed to initialize RedisLoginStore: %v", err)
		}
		logins = redisStore
	} else {
		log.Info("REDIS_ADDR not set, using in-memory login store")
		logins = loginstore.NewLocalLoginStore()
	}

	loginDelay := defaultLoginDelay
	if v := os.Getenv("LOGIN_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid LOGIN_DELAY %q: %v", v, err)
		}
		loginDelay = d
	}

	auth := authstore.New(authstore.NewMockAuthenticator(loginDelay), logins)
	// Restore a saved login before the server accepts any request.
	if err := auth.Restore(ctx); err != nil {
		log.Warnf("failed to restore saved login: %v", err)
	}

	fe := &frontendServer{
		catalog:  catalog.Default(),
		cart:     cartstore.New(),
		auth:     auth,
		logins:   logins,
		notifier: notify.LogNotifier{},
	}

	r := fe.routes()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           &logHandler{log: log, next: r},
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("received shutdown signal, initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("server shutdown: %v", err)
		}
	}()

	log.Infof("mobileshop listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("failed to serve: %v", err)
	}
}

// initTracerProvider sets up the OTLP trace exporter and registers the
// TracerProvider globally with W3C trace-context propagation.
func initTracerProvider(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("mobileshop"),
			semconv.ServiceVersionKey.String("v1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}
