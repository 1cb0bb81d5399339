package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/weibuddies/products-service/internal/app/product/queries"
	"github.com/weibuddies/products-service/internal/app/product/queries/get_product"
	"github.com/weibuddies/products-service/internal/app/product/queries/list_products"
	"github.com/weibuddies/products-service/internal/app/product/repo"
	"github.com/weibuddies/products-service/internal/app/product/usecases/create_product"
	"github.com/weibuddies/products-service/internal/app/product/usecases/update_product"
	"github.com/weibuddies/products-service/internal/config"
	eventskafka "github.com/weibuddies/products-service/internal/events/kafka"
	"github.com/weibuddies/products-service/internal/obs"
	"github.com/weibuddies/products-service/internal/pkg/clock"
	committer "github.com/weibuddies/products-service/internal/pkg/committer"
	httpproduct "github.com/weibuddies/products-service/internal/transport/http/product"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := obs.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		logger.Info("shutdown signal received")
		cancel()
	}()

	client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		logger.Fatal("spanner client", zap.Error(err))
	}
	defer client.Close()

	writer := eventskafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer writer.Close()

	clk := clock.RealClock{}
	prodRepo := repo.NewProductRepo()
	cm := committer.NewAdapter(client)
	readModel := queries.NewSpannerReadModel(client)
	publisher := eventskafka.NewPublisher(writer, logger)

	// CQRS wiring
	cmds := httpproduct.Commands{
		Create: create_product.NewInteractor(prodRepo, cm, publisher, clk, logger),
		Update: update_product.NewInteractor(prodRepo, cm, publisher, readModel, clk, logger),
	}
	qrys := httpproduct.Queries{
		Get:  get_product.NewHandler(readModel),
		List: list_products.NewHandler(readModel),
	}
	h := httpproduct.NewHandler(cmds, qrys, logger)

	mux := http.NewServeMux()
	h.Register(mux, httpproduct.NewSessionVerifier(cfg.JWTKey))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
