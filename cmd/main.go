package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "contentorchestrator/docs"
	"contentorchestrator/internal/app"
	"contentorchestrator/internal/config"
	"contentorchestrator/internal/logger"
	"contentorchestrator/internal/models"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "contentorchestrator",
	Short:         "Генерация и публикация контента на внешних площадках",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("ошибка загрузки конфига: %w", err)
		}
		logger.InitLogger(cfg)

		warnings, err := cfg.Validate()
		if err != nil {
			return err
		}
		for _, w := range warnings {
			logger.Log.Warn("Конфигурация", zap.String("warning", w))
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API и планировщик публикаций",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		stopScheduler := a.Scheduler.Start(ctx)
		defer stopScheduler()

		router := a.Router()
		router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		})

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           corsMiddleware.Handler(router),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Log.Info("Остановка сервера")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Воркеры генерации контента",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		// задачи, зависшие после падения этого воркера, возвращаем в очередь
		n, err := a.Queue.Recover(ctx)
		if err != nil {
			return fmt.Errorf("восстановление очереди: %w", err)
		}
		if n > 0 {
			logger.Log.Warn("Возвращены незавершённые задачи", zap.Int("count", n))
		}

		a.Worker().Run(ctx, a.Queue, cfg.WorkerConcurrency)
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Один проход планировщика публикаций",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		rep := a.Scheduler.Sweep(cmd.Context(), time.Now().UTC())
		fmt.Printf("due=%d claimed=%d published=%d failed=%d\n", rep.Due, rep.Claimed, rep.Published, rep.Failed)
		return nil
	},
}

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <articleId>",
	Short: "Поставить статью на повторную генерацию",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		art, err := a.Content.Reprocess(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if art.ProcessingStatus == models.ProcessingPending {
			fmt.Printf("article %s queued\n", art.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, workerCmd, sweepCmd, reprocessCmd)
}

// @title          Content Orchestrator API
// @version        1.0
// @description    Генерация статей из видео и статей Medium, публикация на LinkedIn, Medium, XING, RSS и сайт.
// @BasePath       /
func main() {
	err := rootCmd.ExecuteContext(context.Background())
	_ = logger.Log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
