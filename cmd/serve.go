package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-assistant/internal/api"
	"github.com/spigell/job-assistant/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	searcher, cleanup, err := e.newSearcher(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	saved, err := e.newSavedStore(ctx)
	if err != nil {
		return err
	}
	defer saved.Close()

	log := logger.Named(e.logger, "api")
	handler := api.NewHandler(api.Options{
		Assistant:  e.newAssistant(ctx),
		Searcher:   searcher,
		Saved:      saved,
		Interviews: e.newInterviewStore(),
		Logger:     log,
	})

	srv := &http.Server{
		Addr:              e.config.Server.Addr,
		Handler:           api.SetupRoutes(handler, api.BuildInfo{Version: version, BuildTime: buildTime}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
