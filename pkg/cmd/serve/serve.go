package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/zortex/internal/api"
	"github.com/Paintersrp/zortex/internal/state"
)

const shutdownTimeout = 5 * time.Second

func NewCmdServe(s *state.State) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search and link resolution over HTTP.",
		Long: heredoc.Doc(`
			Starts a JSON API for editor integrations and watches the notes
			directory so that edits are picked up without restarting.

			Endpoints:
			  GET  /health
			  GET  /api/search?q=words&limit=N
			  GET  /api/resolve?link=[...]&current=path
			  GET  /api/link?path=file&line=N
			  GET  /api/documents
			  GET  /api/tags
			  GET  /api/history
			  POST /api/history  {"file": "...", "line": N, "tokens": [...]}
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = s.Workspace.Server.Addr
			}
			if err := s.Watch(); err != nil {
				return err
			}
			if err := s.Index.Refresh(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(s, s.Log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from the workspace server.addr)")

	return cmd
}
