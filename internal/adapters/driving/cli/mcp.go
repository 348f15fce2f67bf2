package cli

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lifeops/internal/adapters/driving/mcp"
	"github.com/custodia-labs/lifeops/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can call the
item tools (createItem, bulkDeleteItems, executeMultiOperation, ...).

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead; /metrics is served on the same
port. In stdio mode, --metrics-addr starts a separate metrics listener.

Examples:
  # Stdio mode (default)
  lifeops mcp serve

  # HTTP mode with metrics at http://localhost:8080/metrics
  lifeops mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "lifeops": {
        "command": "/path/to/lifeops",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("metrics-addr", "", "address for the Prometheus /metrics listener (default metrics.addr)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return fmt.Errorf("getting metrics-addr flag: %w", err)
	}
	if metricsAddr == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			metricsAddr = settings.Metrics.Addr
		}
	}

	ports := &mcp.Ports{
		Items:    itemService,
		Bulk:     bulkService,
		Program:  programService,
		Routine:  routineService,
		Sync:     syncService,
		Settings: settingsService,
	}

	var opts []mcp.Option
	if metricsRecorder != nil {
		opts = append(opts, mcp.WithMetricsHandler(metricsRecorder.Handler()))
	}
	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	if metricsAddr != "" && metricsRecorder != nil {
		go serveMetrics(metricsAddr, metricsRecorder.Handler())
	}
	return server.Run(cmd.Context())
}

func serveMetrics(addr string, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	logger.Info("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener: %v", err)
	}
}
