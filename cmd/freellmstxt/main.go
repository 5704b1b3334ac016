package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/config"
	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/crawl"
	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/llmstxt"
	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	root := &cobra.Command{
		Use:           "freellmstxt",
		Short:         "Generate llms.txt documents for websites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		maxURLs int
		timeout int
		output  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Crawl a website and print its llms.txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			crawler := crawl.New(crawl.Options{
				MaxURLs: maxURLs,
				Timeout: time.Duration(timeout) * time.Second,
			})
			base := crawl.NormalizeBase(args[0])

			result, err := crawler.Discover(ctx, base)
			if verbose || err != nil {
				for _, line := range result.Log {
					fmt.Fprintln(os.Stderr, line)
				}
			}
			if err != nil {
				if errors.Is(err, crawl.ErrNoURLsDiscovered) || errors.Is(err, crawl.ErrNoPagesExtracted) {
					return fmt.Errorf("could not crawl %s: %w", base, err)
				}
				return err
			}

			doc := llmstxt.Render(base, result.Pages, time.Now())
			if output == "" {
				fmt.Println(doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			slog.Info("wrote llms.txt", "path", output, "pages", len(result.Pages))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxURLs, "max-urls", 20, "maximum number of pages to include")
	cmd.Flags().IntVar(&timeout, "timeout", 10, "per-request timeout in seconds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the crawl trail to stderr")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the llms.txt generation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			slog.Info("starting server", "port", cfg.Port, "max_urls", cfg.MaxURLs)
			return server.Run(cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	return cmd
}
