package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"github.com/tournevent/shipcallback/internal/callback"
	"github.com/tournevent/shipcallback/pkg/provider"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipcallback",
	Short:   "Shipping callback service for Braintree and PayPal checkouts",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP callback server",
	RunE:  runServe,
}

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve callbacks behind AWS Lambda and API Gateway",
	RunE:  runLambda,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one callback payload through a provider and print the response",
	RunE:  runSimulate,
}

var (
	simulateProvider string
	simulateFile     string
)

func init() {
	simulateCmd.Flags().StringVar(&simulateProvider, "provider", "", "provider name (braintree, paypal)")
	simulateCmd.Flags().StringVar(&simulateFile, "file", "-", "payload file, - for stdin")
	_ = simulateCmd.MarkFlagRequired("provider")

	rootCmd.AddCommand(serveCmd, lambdaCmd, simulateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	a.logger.Info("Starting shipping callback service",
		zap.Int("port", a.cfg.Port),
		zap.String("version", a.cfg.Version),
		zap.Strings("providers", a.registry.Names()),
	)

	if err := a.server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runLambda(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	a.logger.Info("Starting Lambda handler",
		zap.String("version", a.cfg.Version),
		zap.Strings("providers", a.registry.Names()),
	)

	lambda.Start(a.server.LambdaHandler())
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	body, err := readPayload(cmd.InOrStdin(), simulateFile)
	if err != nil {
		return err
	}

	resp := a.handler.Handle(ctx, simulateProvider, body)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HTTP %d %s\n", resp.Status, resp.ContentType)
	fmt.Fprintln(out, string(resp.Body))

	adapter, err := a.registry.Get(simulateProvider)
	if err != nil {
		// Unknown provider; the 404 above is the whole answer.
		return nil
	}
	summary, err := summarize(adapter, resp)
	if err != nil {
		return err
	}
	if summary != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}
	return nil
}

// summarize renders a one-line, provider-neutral view of resp.
func summarize(adapter provider.Adapter, resp callback.Response) (string, error) {
	switch {
	case resp.Status == http.StatusOK:
		res, err := adapter.DecodeQuote(resp.Body)
		if err != nil {
			return "", fmt.Errorf("decoding response: %w", err)
		}
		return fmt.Sprintf("total=%s item_total=%s shipping=%s tiers=%d",
			res.Total, res.ItemTotal, res.ShippingCost, len(res.Tiers)), nil
	case resp.ContentType == callback.ContentTypeJSON:
		rej, err := provider.DecodeRejection("simulate", resp.Body)
		if err != nil {
			return "", fmt.Errorf("decoding rejection: %w", err)
		}
		return "rejected: " + rej.Error(), nil
	default:
		return "", nil
	}
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return body, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return body, nil
}
