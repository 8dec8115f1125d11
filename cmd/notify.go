package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/provider"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
)

var notifyProvider string

var notifyCmd = &cobra.Command{
	Use:   "notify <payment-id>",
	Short: "Replay a processor notification for one payment",
	Long:  "Fetch the payment from the processor and run it through the same path as an inbound notification.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app, cleanup := mustCreateApplication()
		defer cleanup()

		return runJob("notify", func() error {
			result, err := app.paymentService.HandleNotification(context.Background(), &types.NotificationRequest{
				Provider:  notifyProvider,
				PaymentId: args[0],
			})
			if err != nil {
				return err
			}
			if !result.Processed {
				return fmt.Errorf("payment id %q was not processed", args[0])
			}

			entry := logrus.WithField("payment_id", result.Record.PaymentID).
				WithField("status", result.Record.Status).
				WithField("event_type", result.EventType)
			if result.Dispatch != nil && !result.Dispatch.Skipped {
				entry = entry.WithField("delivered", result.Dispatch.Success)
			}
			entry.Info("Notification replayed")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().StringVar(&notifyProvider, "provider", provider.CodeMercadoPago, "Payment processor code")
}

// runJob logs the outcome of an operator command and hands the error back so the process
// exits non-zero.
func runJob(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
	return nil
}
