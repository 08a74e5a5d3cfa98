package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/spf13/cobra"
)

type payOptions struct {
	phone  string
	amount int64
	plan   string
}

func payCmd() *cobra.Command {
	var opts payOptions

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Send an STK push and wait for the customer's answer",
		Long: `Send an STK push to a phone and wait until the payment succeeds,
fails, is cancelled or times out. Interrupting the command abandons the
attempt.

Examples:
  checkout pay --phone 0712345678 --amount 500 --plan pro`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPay(orBackground(cmd.Context()), opts)
		},
	}

	cmd.Flags().StringVar(&opts.phone, "phone", "", "Safaricom phone number to prompt")
	cmd.Flags().Int64Var(&opts.amount, "amount", 0, "amount in whole shillings")
	cmd.Flags().StringVar(&opts.plan, "plan", "", "subscription plan being paid for")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func runPay(ctx context.Context, opts payOptions) error {
	outcomes := make(chan domain.Outcome, 1)
	a, err := newApp(ctx, func(_ string, outcome domain.Outcome) {
		select {
		case outcomes <- outcome:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := domain.NewSubscriptionRequest(opts.plan, opts.amount, opts.phone, a.branding())
	if err != nil {
		return err
	}

	view, err := a.controller.Start(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(view.Message)

	var outcome domain.Outcome
	if view.Outcome != nil {
		outcome = *view.Outcome
	} else {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case outcome = <-outcomes:
		case <-quit:
			a.controller.Abandon()
			return fmt.Errorf("payment abandoned")
		}
	}

	if outcome.Kind != domain.OutcomeSucceeded {
		return fmt.Errorf("%s: %s", outcome.Kind, outcome.Reason)
	}
	fmt.Printf("Payment successful. Receipt: %s\n", outcome.Receipt)
	return nil
}
