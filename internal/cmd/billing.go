package cmd

import (
	"github.com/spf13/cobra"

	"github.com/watchparty/cli/pkg/service"
)

var (
	billingPaymentMethod string
	billingPromo         string
	billingForce         bool

	storeCategory string
	storeQuantity int
	storeForce    bool
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Plans, subscription and payments",
}

var billingPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Plans(cmd.Context())
	},
}

var billingSubscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Show your subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Subscription(cmd.Context())
	},
}

var billingSubscribeCmd = &cobra.Command{
	Use:   "subscribe <plan-id>",
	Short: "Subscribe to a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Subscribe(cmd.Context(), args[0], billingPaymentMethod, billingPromo)
	},
}

var billingCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel your subscription at the end of the period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Cancel(cmd.Context(), billingForce)
	},
}

var billingReactivateCmd = &cobra.Command{
	Use:   "reactivate",
	Short: "Undo a pending cancellation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Reactivate(cmd.Context())
	},
}

var billingHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).History(cmd.Context())
	},
}

var billingInvoiceCmd = &cobra.Command{
	Use:   "invoice <payment-id>",
	Short: "Print the invoice link for a payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).Invoice(cmd.Context(), args[0])
	},
}

var billingPaymentMethodCmd = &cobra.Command{
	Use:   "payment-method <payment-method-id>",
	Short: "Change the default payment method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewBillingService(env(cmd)).UpdatePaymentMethod(cmd.Context(), args[0])
	},
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Browse and buy store items",
}

var storeItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List store items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewStoreService(env(cmd)).Items(cmd.Context(), storeCategory)
	},
}

var storeBuyCmd = &cobra.Command{
	Use:   "buy <item-id>",
	Short: "Buy an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewStoreService(env(cmd)).Buy(cmd.Context(), args[0], storeQuantity, storeForce)
	},
}

var storePurchasesCmd = &cobra.Command{
	Use:   "purchases",
	Short: "List your purchases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewStoreService(env(cmd)).Purchases(cmd.Context())
	},
}

func init() {
	billingSubscribeCmd.Flags().StringVar(&billingPaymentMethod, "payment-method", "", "Payment method ID")
	billingSubscribeCmd.Flags().StringVar(&billingPromo, "promo", "", "Promo code")
	billingCancelCmd.Flags().BoolVarP(&billingForce, "force", "f", false, "Skip confirmation")

	billingCmd.AddCommand(billingPlansCmd)
	billingCmd.AddCommand(billingSubscriptionCmd)
	billingCmd.AddCommand(billingSubscribeCmd)
	billingCmd.AddCommand(billingCancelCmd)
	billingCmd.AddCommand(billingReactivateCmd)
	billingCmd.AddCommand(billingHistoryCmd)
	billingCmd.AddCommand(billingInvoiceCmd)
	billingCmd.AddCommand(billingPaymentMethodCmd)

	storeItemsCmd.Flags().StringVar(&storeCategory, "category", "", "Category")
	storeBuyCmd.Flags().IntVarP(&storeQuantity, "quantity", "q", 1, "Quantity")
	storeBuyCmd.Flags().BoolVarP(&storeForce, "force", "f", false, "Skip confirmation")

	storeCmd.AddCommand(storeItemsCmd)
	storeCmd.AddCommand(storeBuyCmd)
	storeCmd.AddCommand(storePurchasesCmd)
}
