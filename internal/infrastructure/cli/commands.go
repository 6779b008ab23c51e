package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/agentgate/internal/app"
	"github.com/doeshing/agentgate/internal/domain"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			for _, check := range report.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
			}
			return err
		},
	}
}

func newConfigCommand(container *app.Container) *cobra.Command {
	show := func(cmd *cobra.Command, args []string) error {
		cfg, err := container.ConfigProvider.Load(cmd.Context())
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		RunE:  show,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  show,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigProvider.Path())
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.ConfigProvider.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathCmd, validateCmd)
	return configCmd
}

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"audit"},
		Short:   "Inspect the request audit log",
	}

	var limit int
	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audited requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.AuditStore.Records(limit, search)
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s | granted=%d denied=%d errored=%d | %s\n",
					rec.Timestamp.Format(time.RFC3339),
					strings.Join(rec.Domains, ","),
					rec.Granted, rec.Denied, rec.Errored,
					rec.Message)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Max entries to show")
	listCmd.Flags().StringVar(&search, "search", "", "Filter by message or answer text")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.AuditStore.Clear()
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the audit log as jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.AuditStore.ExportJSON(args[0])
		},
	}

	historyCmd.AddCommand(listCmd, clearCmd, exportCmd)
	return historyCmd
}

func newSessionCommand(container *app.Container) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset conversation sessions",
	}

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Show the messages recorded for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages := container.Conversations.History(args[0], limit)
			if len(messages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No messages for this session.")
				return nil
			}
			for _, msg := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %-9s | %s\n",
					msg.Timestamp.Format(time.RFC3339), msg.Role, msg.Content)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 50, "Max messages to show")

	clearCmd := &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Forget a session's conversation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Conversations.Clear(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s cleared\n", args[0])
			return nil
		},
	}

	sessionCmd.AddCommand(historyCmd, clearCmd)
	return sessionCmd
}

func newDataCommand(container *app.Container) *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect or reset the business dataset",
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show inventory and customer summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := container.DataStore.InventorySummary()
			if err != nil {
				return err
			}
			cust, err := container.DataStore.CustomerSummary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Products: %d, units: %d, value: $%.2f, low stock: %d\n",
				inv.TotalProducts, inv.TotalItems, inv.TotalValue, inv.LowStockCount)
			fmt.Fprintf(out, "Customers: %d, revenue: $%d\n", cust.TotalCustomers, cust.TotalRevenue)
			return nil
		},
	}

	var query string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := container.DataStore.SearchInventory(query)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %-30s | %-20s | %5d units | %s\n",
					item.SKU, item.Name, item.Category, item.Quantity, item.Status)
			}
			return nil
		},
	}
	searchCmd.Flags().StringVar(&query, "query", "", "Name or category filter (empty lists everything)")

	lowStockCmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List items at or below their reorder point",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := container.DataStore.LowStockItems()
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s | %s | %d units (reorder at %d)\n",
					item.SKU, item.Name, item.Quantity, item.ReorderPoint)
			}
			return nil
		},
	}

	setPriceCmd := &cobra.Command{
		Use:   "set-price <sku> <price>",
		Short: "Update a product price and recompute its margin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q", args[1])
			}
			update, err := container.DataStore.UpdatePrice(args[0], price)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): $%.2f -> $%.2f, margin %.1f%%\n",
				update.Name, update.SKU, update.OldPrice, update.NewPrice, update.Margin)
			return nil
		},
	}

	priceCmd := &cobra.Command{
		Use:   "price <sku>",
		Short: "Show price, cost, and margin for a SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := container.DataStore.PricingBySKU(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): $%.2f (cost: $%.2f, margin: %.1f%%)\n",
				entry.Name, entry.SKU, entry.Price, entry.Cost, entry.Margin)
			return nil
		},
	}

	var listAll bool
	customerCmd := &cobra.Command{
		Use:   "customer <id-or-name>",
		Short: "Look up customers by id, name, contact, or location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if listAll {
				matches, err := container.DataStore.SearchCustomers(query)
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					return fmt.Errorf("no customer matches %q", query)
				}
				for _, customer := range matches {
					printCustomer(cmd.OutOrStdout(), customer)
				}
				return nil
			}
			customer, err := container.DataStore.CustomerByID(query)
			if err != nil {
				customer, err = container.DataStore.CustomerByName(query)
			}
			if err != nil {
				return err
			}
			printCustomer(cmd.OutOrStdout(), customer)
			return nil
		},
	}
	customerCmd.Flags().BoolVar(&listAll, "all", false, "List every match on name, contact, or location")

	discountCmd := &cobra.Command{
		Use:   "discount <tier> <quantity>",
		Short: "Show the combined discount for a tier and order size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			tierPct, err := container.DataStore.TierDiscount(args[0])
			if err != nil {
				return err
			}
			volumePct, err := container.DataStore.VolumeDiscount(quantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s tier: %d%%, %d units: %d%%, combined: %d%%\n",
				args[0], tierPct, quantity, volumePct, tierPct+volumePct)
			return nil
		},
	}

	setTierDiscountCmd := &cobra.Command{
		Use:   "set-tier-discount <tier> <percent>",
		Short: "Update the discount percentage for a customer tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid percentage %q", args[1])
			}
			update, err := container.DataStore.UpdateTierDiscount(args[0], percent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s tier discount: %d%% -> %d%%\n",
				update.Tier, update.OldDiscount, update.NewDiscount)
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the dataset to its initial state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.DataStore.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dataset reset at %s\n", container.DataStore.Path())
			return nil
		},
	}

	dataCmd.AddCommand(summaryCmd, searchCmd, lowStockCmd, priceCmd, setPriceCmd,
		customerCmd, discountCmd, setTierDiscountCmd, resetCmd)
	return dataCmd
}

func printCustomer(out io.Writer, customer domain.Customer) {
	fmt.Fprintf(out, "%s | %s | %s | %s | %s | $%d\n",
		customer.ID, customer.Name, customer.Tier, customer.Contact,
		customer.Location, customer.TotalSpent)
}
