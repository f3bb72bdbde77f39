package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simulador/internal/api"
	"simulador/internal/logger"
	"simulador/pkg/models"
	"simulador/pkg/money"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
	Long: `List, show, create, update and delete products.

The acquisition cost of a product is the unit price of budget items built
from it. Amounts accept Brazilian notation ("1.234,56", "R$ 10,00").`,
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage additional services",
}

func init() {
	rootCmd.AddCommand(productCmd, customerCmd, serviceCmd)

	productCreateCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a product",
		Example: `  simulador product create --name "Widget" --cost 100 --price 150,50`,
		Args:    cobra.NoArgs,
		RunE:    runProductSave,
	}
	productUpdateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  runProductSave,
	}
	for _, c := range []*cobra.Command{productCreateCmd, productUpdateCmd} {
		c.Flags().String("name", "", "Product name")
		c.Flags().String("description", "", "Description")
		c.Flags().String("reference", "", "Reference code")
		c.Flags().String("cost", "", "Acquisition cost (R$)")
		c.Flags().String("price", "", "Sale price (R$)")
	}
	productCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List products", Args: cobra.NoArgs, RunE: runProductList},
		&cobra.Command{Use: "get <id>", Short: "Show a product", Args: cobra.ExactArgs(1), RunE: runProductGet},
		productCreateCmd,
		productUpdateCmd,
		&cobra.Command{Use: "delete <id>", Short: "Delete a product", Args: cobra.ExactArgs(1), RunE: runProductDelete},
	)

	customerCreateCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a customer",
		Example: `  simulador customer create --name "Maria Lima" --email maria@example.com --city Recife --state PE`,
		Args:    cobra.NoArgs,
		RunE:    runCustomerSave,
	}
	customerUpdateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a customer; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  runCustomerSave,
	}
	for _, c := range []*cobra.Command{customerCreateCmd, customerUpdateCmd} {
		c.Flags().String("name", "", "Customer name")
		c.Flags().String("email", "", "Email")
		c.Flags().String("phone", "", "Phone")
		c.Flags().String("address", "", "Street address")
		c.Flags().String("city", "", "City")
		c.Flags().String("state", "", "State (UF)")
		c.Flags().String("zip", "", "CEP")
		c.Flags().String("country", "", "Country")
	}
	customerCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List customers", Args: cobra.NoArgs, RunE: runCustomerList},
		&cobra.Command{Use: "get <id>", Short: "Show a customer", Args: cobra.ExactArgs(1), RunE: runCustomerGet},
		customerCreateCmd,
		customerUpdateCmd,
		&cobra.Command{Use: "delete <id>", Short: "Delete a customer", Args: cobra.ExactArgs(1), RunE: runCustomerDelete},
	)

	serviceCreateCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an additional service",
		Example: `  simulador service create --name "Instalação" --cost 50`,
		Args:    cobra.NoArgs,
		RunE:    runServiceSave,
	}
	serviceUpdateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a service; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE:  runServiceSave,
	}
	for _, c := range []*cobra.Command{serviceCreateCmd, serviceUpdateCmd} {
		c.Flags().String("name", "", "Service name")
		c.Flags().String("description", "", "Description")
		c.Flags().String("cost", "", "Cost (R$)")
	}
	serviceCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List services", Args: cobra.NoArgs, RunE: runServiceList},
		&cobra.Command{Use: "get <id>", Short: "Show a service", Args: cobra.ExactArgs(1), RunE: runServiceGet},
		serviceCreateCmd,
		serviceUpdateCmd,
		&cobra.Command{Use: "delete <id>", Short: "Delete a service", Args: cobra.ExactArgs(1), RunE: runServiceDelete},
	)
}

// setString copies a flag into dst when the user passed it.
func setString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

// setMoney parses a currency flag into dst when the user passed it.
func setMoney(flags *pflag.FlagSet, name string, dst *money.Cents) {
	if flags.Changed(name) {
		raw, _ := flags.GetString(name)
		*dst = money.Parse(raw)
	}
}

func runProductList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		products, err := client.ListProducts(ctx)
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, products, func(w io.Writer) error {
			return renderProducts(w, products)
		}, log)
	})
}

func runProductGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		product, err := client.GetProduct(ctx, args[0])
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, product, func(w io.Writer) error {
			return renderProducts(w, []models.Product{*product})
		}, log)
	})
}

func runProductSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		in := models.ProductInput{}
		if len(args) == 1 {
			current, err := client.GetProduct(ctx, args[0])
			if err != nil {
				return handleAPIError(err, log)
			}
			in = models.ProductInput{
				Name:            current.Name,
				Description:     current.Description,
				AcquisitionCost: current.AcquisitionCost,
				SalePrice:       current.SalePrice,
				ReferenceCode:   current.ReferenceCode,
			}
		}

		flags := cmd.Flags()
		setString(flags, "name", &in.Name)
		setString(flags, "description", &in.Description)
		setString(flags, "reference", &in.ReferenceCode)
		setMoney(flags, "cost", &in.AcquisitionCost)
		setMoney(flags, "price", &in.SalePrice)

		var product *models.Product
		var err error
		if len(args) == 1 {
			product, err = client.UpdateProduct(ctx, args[0], in)
		} else {
			product, err = client.CreateProduct(ctx, in)
		}
		if err != nil {
			return handleAPIError(err, log)
		}

		log.Info().
			Str("product_id", product.ID).
			Msg("Product saved")
		return writeOutput(cmd, product, func(w io.Writer) error {
			return renderProducts(w, []models.Product{*product})
		}, log)
	})
}

func runProductDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("product")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		if err := client.DeleteProduct(ctx, args[0]); err != nil {
			return handleAPIError(err, log)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Produto %s excluído.\n", args[0])
		return nil
	})
}

func renderProducts(w io.Writer, products []models.Product) error {
	fmt.Fprintln(w, "ID\tNOME\tCÓDIGO\tCUSTO\tPREÇO")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.ReferenceCode, p.AcquisitionCost, p.SalePrice)
	}
	return nil
}

func runCustomerList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		customers, err := client.ListCustomers(ctx)
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, customers, func(w io.Writer) error {
			return renderCustomers(w, customers)
		}, log)
	})
}

func runCustomerGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		customer, err := client.GetCustomer(ctx, args[0])
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, customer, func(w io.Writer) error {
			return renderCustomers(w, []models.Customer{*customer})
		}, log)
	})
}

func runCustomerSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		in := models.CustomerInput{}
		if len(args) == 1 {
			current, err := client.GetCustomer(ctx, args[0])
			if err != nil {
				return handleAPIError(err, log)
			}
			in = models.CustomerInput{
				Name:    current.Name,
				Email:   current.Email,
				Phone:   current.Phone,
				Address: current.Address,
				City:    current.City,
				State:   current.State,
				ZipCode: current.ZipCode,
				Country: current.Country,
			}
		}

		flags := cmd.Flags()
		setString(flags, "name", &in.Name)
		setString(flags, "email", &in.Email)
		setString(flags, "phone", &in.Phone)
		setString(flags, "address", &in.Address)
		setString(flags, "city", &in.City)
		setString(flags, "state", &in.State)
		setString(flags, "zip", &in.ZipCode)
		setString(flags, "country", &in.Country)

		var customer *models.Customer
		var err error
		if len(args) == 1 {
			customer, err = client.UpdateCustomer(ctx, args[0], in)
		} else {
			customer, err = client.CreateCustomer(ctx, in)
		}
		if err != nil {
			return handleAPIError(err, log)
		}

		log.Info().
			Str("customer_id", customer.ID).
			Msg("Customer saved")
		return writeOutput(cmd, customer, func(w io.Writer) error {
			return renderCustomers(w, []models.Customer{*customer})
		}, log)
	})
}

func runCustomerDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("customer")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		if err := client.DeleteCustomer(ctx, args[0]); err != nil {
			return handleAPIError(err, log)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cliente %s excluído.\n", args[0])
		return nil
	})
}

func renderCustomers(w io.Writer, customers []models.Customer) error {
	fmt.Fprintln(w, "ID\tNOME\tEMAIL\tTELEFONE\tCIDADE")
	for _, c := range customers {
		city := c.City
		if c.State != "" {
			city += "/" + c.State
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, city)
	}
	return nil
}

func runServiceList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("service")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		services, err := client.ListServices(ctx)
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, services, func(w io.Writer) error {
			return renderServices(w, services)
		}, log)
	})
}

func runServiceGet(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("service")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		service, err := client.GetService(ctx, args[0])
		if err != nil {
			return handleAPIError(err, log)
		}
		return writeOutput(cmd, service, func(w io.Writer) error {
			return renderServices(w, []models.Service{*service})
		}, log)
	})
}

func runServiceSave(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("service")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		in := models.ServiceInput{}
		if len(args) == 1 {
			current, err := client.GetService(ctx, args[0])
			if err != nil {
				return handleAPIError(err, log)
			}
			in = models.ServiceInput{
				Name:        current.Name,
				Description: current.Description,
				Cost:        current.Cost,
			}
		}

		flags := cmd.Flags()
		setString(flags, "name", &in.Name)
		setString(flags, "description", &in.Description)
		setMoney(flags, "cost", &in.Cost)

		var service *models.Service
		var err error
		if len(args) == 1 {
			service, err = client.UpdateService(ctx, args[0], in)
		} else {
			service, err = client.CreateService(ctx, in)
		}
		if err != nil {
			return handleAPIError(err, log)
		}

		log.Info().
			Str("service_id", service.ID).
			Msg("Service saved")
		return writeOutput(cmd, service, func(w io.Writer) error {
			return renderServices(w, []models.Service{*service})
		}, log)
	})
}

func runServiceDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("service")

	return runWithClient(cmd, log, func(ctx context.Context, client *api.Client) error {
		if err := client.DeleteService(ctx, args[0]); err != nil {
			return handleAPIError(err, log)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Serviço %s excluído.\n", args[0])
		return nil
	})
}

func renderServices(w io.Writer, services []models.Service) error {
	fmt.Fprintln(w, "ID\tNOME\tDESCRIÇÃO\tCUSTO")
	for _, s := range services {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Description, s.Cost)
	}
	return nil
}
