package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellosocial/internal/http/v2/server"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

func newConnectionsCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Inspecciona y borra conexiones guardadas",
	}

	var listUser string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista las conexiones de un usuario (id de sesión)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listUser == "" {
				return fmt.Errorf("--user es requerido")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			repo, err := server.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			conns, err := repo.FindAll(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			if len(conns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no connections")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tRANK\tPROVIDER USER\tNAME\tSCOPE\tEXPIRES\tCREATED")
			for _, c := range conns {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					c.Provider, c.Rank, c.ProviderUserID, c.DisplayName, c.Scope,
					formatTime(c.Expiry), formatTime(c.CreatedAt))
			}
			return tw.Flush()
		},
	}
	listCmd.Flags().StringVar(&listUser, "user", "", "Id de sesión del usuario")

	var rmUser, rmProvider string
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Borra la conexión de un usuario con un provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rmUser == "" {
				return fmt.Errorf("--user es requerido")
			}
			provider, err := social.ParseProviderID(rmProvider)
			if err != nil {
				return err
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			repo, err := server.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Remove(cmd.Context(), rmUser, provider); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s connection of %s\n", provider, rmUser)
			return nil
		},
	}
	removeCmd.Flags().StringVar(&rmUser, "user", "", "Id de sesión del usuario")
	removeCmd.Flags().StringVar(&rmProvider, "provider", "", "google | facebook | github")

	cmd.AddCommand(listCmd, removeCmd)
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
