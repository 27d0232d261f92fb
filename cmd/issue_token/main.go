// issue_token emite un Bearer token para operar la API cuando JWT_SECRET está configurado.
// El secreto y el issuer se leen de la misma configuración que el servidor.
//
// Uso: go run ./cmd/issue_token --user ops-1 --role bodeguero --minutes 480
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		userID  string
		role    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:          "issue_token",
		Short:        "Emite un JWT firmado con JWT_SECRET",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
			default:
				return fmt.Errorf("rol desconocido %q (admin|bodeguero|vendedor)", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "identificador del usuario (sub)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleVendedor, "admin | bodeguero | vendedor")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
