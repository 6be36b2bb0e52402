package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Retail-api/pkg/jwt"
)

func tokenCmd() *cobra.Command {
	var (
		email   string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un token de desarrollo firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, email, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del usuario")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos; 0 = JWT_EXPIRATION_MINUTES")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
