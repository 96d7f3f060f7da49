package main

import (
	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/pkg/tlsutil"
)

func newCertsCmd() *cobra.Command {
	var (
		hosts  []string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a self-signed CA and server certificate for local TLS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateSelfSignedCert(hosts, outDir); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "certificates written to %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hosts, "hosts", []string{"localhost", "127.0.0.1"}, "DNS names and IPs the certificate is valid for")
	cmd.Flags().StringVarP(&outDir, "out", "o", "certs", "output directory")
	return cmd
}
