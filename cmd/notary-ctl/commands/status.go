package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "status <uid>",
		Short: "Wait for a stamping handle to be confirmed on chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, closeConn, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeConn()

			status, err := conn.Status(cmd.Context(), c.target.Agent, args[0])
			if err != nil {
				return err
			}
			return c.reportStatus(status, out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the proof export document here once confirmed")
	return cmd
}
