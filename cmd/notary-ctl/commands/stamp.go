package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"notary/internal/core/proof"
	"notary/internal/core/protocol"
	perr "notary/internal/platform/errors"
)

func (c *CLI) newStampCmd() *cobra.Command {
	var (
		file string
		wait bool
		out  string
	)
	cmd := &cobra.Command{
		Use:   "stamp [hash]",
		Short: "Submit a hash for stamping, optionally waiting for confirmation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := stampTarget(cmd, args, file)
			if err != nil {
				return err
			}
			if out != "" && !wait {
				return perr.InvalidArgf("--out needs --wait")
			}

			conn, closeConn, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeConn()

			stamped, err := conn.StampHash(cmd.Context(), c.target.Agent, hash)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "hash: %s\nuid:  %s\n", hash, stamped.UID)
			if !wait {
				return nil
			}

			status, err := conn.Status(cmd.Context(), c.target.Agent, stamped.UID)
			if err != nil {
				return err
			}
			return c.reportStatus(status, out)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "hash this file instead of passing a hash")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for onchain confirmation")
	cmd.Flags().StringVar(&out, "out", "", "write the proof export document here once confirmed")
	return cmd
}

func stampTarget(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", perr.InvalidArgf("pass a hash or --file, not both")
	case file != "":
		return hashInput(cmd.InOrStdin(), file)
	case len(args) == 1:
		return args[0], nil
	}
	return "", perr.InvalidArgf("a hash or --file is required")
}

// reportStatus prints the confirmation state and writes the export when asked
func (c *CLI) reportStatus(status protocol.UidResponse, out string) error {
	if !status.Onchain {
		fmt.Fprintln(c.out, "onchain: false")
		return nil
	}
	b := proof.Bundle{Proof: status.Proof, Root: status.Root, Address: status.Address, Data: status.Data}
	fmt.Fprintln(c.out, "onchain: true")
	if err := c.printJSON([]proof.Bundle{b}); err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	if err := writeJSONFile(out, proof.Export(c.now(), b)); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "proof written to %s\n", out)
	return nil
}
