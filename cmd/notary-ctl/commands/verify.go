package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"notary/internal/core/proof"
	perr "notary/internal/platform/errors"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <proof-file>",
		Short: "Verify the first proof of a proof file or export document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", args[0])
			}
			b, err := proof.Load(content)
			if err != nil {
				return err
			}

			conn, closeConn, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeConn()

			resp, err := conn.Verify(cmd.Context(), c.target.Agent, b)
			if err != nil {
				return err
			}
			return c.printJSON(resp.Report)
		},
	}
}

func (c *CLI) printJSON(v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var generic any
		if err := json.Unmarshal(raw, &generic); err == nil {
			v = generic
		}
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode export")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", path)
	}
	return nil
}
