package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"notary/internal/core/digest"
	perr "notary/internal/platform/errors"
)

func (c *CLI) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file|->",
		Short: "Print the SHA3-256 digest of a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := hashInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, sum)
			return err
		},
	}
}

// hashInput digests path, or stdin when path is "-"
func hashInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		return digest.Reader(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open %s", path)
	}
	defer f.Close()
	return digest.Reader(f)
}
