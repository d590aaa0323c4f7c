// Package commands implements the notary-ctl command tree
package commands

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"notary/internal/adapters/agentlink"
	"notary/internal/core/correlate"
	"notary/internal/core/proof"
	"notary/internal/core/protocol"
	"notary/internal/core/version"
	"notary/internal/platform/config"
	pstrings "notary/internal/platform/strings"

	"notary/internal/services/agent/client"
)

// Conn is what the commands need from an agent connection
type Conn interface {
	StampHash(ctx context.Context, target, hash string) (protocol.StampHashResponse, error)
	Status(ctx context.Context, target, uid string) (protocol.UidResponse, error)
	Verify(ctx context.Context, target string, b proof.Bundle) (protocol.VerifyProofResponse, error)
}

// Target describes the agent a command talks to
type Target struct {
	URL     string
	Agent   string
	Token   string
	Timeout time.Duration
}

// Dialer opens a connection to the target agent
type Dialer func(ctx context.Context, t Target) (Conn, func(), error)

// CLI represents the notary-ctl command line
type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer
	dial    Dialer
	now     func() time.Time

	target Target
}

// New creates the command tree writing results to out; flags default to NOTARYCTL_* env
func New(out io.Writer) *CLI {
	env := config.New().Prefix("NOTARYCTL_")

	rootCmd := &cobra.Command{
		Use:           "notary-ctl",
		Short:         "Stamp hashes and verify proofs through a notary agent",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Info().String(),
	}

	c := &CLI{rootCmd: rootCmd, out: out, dial: DialAgent, now: time.Now}

	rootCmd.SetOut(out)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.target.URL, "url", env.MayURL("URL", "ws://localhost:4000/api/v1/agent/ws"), "agent websocket endpoint")
	flags.StringVar(&c.target.Agent, "agent", env.MayString("AGENT", "notary"), "name the agent answers to")
	flags.StringVar(&c.target.Token, "token", env.MayString("TOKEN", ""), "bearer token for agents that require one")
	flags.DurationVar(&c.target.Timeout, "timeout", env.MayDuration("TIMEOUT", 3*time.Minute), "deadline for each remote call")

	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newStampCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVerifyCmd())

	return c
}

// Execute runs the root command with the given context
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetDialer replaces the agent dialer. Used for testing
func (c *CLI) SetDialer(d Dialer) {
	c.dial = d
}

func (c *CLI) connect(ctx context.Context) (Conn, func(), error) {
	return c.dial(ctx, c.target)
}

// DialAgent connects a fresh link to the agent and wraps it in a typed client
func DialAgent(ctx context.Context, t Target) (Conn, func(), error) {
	name := "notary-ctl-" + pstrings.Truncate(uuid.NewString(), 8)
	link := agentlink.New(name)
	link.SetToken(t.Token)
	calls := correlate.New(link, name)
	link.OnMessage(func(_ string, m protocol.Message) {
		if m.Kind.IsReply() {
			calls.Deliver(m)
		}
	})
	if err := link.Connect(ctx, t.Agent, t.URL); err != nil {
		link.Close()
		return nil, nil, err
	}
	return client.New(calls, t.Timeout), link.Close, nil
}
