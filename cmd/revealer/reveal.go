package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"HashRevealer/client"
	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

var revealCmd = &cobra.Command{
	Use:   "reveal",
	Short: "Reveal a secret to a group and print the others' secrets",
	Long: `Submit --input to the coordinator together with the peers' commitments and
wait until every peer has done the same. Each peer's secret is printed as
"<hash> :: <secret>".

Examples:
  revealer reveal --input alice --peer $(revealer hash bob)
  revealer reveal --endpoint https://host:8443/blake3 --algorithm blake3 --http3 --input alice --peer <hash>`,
	Args: cobra.NoArgs,
	RunE: runReveal,
}

var (
	endpointFlag  string
	algorithmFlag string
	inputFlag     string
	peerFlags     []string
	timeoutFlag   time.Duration
	http3Flag     bool
	insecureFlag  bool
)

func init() {
	revealCmd.Flags().StringVar(&endpointFlag, "endpoint", "http://localhost:8080/keccak256", "coordinator commit URL")
	revealCmd.Flags().StringVar(&algorithmFlag, "algorithm", hash.Keccak256.Name(), "commitment hash; must match the endpoint")
	revealCmd.Flags().StringVar(&inputFlag, "input", "", "secret to reveal")
	revealCmd.Flags().StringArrayVar(&peerFlags, "peer", nil, "base64url commitment of a peer (repeatable)")
	revealCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "give up after this long; 0 waits until interrupted")
	revealCmd.Flags().BoolVar(&http3Flag, "http3", false, "connect over HTTP/3")
	revealCmd.Flags().BoolVar(&insecureFlag, "insecure", false, "skip TLS certificate verification")
	revealCmd.MarkFlagRequired("input")
}

func runReveal(cmd *cobra.Command, args []string) error {
	alg, ok := hash.Lookup(algorithmFlag)
	if !ok {
		return errors.WithHintf(errors.Newf("unknown algorithm %q", algorithmFlag), "use one of %v", hash.Algorithms())
	}

	peers := make([]hash.Hash, len(peerFlags))
	for i, p := range peerFlags {
		h, err := hash.Parse(p)
		if err != nil {
			return errors.Wrapf(err, "--peer %q", p)
		}
		peers[i] = h
	}

	opts := []client.Option{client.WithAlgorithm(alg)}
	if http3Flag {
		opts = append(opts, client.WithHTTP3(&tls.Config{InsecureSkipVerify: insecureFlag}))
	}

	r := client.NewRevealer(endpointFlag, []byte(inputFlag), opts...)
	for _, p := range peers {
		r.Add(p)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if timeoutFlag > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeoutFlag)
		defer cancel()
	}

	set, err := r.Resolve(ctx)
	if err != nil {
		return errors.Wrap(err, "resolve")
	}

	out := cmd.OutOrStdout()
	for _, p := range peers {
		preimage, err := set.Preimage(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s :: %s\n", p, preimage)
	}

	return nil
}
