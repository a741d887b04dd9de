// Command ots is a CLI front end over detached .ots timestamp files:
// stamp, upgrade, verify, shrink, and info subcommands, replacing the
// reference repository's validator-daemon entry point with a
// client-library CLI in the same flag-parsing, subcommand-dispatch style.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/opentimestamps/go-ots/pkg/calendar"
	"github.com/opentimestamps/go-ots/pkg/codec"
	"github.com/opentimestamps/go-ots/pkg/config"
	"github.com/opentimestamps/go-ots/pkg/info"
	"github.com/opentimestamps/go-ots/pkg/metrics"
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/workflow"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "stamp":
		err = runStamp(os.Args[2:])
	case "upgrade":
		err = runUpgrade(os.Args[2:])
	case "shrink":
		err = runShrink(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ots: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ots <stamp|upgrade|shrink|info|verify> [flags] <file>")
}

func runStamp(args []string) error {
	fs := flag.NewFlagSet("stamp", flag.ExitOnError)
	algoName := fs.String("algo", "sha256", "hash algorithm: sha1, ripemd160, sha256, keccak256")
	var calendarURLs stringList
	fs.Var(&calendarURLs, "calendar", "calendar URL (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("stamp: exactly one file argument required")
	}
	path := fs.Arg(0)

	algo, err := parseAlgorithm(*algoName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	digest, err := algo.Digest(data)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	urls := cfg.CalendarURLs
	if len(calendarURLs) > 0 {
		urls = nil
		for _, raw := range calendarURLs {
			u, err := model.ParseURL(raw)
			if err != nil {
				return err
			}
			urls = append(urls, u)
		}
	}

	client := calendar.NewHTTPClient(nil, nil)
	rec := metrics.NewRecorder(nil)
	ts, errs := workflow.Submit(context.Background(), algo, digest, nil, nil, urls, client, rec)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "ots: stamp: %v\n", e)
	}

	out, err := codec.Write(ts)
	if err != nil {
		return err
	}
	return os.WriteFile(path+".ots", out, 0644)
}

func runUpgrade(args []string) error {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("upgrade: exactly one .ots file argument required")
	}
	path := fs.Arg(0)

	ts, err := codec.ReadFile(path)
	if err != nil {
		return err
	}
	if !workflow.CanUpgrade(ts) {
		fmt.Fprintln(os.Stderr, "ots: upgrade: no pending leaves, nothing to do")
		return nil
	}

	client := calendar.NewHTTPClient(nil, nil)
	rec := metrics.NewRecorder(nil)
	upgraded, errs := workflow.Upgrade(context.Background(), ts, client, rec)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "ots: upgrade: %v\n", e)
	}
	return codec.WriteFile(path, upgraded)
}

func runShrink(args []string) error {
	fs := flag.NewFlagSet("shrink", flag.ExitOnError)
	chainName := fs.String("chain", "bitcoin", "chain to shrink to: bitcoin, litecoin, ethereum")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("shrink: exactly one .ots file argument required")
	}
	path := fs.Arg(0)

	chain, err := parseChainKind(*chainName)
	if err != nil {
		return err
	}
	ts, err := codec.ReadFile(path)
	if err != nil {
		return err
	}
	shrunk, err := workflow.Shrink(ts, chain)
	if err != nil {
		return err
	}
	return codec.WriteFile(path, shrunk)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "include version header and hex alignment lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info: exactly one .ots file argument required")
	}
	ts, err := codec.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Println(info.RenderVerbose(ts))
	} else {
		fmt.Println(info.Render(ts))
	}
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("verify: exactly one .ots file argument required")
	}
	ts, err := codec.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if !ts.Tree.IsEmpty() {
		fmt.Println("no block-explorer verifier configured; use the pkg/verify API with a refverify.BlockHeaderSource to verify attestations")
	}
	return nil
}

func parseAlgorithm(name string) (model.Algorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return model.AlgoSHA1, nil
	case "ripemd160":
		return model.AlgoRIPEMD160, nil
	case "sha256":
		return model.AlgoSHA256, nil
	case "keccak256":
		return model.AlgoKeccak256, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
}

func parseChainKind(name string) (model.LeafKind, error) {
	switch strings.ToLower(name) {
	case "bitcoin":
		return model.LeafBitcoin, nil
	case "litecoin":
		return model.LeafLitecoin, nil
	case "ethereum":
		return model.LeafEthereum, nil
	default:
		return 0, fmt.Errorf("unknown chain %q", name)
	}
}

// stringList accumulates repeated -calendar flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
