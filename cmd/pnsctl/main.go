// Command pnsctl is the operator CLI for the Push Name Service. It
// drives registrations, renewals, transfers and metadata updates with a
// local signing key, and reports name and wallet status.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/config"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/orchestrator"
	"github.com/push-name-service/pns-indexer/internal/resolver"
	"github.com/push-name-service/pns-indexer/internal/store"
	"github.com/push-name-service/pns-indexer/internal/wallet"
)

const usage = `Usage: pnsctl [flags] <command> [args]

Commands:
  register <name>                      register an available name
  renew <name>                         extend an owned registration
  transfer <name> <address>            transfer a name to a new owner
  set-metadata <name> <key=value>...   update profile metadata
  set-primary <name>                   point the wallet's reverse record at an owned name
  status [name]                        show wallet status, and the name's record if given

Flags:
`

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	timeout    = flag.Duration("timeout", 5*time.Minute, "Overall command timeout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	config.ChdirRepoRoot()
	cfg, err := config.LoadCtlConfig(*configFile, *envPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	if err := logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags:            map[string]string{"service": "pnsctl"},
	}); err != nil {
		fatalf("initialize logger: %v", err)
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	defer app.gw.Close()

	if err := app.run(ctx, args[0], args[1:]); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "pnsctl: "+format+"\n", args...)
	os.Exit(1)
}

// app wires the chain gateway, wallet and orchestrator for one command
type app struct {
	gw   gateway.Gateway
	w    wallet.Wallet
	rslv *resolver.Resolver
	orch *orchestrator.Orchestrator
}

func buildApp(ctx context.Context, cfg *config.CtlConfig) (*app, error) {
	clock := adapter.NewClock()

	client, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect to chain RPC: %w", err)
	}

	gw, err := gateway.New(client, common.HexToAddress(cfg.Chain.ContractAddress), cfg.Chain.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("create chain gateway: %w", err)
	}

	w, err := wallet.NewKeyWallet(client, clock, cfg.Wallet.PrivateKey, big.NewInt(cfg.Chain.NumericChainID), cfg.Wallet.ConfirmTimeout)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	rslv := resolver.New(gw, clock)

	// The cache write-through is optional for the CLI; without database
	// settings mutations still land on chain and the reconciler catches
	// the cache up on its next pass.
	var dataStore store.Store
	if cfg.Database.Host != "" {
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		dataStore = store.NewPGStore(db)
	}

	return &app{
		gw:   gw,
		w:    w,
		rslv: rslv,
		orch: orchestrator.New(gw, w, rslv, dataStore, clock),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		if len(args) != 1 {
			return fmt.Errorf("usage: pnsctl register <name>")
		}
		return a.report(a.orch.Register(ctx, args[0]))
	case "renew":
		if len(args) != 1 {
			return fmt.Errorf("usage: pnsctl renew <name>")
		}
		return a.report(a.orch.Renew(ctx, args[0]))
	case "transfer":
		if len(args) != 2 {
			return fmt.Errorf("usage: pnsctl transfer <name> <address>")
		}
		if !common.IsHexAddress(args[1]) {
			return fmt.Errorf("invalid address %q", args[1])
		}
		return a.report(a.orch.Transfer(ctx, args[0], common.HexToAddress(args[1])))
	case "set-metadata":
		if len(args) < 2 {
			return fmt.Errorf("usage: pnsctl set-metadata <name> <key=value>...")
		}
		md, err := parseMetadata(args[1:])
		if err != nil {
			return err
		}
		return a.report(a.orch.SetMetadata(ctx, args[0], md))
	case "set-primary":
		if len(args) != 1 {
			return fmt.Errorf("usage: pnsctl set-primary <name>")
		}
		return a.report(a.orch.SetPrimary(ctx, args[0]))
	case "status":
		return a.status(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// report prints the terminal flow state; the error (if any) carries the
// reason and is surfaced by main.
func (a *app) report(result *orchestrator.Result, err error) error {
	if result != nil && result.TxHash != (common.Hash{}) {
		fmt.Printf("state: %s\ntx: %s\n", result.State, result.TxHash.Hex())
	} else if result != nil {
		fmt.Printf("state: %s\n", result.State)
	}
	return err
}

func (a *app) status(ctx context.Context, args []string) error {
	fmt.Printf("wallet: %s (%s)\n", a.w.Account().Hex(), a.w.Status())
	if balance, err := a.w.Balance(ctx); err == nil {
		fmt.Printf("balance: %s wei\n", balance.String())
	} else {
		fmt.Printf("balance: unavailable (%v)\n", err)
	}
	if primary, err := a.rslv.PrimaryName(ctx, a.w.Account().Hex()); err == nil {
		fmt.Printf("primary name: %s\n", primary)
	}

	if len(args) == 0 {
		return nil
	}

	avail, err := a.rslv.ResolveGrace(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("name: %s\nhash: %s\nstatus: %s\n", avail.Name, avail.NameHash.Hex(), avail.Status)
	if avail.Fee != nil {
		fmt.Printf("fee: %s wei (premium: %t)\n", avail.Fee.String(), avail.IsPremium)
	}
	if avail.Record != nil {
		fmt.Printf("owner: %s\nexpires: %s\n", avail.Record.Owner, avail.Record.ExpiresAt.Format(time.RFC3339))
		if len(avail.Record.Metadata) > 0 {
			fmt.Printf("metadata: %s\n", formatMetadata(avail.Record.Metadata))
		}
	}
	return nil
}

func parseMetadata(pairs []string) (domain.Metadata, error) {
	md := domain.Metadata{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata pair %q, want key=value", pair)
		}
		md[key] = value
	}
	return md, nil
}

func formatMetadata(md domain.Metadata) string {
	parts := make([]string, 0, len(md))
	for k, v := range md {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}
