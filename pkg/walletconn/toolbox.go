package walletconn

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-wallet-toolbox/pkg/defs"
	"github.com/bsv-blockchain/go-wallet-toolbox/pkg/infra"
	"github.com/bsv-blockchain/go-wallet-toolbox/pkg/services"
	"github.com/bsv-blockchain/go-wallet-toolbox/pkg/storage"
	toolboxWallet "github.com/bsv-blockchain/go-wallet-toolbox/pkg/wallet"
	"github.com/bsv-blockchain/go-wallet-toolbox/pkg/wdk"
)

// Static error variables for err113 compliance
var (
	errPrivateKeyRequired            = errors.New("privateKey parameter is required and cannot be empty")
	errPrivateKeyAllZeros            = errors.New("private key cannot be all zeros")
	errPrivateKeyInsufficientLength  = errors.New("private key must be exactly 32 bytes (64 hex characters)")
	errPrivateKeyInsufficientEntropy = errors.New("private key appears to have insufficient entropy")
	errUnsupportedNetwork            = errors.New("unsupported network: must be 'main' or 'test'")
)

// storageName identifies this application in the toolbox storage.
const storageName = "fomtree-messages"

// NewToolboxWallet creates a server-side wallet that holds privateKeyHex
// itself, backed by the toolbox GORM storage with infra defaults. Network is
// "main" or "test".
func NewToolboxWallet(ctx context.Context, network, privateKeyHex string, logger *slog.Logger) (Wallet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bsvNetwork, err := ParseNetwork(network)
	if err != nil {
		return nil, err
	}
	if err := ValidatePrivateKey(privateKeyHex); err != nil {
		return nil, fmt.Errorf("private key validation failed: %w", err)
	}

	privKey, err := ec.PrivateKeyFromHex(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to create private key object: %w", err)
	}

	// Initialize the wallet configuration
	cfg := infra.Defaults()
	cfg.ServerPrivateKey = privateKeyHex
	cfg.BSVNetwork = bsvNetwork
	activeServices := services.New(logger, cfg.Services)

	storageManager, err := storage.NewGORMProvider(
		cfg.BSVNetwork,
		activeServices,
		storage.WithDBConfig(cfg.DBConfig),
		storage.WithFeeModel(cfg.FeeModel),
		storage.WithCommission(cfg.Commission),
		storage.WithSynchronizeTxStatuses(cfg.SynchronizeTxStatuses),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	storageIdentityKey, err := wdk.IdentityKey(cfg.ServerPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage identity key: %w", err)
	}

	if _, err := storageManager.Migrate(ctx, storageName, storageIdentityKey); err != nil {
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	wlt, err := toolboxWallet.New(bsvNetwork, privKey, storageManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	logger.Info("Toolbox wallet ready", slog.String("network", network),
		slog.String("identityKey", hex.EncodeToString(privKey.PubKey().Compressed())))
	return wlt, nil
}

// ParseNetwork maps a configured network name to the toolbox network.
func ParseNetwork(network string) (defs.BSVNetwork, error) {
	switch strings.TrimSpace(network) {
	case "main", "mainnet":
		return defs.NetworkMainnet, nil
	case "test", "testnet":
		return defs.NetworkTestnet, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedNetwork, network)
	}
}

// ValidatePrivateKey checks that privateKeyHex is 32 bytes of hex that is
// neither all zeros nor trivially repetitive.
func ValidatePrivateKey(privateKeyHex string) error {
	if strings.TrimSpace(privateKeyHex) == "" {
		return errPrivateKeyRequired
	}

	privateKeyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return fmt.Errorf("private key is not valid hex: %w", err)
	}

	if len(privateKeyBytes) != 32 {
		return fmt.Errorf("%w, got %d bytes", errPrivateKeyInsufficientLength, len(privateKeyBytes))
	}

	allZeros := true
	for _, b := range privateKeyBytes {
		if b != 0 {
			allZeros = false
			break
		}
	}
	if allZeros {
		return errPrivateKeyAllZeros
	}

	// Simple heuristic, not cryptographically rigorous
	uniqueBytes := make(map[byte]bool)
	for _, b := range privateKeyBytes {
		uniqueBytes[b] = true
	}
	if len(uniqueBytes) < 4 {
		return errPrivateKeyInsufficientEntropy
	}

	return nil
}
