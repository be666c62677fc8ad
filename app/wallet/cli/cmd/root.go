// Package cmd contains the wallet commands.
package cmd

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
)

const (
	keyExtension = ".ecdsa"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zledger/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Simple wallet for the ledger",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}

// loadPrivateKey reads the ECDSA key file and returns the raw key material
// hex encoded, which is the form the signing provider expects.
func loadPrivateKey() (string, error) {
	privateKey, err := ethcrypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(ethcrypto.FromECDSA(privateKey)), nil
}
