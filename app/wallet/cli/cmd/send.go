package cmd

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/neuradesci/ledger/foundation/ledger/crypto"
	"github.com/neuradesci/ledger/foundation/ledger/database"
	"github.com/spf13/cobra"
)

var (
	url  string
	kind string
	to   string
	data string
	fee  uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&kind, "kind", "k", string(database.KindTokenTransfer), "Kind of the transaction.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient public key.")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "Payload for the transaction.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "f", 0, "Fee to attach.")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	provider := crypto.NewReference()
	sender := crypto.PublicKey(privateKey)

	var options []database.TxOption
	if to != "" {
		options = append(options, database.WithRecipient(to))
	}
	if fee > 0 {
		options = append(options, database.WithFee(fee))
	}

	tx := database.NewTx(provider, database.Kind(kind), sender, data, options...)
	if err := tx.Sign(provider, privateKey); err != nil {
		log.Fatal(err)
	}

	payload, err := database.EncodeTx(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	fmt.Println("status :", resp.Status)
	fmt.Println("tx     :", tx.ID)
}
