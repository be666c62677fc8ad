package cmd

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var findURL string

var findCmd = &cobra.Command{
	Use:   "find [tx id]",
	Short: "Look up a transaction on the node",
	Args:  cobra.ExactArgs(1),
	Run:   findRun,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringVarP(&findURL, "url", "u", "http://localhost:8080", "Url of the node.")
}

func findRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/tx/find/%s", findURL, args[0]))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}
