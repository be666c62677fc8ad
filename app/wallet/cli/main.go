package main

import "github.com/neuradesci/ledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
