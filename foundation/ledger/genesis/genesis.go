// Package genesis maintains the starting settings for a ledger instance.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Genesis represents the settings the chain is constructed with. The
// difficulty is the required count of leading zero characters in a block
// hash and the mining reward is the amount credited to a miner per block.
type Genesis struct {
	ChainName    string `json:"chain_name"`
	Difficulty   uint   `json:"difficulty"`
	MiningReward uint64 `json:"mining_reward"`
}

// New constructs genesis settings from the specified values.
func New(difficulty uint, miningReward uint64) Genesis {
	return Genesis{
		ChainName:    "neuradesci",
		Difficulty:   difficulty,
		MiningReward: miningReward,
	}
}

// Load opens and consumes a genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	return genesis, nil
}
