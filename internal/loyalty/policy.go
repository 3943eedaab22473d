package loyalty

import (
	"fmt"

	"go.uber.org/multierr"
)

// Policy describes how point balances convert into checkout discounts. Points are redeemed in
// whole blocks of BlockSize, each worth PercentPerBlock percent off, up to MaxBlocks blocks.
type Policy struct {
	BlockSize       int64
	PercentPerBlock int64
	MaxBlocks       int64
}

// DefaultPolicy is the storefront rule set: 2000 points per 10% block, capped at 50%.
var DefaultPolicy = Policy{
	BlockSize:       2000,
	PercentPerBlock: 10,
	MaxBlocks:       5,
}

// NewPolicy builds a validated policy.
func NewPolicy(blockSize, percentPerBlock, maxBlocks int64) (Policy, error) {
	p := Policy{
		BlockSize:       blockSize,
		PercentPerBlock: percentPerBlock,
		MaxBlocks:       maxBlocks,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate reports every rule the policy breaks.
func (p Policy) Validate() error {
	var err error
	if p.BlockSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("block size must be positive, got %d", p.BlockSize))
	}
	if p.PercentPerBlock <= 0 {
		err = multierr.Append(err, fmt.Errorf("percent per block must be positive, got %d", p.PercentPerBlock))
	}
	if p.MaxBlocks < 0 {
		err = multierr.Append(err, fmt.Errorf("max blocks must not be negative, got %d", p.MaxBlocks))
	}
	if p.PercentPerBlock > 0 && p.MaxBlocks > 0 && p.MaxBlocks*p.PercentPerBlock > 100 {
		err = multierr.Append(err, fmt.Errorf("max discount %d%% exceeds 100%%", p.MaxBlocks*p.PercentPerBlock))
	}
	return err
}

// MaxPercentage is the largest discount the policy can grant.
func (p Policy) MaxPercentage() int64 {
	return p.MaxBlocks * p.PercentPerBlock
}

// MaxPointsConsumed is the largest number of points a single order can redeem.
func (p Policy) MaxPointsConsumed() int64 {
	return p.MaxBlocks * p.BlockSize
}

func (p Policy) usableBlocks(points int64) int64 {
	if points <= 0 || p.BlockSize <= 0 {
		return 0
	}
	return min(points/p.BlockSize, p.MaxBlocks)
}
