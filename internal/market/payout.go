package market

import (
	"math"
	"sort"
)

// SplitPayout divides the distributable part of an order's real total across
// the fulfilling farmers, proportional to each farmer's line totals. feeRate
// is the platform's cut (0.05 = 5%). Largest-remainder rounding guarantees
// the shares sum exactly to totalCents minus the fee.
func SplitPayout(items []OrderItem, totalCents int64, feeRate float64) []FarmerPayout {
	if len(items) == 0 || totalCents <= 0 {
		return nil
	}
	if feeRate < 0 {
		feeRate = 0
	}
	fee := int64(math.Round(float64(totalCents) * feeRate))
	if fee > totalCents {
		fee = totalCents
	}
	pool := totalCents - fee

	sums := make(map[string]int64, len(items))
	lines := make(map[string][]PayoutLine, len(items))
	for _, it := range items {
		sums[it.FarmerID] += it.LineTotalCents
		lines[it.FarmerID] = append(lines[it.FarmerID], PayoutLine{
			ProductID:      it.ProductID,
			Qty:            it.Qty,
			LineTotalCents: it.LineTotalCents,
		})
	}

	type share struct {
		farmerID  string
		base      int64
		remainder int64
	}
	shares := make([]share, 0, len(sums))
	var distributed int64
	for farmerID, sum := range sums {
		base := pool * sum / totalCents
		shares = append(shares, share{
			farmerID:  farmerID,
			base:      base,
			remainder: pool * sum % totalCents,
		})
		distributed += base
	}

	// Hand out the rounding leftover, largest remainder first. Ties break on
	// farmer id so the split is deterministic across retries.
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].remainder != shares[j].remainder {
			return shares[i].remainder > shares[j].remainder
		}
		return shares[i].farmerID < shares[j].farmerID
	})
	for i := int64(0); i < pool-distributed; i++ {
		shares[i%int64(len(shares))].base++
	}

	sort.Slice(shares, func(i, j int) bool { return shares[i].farmerID < shares[j].farmerID })
	out := make([]FarmerPayout, 0, len(shares))
	for _, s := range shares {
		out = append(out, FarmerPayout{
			FarmerID:    s.farmerID,
			AmountCents: s.base,
			Lines:       lines[s.farmerID],
		})
	}
	return out
}
