package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"wheelhouse/models"
	"wheelhouse/service"
)

// chi-squared critical value for 36 degrees of freedom at 95% confidence
const chiSquared95 = 50.998

// edgeWagers is one representative selection per wager type
var edgeWagers = []models.WagerRequest{
	{Stake: 1, Numbers: []int{17}},
	{Stake: 1, Numbers: []int{17, 20}},
	{Stake: 1, Numbers: []int{16, 17, 18}},
	{Stake: 1, Numbers: []int{1, 2, 4, 5}},
	{Stake: 1, Numbers: []int{31, 32, 33, 34, 35, 36}},
	{Stake: 1, Target: "column2"},
	{Stake: 1, Target: "dozen1"},
	{Stake: 1, Target: models.TargetLow},
	{Stake: 1, Target: models.TargetHigh},
	{Stake: 1, Target: models.TargetEven},
	{Stake: 1, Target: models.TargetOdd},
	{Stake: 1, Target: models.TargetRed},
	{Stake: 1, Target: models.TargetBlack},
}

// EdgeRow is the simulated return of one wager type
type EdgeRow struct {
	Type        models.WagerType
	Covered     int
	Hits        int
	Staked      int64
	Returned    int64
	RTP         float64
	ExpectedRTP float64
}

// EdgeReport summarises a Monte-Carlo run of the wheel
type EdgeReport struct {
	Spins        int
	PocketCounts [models.PocketCount]int
	ChiSquared   float64
	Rows         []EdgeRow
}

// SimulateEdge spins wheel the given number of times and settles one unit
// wager of every type against each result
func SimulateEdge(wheel *service.Wheel, spins int) (*EdgeReport, error) {
	if spins <= 0 {
		return nil, fmt.Errorf("spins must be positive")
	}

	wagers := make([]models.Wager, 0, len(edgeWagers))
	for _, req := range edgeWagers {
		cls, err := service.Classify(req)
		if err != nil {
			return nil, fmt.Errorf("classify %v: %w", req, err)
		}
		wagers = append(wagers, models.Wager{
			Type:        cls.Type,
			Stake:       req.Stake,
			Pockets:     cls.Pockets,
			Target:      cls.Target,
			PayoutRatio: cls.PayoutRatio,
		})
	}

	report := &EdgeReport{Spins: spins, Rows: make([]EdgeRow, len(wagers))}
	for i, w := range wagers {
		covered := coveredPockets(w)
		report.Rows[i] = EdgeRow{
			Type:        w.Type,
			Covered:     covered,
			ExpectedRTP: float64((w.PayoutRatio+1)*int64(covered)) / models.PocketCount,
		}
	}

	for range spins {
		result, err := wheel.Spin()
		if err != nil {
			return nil, err
		}
		report.PocketCounts[result.Pocket]++

		settlement := service.Settle(wagers, result)
		for i, o := range settlement.Outcomes {
			row := &report.Rows[i]
			row.Staked += o.Wager.Stake
			row.Returned += o.Payout
			if o.Won {
				row.Hits++
			}
		}
	}

	expected := float64(spins) / models.PocketCount
	for _, n := range report.PocketCounts {
		report.ChiSquared += math.Pow(float64(n)-expected, 2) / expected
	}
	for i := range report.Rows {
		row := &report.Rows[i]
		row.RTP = float64(row.Returned) / float64(row.Staked)
	}
	return report, nil
}

// coveredPockets counts the pockets on which w wins
func coveredPockets(w models.Wager) int {
	n := 0
	for p := models.MinPocket; p <= models.MaxPocket; p++ {
		if service.Wins(w, models.NewSpinResult(p)) {
			n++
		}
	}
	return n
}

// WriteEdgeReport prints report as a table
func WriteEdgeReport(out io.Writer, report *EdgeReport) {
	fmt.Fprintf(out, "=== Wheel edge analysis: %d spins ===\n\n", report.Spins)
	fmt.Fprintf(out, "%-10s %7s %9s %9s %9s %9s\n", "Type", "Covers", "Hit %", "RTP %", "Fair %", "Edge %")
	fmt.Fprintln(out, strings.Repeat("-", 58))
	for _, row := range report.Rows {
		hitRate := float64(row.Hits) / float64(report.Spins) * 100
		fmt.Fprintf(out, "%-10s %7d %9.3f %9.3f %9.3f %9.3f\n",
			row.Type, row.Covered, hitRate, row.RTP*100, row.ExpectedRTP*100, (1-row.RTP)*100)
	}

	fmt.Fprintf(out, "\nχ² (pocket uniformity): %.2f (should be < %.2f for 95%% confidence with 36 df)", report.ChiSquared, chiSquared95)
	if report.ChiSquared < chiSquared95 {
		fmt.Fprintln(out, " ✓ PASS")
	} else {
		fmt.Fprintln(out, " ✗ FAIL")
	}
}

// Edge runs the edge subcommand: wheelhouse edge [spins]
func Edge(args []string, out io.Writer) error {
	spins := 1_000_000
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid spin count %q: %w", args[0], err)
		}
		spins = n
	}

	report, err := SimulateEdge(service.NewWheel(service.NewCryptoSource()), spins)
	if err != nil {
		return err
	}
	WriteEdgeReport(out, report)
	return nil
}
