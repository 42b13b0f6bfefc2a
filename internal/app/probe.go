package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ahmadzendi/monitor-emas7/internal/wire"
)

// Probe performs a single fetch against both upstreams and prints the result.
// Useful for verifying credentials-free connectivity before running the monitor.
func (a *App) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	goldFetcher, usdFetcher := a.newFetchers()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "SOURCE\tFIELD\tVALUE")

	rate, goldErr := goldFetcher.FetchGoldRate(ctx)
	if goldErr != nil {
		fmt.Fprintf(w, "treasury\terror\t%v\n", goldErr)
	} else {
		fmt.Fprintf(w, "treasury\tbuying_rate\t%s\n", wire.FormatRupiah(rate.Buying))
		fmt.Fprintf(w, "treasury\tselling_rate\t%s\n", wire.FormatRupiah(rate.Selling))
		fmt.Fprintf(w, "treasury\tupdated_at\t%s\n", rate.UpdatedAt)
	}

	price, usdErr := usdFetcher.FetchQuote(ctx)
	if usdErr != nil {
		fmt.Fprintf(w, "usd/idr\terror\t%v\n", usdErr)
	} else {
		fmt.Fprintf(w, "usd/idr\tprice\t%s\n", price)
	}

	if goldErr != nil {
		return fmt.Errorf("probe treasury: %w", goldErr)
	}
	if usdErr != nil {
		return fmt.Errorf("probe usd/idr quote: %w", usdErr)
	}
	return nil
}
