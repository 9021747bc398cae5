package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iastro-pt/gedi/gp/mcmc"
)

// WriteCSV writes one row per retained iteration: the log-likelihood followed
// by every flattened parameter, under a loglike,p0,p1,... header.
func WriteCSV(w io.Writer, res *mcmc.Result) error {
	if res == nil {
		return fmt.Errorf("writing trace: nil result")
	}
	cw := csv.NewWriter(w)

	header := make([]string, 0, 1+len(res.TraceParams))
	header = append(header, "loglike")
	for j := range res.TraceParams {
		header = append(header, "p"+strconv.Itoa(j))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}

	row := make([]string, len(header))
	for i, ll := range res.TraceLogLikelihood {
		row[0] = strconv.FormatFloat(ll, 'g', -1, 64)
		for j, tr := range res.TraceParams {
			if i >= len(tr) {
				return fmt.Errorf("writing trace: parameter %d has %d samples, want %d",
					j, len(tr), len(res.TraceLogLikelihood))
			}
			row[j+1] = strconv.FormatFloat(tr[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing trace row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
