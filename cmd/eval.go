package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iastro-pt/gedi/gp/kernel"
)

var (
	kernelExpr string    // Kernel expression to evaluate
	evalLags   []float64 // Lags to evaluate the kernel at
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a kernel expression and its log-derivatives",
	Run: func(cmd *cobra.Command, args []string) {
		if err := evalKernel(os.Stdout, kernelExpr, evalLags); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// evalKernel prints one row per lag: the lag, the kernel value and the
// log-derivative with respect to every flattened parameter.
func evalKernel(w io.Writer, expr string, lags []float64) error {
	k, err := kernel.Parse(expr)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s\n", k)

	header := []string{"r", "k(r)"}
	for j := 0; j < kernel.Count(k); j++ {
		header = append(header, "dk/dlog p"+strconv.Itoa(j))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range lags {
		row := []string{formatFloat(r), formatFloat(k.Eval(r))}
		for _, g := range k.Grad(r) {
			row = append(row, formatFloat(g))
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func init() {
	evalCmd.Flags().StringVar(&kernelExpr, "kernel", "", "Kernel expression, e.g. \"Periodic(1, 1, 10) + WhiteNoise(0.1)\"")
	evalCmd.Flags().Float64SliceVar(&evalLags, "lags", []float64{0, 1, 2}, "Comma-separated lags")

	rootCmd.AddCommand(evalCmd)
}
