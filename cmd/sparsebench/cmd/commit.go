package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/pipeline"
	"github.com/hupe1980/sparsego/vector"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Measure fused tiled execution and the prefix-sum commit",
	Long: `commit runs a two-stage fused pipeline over a float64 vector: the
first stage inserts every third position of each tile, the second scales
the values already present. The cost measured is dominated by the tile
open/close bookkeeping and the prefix-sum merge of all tiles.`,
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	var (
		n       = viper.GetInt("size")
		threads = viper.GetInt("threads")
		inner   = viper.GetInt("inner")
		outer   = viper.GetInt("outer")
	)

	v := vector.New[float64](n)
	vals := v.Values()

	p := pipeline.New(v.Coords(), 8,
		pipeline.WithLogger(logger),
		pipeline.WithMaxWorkers(threads),
	).Add(func(ctx context.Context, view *coords.Coordinates, lower, upper int) error {
		for i := 0; i < upper-lower; i += 3 {
			if !view.Assign(i) {
				vals[lower+i] = 1
			}
		}
		return nil
	}).Add(func(ctx context.Context, view *coords.Coordinates, lower, upper int) error {
		for k := range view.Nonzeroes() {
			vals[lower+view.Index(k)] *= 1.5
		}
		return nil
	})

	ctx := cmd.Context()
	bench := runRepetitions(inner, outer, func() {
		v.Clear()
		if err := p.Execute(ctx); err != nil {
			panic(err)
		}
	})
	fmt.Printf("fused commit:  %s\n", bench)
	fmt.Printf("nonzeroes after final run: %d\n", v.Nonzeroes())
	return nil
}
