package cmd

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/sparsego/coords"
	"github.com/hupe1980/sparsego/testutil"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Measure sequential and concurrent insertion throughput",
	RunE:  runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)

	assignCmd.Flags().Float64("density", 0.3, "fraction of the domain to insert")
	assignCmd.Flags().Int64("seed", 42, "seed for the inserted position set")
	_ = viper.BindPFlag("density", assignCmd.Flags().Lookup("density"))
	_ = viper.BindPFlag("seed", assignCmd.Flags().Lookup("seed"))
}

func runAssign(cmd *cobra.Command, args []string) error {
	var (
		n       = viper.GetInt("size")
		threads = viper.GetInt("threads")
		inner   = viper.GetInt("inner")
		outer   = viper.GetInt("outer")
		density = viper.GetFloat64("density")
		seed    = viper.GetInt64("seed")
	)
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	presence := make([]uint32, coords.PresenceLen(n))
	buffer := make([]uint32, coords.BufferLen(n))
	var c coords.Coordinates
	c.Attach(presence, false, buffer, n, true)

	positions := testutil.NewRNG(seed).IndexSet(n, density)
	parts := testutil.Partition(positions, threads)
	logger.WithDomain(n).Info("insertion benchmark",
		"positions", len(positions),
		"threads", threads,
	)

	seq := runRepetitions(inner, outer, func() {
		c.Clear()
		for _, i := range positions {
			c.Assign(i)
		}
	})
	fmt.Printf("sequential assign:  %s\n", seq)

	conc := runRepetitions(inner, outer, func() {
		c.Clear()
		var wg sync.WaitGroup
		for _, part := range parts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var u coords.Update
				for _, i := range part {
					if u.Full() {
						c.JoinUpdate(&u)
					}
					c.AsyncAssign(i, &u)
				}
				c.JoinUpdate(&u)
			}()
		}
		wg.Wait()
	})
	fmt.Printf("concurrent assign:  %s\n", conc)

	if c.Nonzeroes() != len(positions) {
		return fmt.Errorf("assign: expected %d nonzeroes, got %d", len(positions), c.Nonzeroes())
	}
	return nil
}
