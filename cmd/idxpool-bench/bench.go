package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/internal/obslog"
)

type benchSlot struct {
	link  uint32
	value [12]byte
}

var printer = message.NewPrinter(language.English)

func formatCount(n int) string {
	return printer.Sprint(number.Decimal(n))
}

var (
	benchCapacity int
	benchOps      int
	benchThreads  int
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run allocate/deallocate throughput benchmarks",
	}
	cmd.PersistentFlags().IntVar(&benchCapacity, "capacity", 1_000_000, "arena capacity")
	cmd.PersistentFlags().IntVar(&benchOps, "ops", 100_000, "allocate+deallocate cycles per thread")
	cmd.AddCommand(newBenchSTCmd(), newBenchMTCmd())
	return cmd
}

func newBenchSTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "st",
		Short: "Benchmark the single-threaded slab arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				obslog.Init(obslog.Options{Level: slog.LevelDebug})
			}
			a, err := arena.New[uint32](arena.Options{Capacity: benchCapacity, DeleteEnabled: true, Source: bufsrc.NewHeap()})
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchOps; i++ {
				h, err := a.Allocate(int(unsafe.Sizeof(benchSlot{})))
				if err != nil {
					return fmt.Errorf("allocate at cycle %d: %w", i, err)
				}
				a.Deallocate(h, int(unsafe.Sizeof(benchSlot{})))
			}
			elapsed := time.Since(start)

			printInfo("st: capacity=%s ops=%s elapsed=%s (%.1f ns/op)\n",
				formatCount(benchCapacity), formatCount(benchOps), elapsed,
				float64(elapsed.Nanoseconds())/float64(benchOps))
			return nil
		},
	}
}

func newBenchMTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mt",
		Short: "Benchmark the multi-threaded slab arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				obslog.Init(obslog.Options{Level: slog.LevelDebug})
			}
			a, err := arena.NewMT[uint32](arena.Options{Capacity: benchCapacity, DeleteEnabled: true, Source: bufsrc.NewHeap()})
			if err != nil {
				return err
			}

			start := time.Now()
			var wg sync.WaitGroup
			errs := make(chan error, benchThreads)
			for t := 0; t < benchThreads; t++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < benchOps; i++ {
						h, err := a.Allocate(int(unsafe.Sizeof(benchSlot{})))
						if err != nil {
							errs <- fmt.Errorf("allocate at cycle %d: %w", i, err)
							return
						}
						a.Deallocate(h, int(unsafe.Sizeof(benchSlot{})))
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				return err
			}
			elapsed := time.Since(start)

			total := benchOps * benchThreads
			printInfo("mt: capacity=%s threads=%d ops/thread=%s total=%s elapsed=%s (%.1f ns/op)\n",
				formatCount(benchCapacity), benchThreads, formatCount(benchOps), formatCount(total), elapsed,
				float64(elapsed.Nanoseconds())/float64(total))
			return nil
		},
	}
	cmd.Flags().IntVar(&benchThreads, "threads", 2, "concurrent goroutines")
	return cmd
}

func init() {
	rootCmd.AddCommand(newBenchCmd())
}
