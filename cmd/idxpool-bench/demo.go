package main

import (
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/indexedmem/idxpool/arena"
	"github.com/indexedmem/idxpool/arena/persist"
	"github.com/indexedmem/idxpool/bufsrc"
	"github.com/indexedmem/idxpool/config"
	"github.com/indexedmem/idxpool/examples/intrusivelist"
	"github.com/indexedmem/idxpool/examples/orderedmap"
	"github.com/indexedmem/idxpool/handlealloc"
)

var demoCapacity int

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a small end-to-end demonstration container",
	}
	cmd.PersistentFlags().IntVar(&demoCapacity, "capacity", 16, "arena capacity")
	cmd.AddCommand(newDemoListCmd(), newDemoMapCmd(), newDemoPersistCmd())
	return cmd
}

func newDemoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Push a handful of ints onto an intrusive list backed by the arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := arena.New[uint32](arena.Options{Capacity: demoCapacity, DeleteEnabled: true, Source: bufsrc.NewHeap()})
			if err != nil {
				return err
			}
			cfg := config.New[uint32](config.Options{Mode: config.Simple, ObjectSize: 0, NodeAlignment: 0})
			if err := cfg.SetArena(a); err != nil {
				return err
			}
			alloc := handlealloc.New[intrusivelist.Node[int, uint32], uint32](a, cfg, false)
			list := intrusivelist.New[int, uint32](alloc, cfg)

			for i := 1; i <= 5; i++ {
				if _, err := list.PushBack(i * i); err != nil {
					return err
				}
			}

			list.Each(func(v *int) { printInfo("%d\n", *v) })
			printInfo("arena used capacity: %s / %s slots\n", formatCount(int(a.UsedCapacity())), formatCount(int(a.Capacity())))
			return nil
		},
	}
}

func newDemoMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Put a handful of key/value pairs into an ordered map backed by the arena",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := arena.New[uint32](arena.Options{Capacity: demoCapacity, DeleteEnabled: true, Source: bufsrc.NewHeap()})
			if err != nil {
				return err
			}
			objectSize := int(unsafe.Sizeof(orderedmap.Node[int, string, uint32]{}))
			cfg := config.New[uint32](config.Options{Mode: config.Universal, ObjectSize: objectSize, NodeAlignment: 0})
			if err := cfg.SetArena(a); err != nil {
				return err
			}
			alloc := handlealloc.New[orderedmap.Node[int, string, uint32], uint32](a, cfg, true)
			m, err := orderedmap.New[int, string, uint32](alloc, cfg, func(a, b int) bool { return a < b })
			if err != nil {
				return err
			}

			for i, word := range []string{"five", "two", "eight", "one", "nine"} {
				if err := m.Put(i+1, word); err != nil {
					return err
				}
			}

			m.Each(func(k int, v string) { printInfo("%d: %s\n", k, v) })
			printInfo("arena used capacity: %s / %s slots\n", formatCount(int(a.UsedCapacity())), formatCount(int(a.Capacity())))
			return nil
		},
	}
}

func newDemoPersistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persist",
		Short: "Snapshot an arena's header and dirty ranges, then restore from them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := arena.New[uint32](arena.Options{Capacity: demoCapacity, DeleteEnabled: true, Source: bufsrc.NewHeap()})
			if err != nil {
				return err
			}
			tracker := persist.NewTracker(nil)
			a.AttachTracker(tracker)

			h1, err := a.Allocate(4)
			if err != nil {
				return err
			}
			if _, err := a.Allocate(4); err != nil {
				return err
			}
			a.Deallocate(h1, 4)

			header := persist.SnapshotHeader(a)
			encoded := header.Encode()
			printInfo("persisted header: %d bytes, dirty ranges tracked: %d\n", len(encoded), len(tracker.DebugRanges()))

			decoded, err := persist.DecodeHeader(encoded)
			if err != nil {
				return err
			}
			restored := &arena.Arena[uint32]{}
			if err := restored.SetCapacity(demoCapacity); err != nil {
				return err
			}
			if err := persist.RestoreArena(restored, bufsrc.NewHeap(), decoded); err != nil {
				return err
			}

			next, err := restored.Allocate(4)
			if err != nil {
				return err
			}
			printInfo("restored arena handed back recycled slot %d (expected %d)\n", next, h1)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newDemoCmd())
}
