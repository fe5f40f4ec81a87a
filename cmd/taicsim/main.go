// Command taicsim is a toy in-process host that drives a TAIC device
// through its full MMIO surface, standing in for the QEMU virtual machine
// monitor that would otherwise own this address space.
package main

import (
	"flag"
	"fmt"
	"os"

	taic "github.com/taic-repo/qemu-taic"
)

func main() {
	hartCount := flag.Uint("harts", 2, "number of harts")
	irqCount := flag.Uint("irqs", 6, "number of external interrupt lines")
	gqCount := flag.Uint("gq", taic.DefaultGlobalQueueCount, "number of global queues")
	lqCount := flag.Uint("lq", taic.DefaultLocalQueueCount, "local queues per global queue")
	flag.Parse()

	dev, err := taic.New(
		taic.WithHartCount(uint32(*hartCount)),
		taic.WithExternalIRQCount(uint32(*irqCount)),
		taic.WithGlobalQueueCount(uint32(*gqCount)),
		taic.WithLocalQueueCount(uint32(*lqCount)),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "taicsim: construct device:", err)
		os.Exit(1)
	}

	osID, procID := uint64(1), uint64(1)
	if err := dev.WriteWord(0x000, osID); err != nil {
		fail(err)
	}
	if err := dev.WriteWord(0x000, procID); err != nil {
		fail(err)
	}
	packed := dev.ReadWord(0x000)
	gqIdx, lqIdx := taic.UnpackAllocIdx(packed)
	fmt.Printf("alloc_gq(%d,%d) -> gq=%d lq=%d\n", osID, procID, gqIdx, lqIdx)

	idx := uint64(gqIdx)*uint64(*lqCount) + uint64(lqIdx)
	pageBase := (idx + 1) * taic.PageSize

	for i := uint64(0); i < 3; i++ {
		if err := dev.WriteWord(pageBase+0x00, 0x1000+i); err != nil {
			fail(err)
		}
	}
	for i := 0; i < 3; i++ {
		got := dev.ReadWord(pageBase + 0x08)
		fmt.Printf("lq_deq -> 0x%x\n", got)
	}

	if err := dev.WriteWord(0x008, packed); err != nil {
		fail(err)
	}

	m := dev.Metrics()
	fmt.Printf("metrics: enqueued=%d dequeued=%d allocs=%d frees=%d\n",
		m.TasksEnqueued, m.TasksDequeued, m.QueueAllocs, m.QueueFrees)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "taicsim:", err)
	os.Exit(1)
}
