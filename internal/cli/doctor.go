package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/keyring"
)

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: storage reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", ctx.Store.Describe())
	}

	// Check 2: basic reads work end to end
	if err := checkReads(ctx); err != nil {
		fmt.Printf("❌ Data readable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Data readable: OK\n")
	}

	// Check 3: OS keyring (warning only, local-only use never needs it)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: unavailable, remote sync credentials cannot be stored\n")
	}

	// Check 4: concurrent gritday processes. The save queue orders writes
	// within one process only; a second running copy means last-write-wins
	// races on the same records.
	if others, err := findOtherInstances(); err != nil {
		fmt.Printf("⚠ Process check: could not list processes: %v\n", err)
	} else if len(others) > 0 {
		fmt.Printf("⚠ Another gritday process is running (pid %v), concurrent edits race\n", others)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	// Check 5: clock sanity, dates drive every record key
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		fmt.Printf("❌ System clock: FAIL (%s)\n", now.Format(time.RFC3339))
		hasError = true
	} else {
		fmt.Printf("✓ System clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkReads(ctx *Context) error {
	if _, err := ctx.Store.GetPresets(); err != nil {
		return fmt.Errorf("presets: %w", err)
	}
	if _, err := ctx.Store.GetProgress(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	return nil
}

// findOtherInstances returns pids of other running gritday processes.
func findOtherInstances() ([]int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	self := os.Getpid()
	var pids []int
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == constants.AppName {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}
