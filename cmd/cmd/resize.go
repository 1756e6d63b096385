package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockkit/fat32grow/internal/devio"
	"github.com/blockkit/fat32grow/internal/fat32"
	"github.com/blockkit/fat32grow/internal/logger"
	"github.com/blockkit/fat32grow/internal/mountcheck"
)

func DefineResizeCommand() *cobra.Command {
	var dryRun, verbose, force bool

	cmd := &cobra.Command{
		Use:   "resize <path>",
		Short: "grow a FAT32 filesystem to fill its enlarged backing store",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResize(args[0], dryRun, verbose, force)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "perform every check but write nothing")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log per-phase progress")
	cmd.Flags().BoolVar(&force, "force", false, "skip the mount-table check")

	return cmd
}

func runResize(path string, dryRun, verbose, force bool) error {
	path = devio.NormalizeVolumePath(path)

	level := logger.WarnLevel
	if verbose {
		level = logger.InfoLevel
	}
	log := logger.New(os.Stdout, level)

	f, err := devio.OpenFile(path, dryRun)
	if err != nil {
		return err
	}
	defer f.Close()

	dev := fat32.NewSectorDevice(f, defaultBytesPerSectorGuess)
	bootBuf, err := dev.ReadSectorAt(0)
	if err != nil {
		return err
	}
	boot, err := fat32.ParseBootSector(bootBuf)
	if err != nil {
		return err
	}
	dev = fat32.NewSectorDevice(f, uint32(boot.BytesPerSector()))

	result, err := fat32.Resize(dev, fat32.ResizeOptions{
		DryRun:    dryRun,
		Force:     force,
		SyncEvery: 1024,
		Log:       log,
		Path:      path,
		IsMounted: mountcheck.IsMounted,
	})
	if err != nil {
		return err
	}

	if result.Resumed {
		fmt.Printf("resumed interrupted resize from phase %s\n", result.ResumedAt)
	}
	if result.NoopDryRun {
		fmt.Println("dry run: no bytes were written")
	} else if !result.FATGrew {
		fmt.Println("resize complete: metadata-only update, FAT unchanged")
	} else {
		fmt.Println("resize complete")
	}
	fmt.Printf("new total sectors: %d\n", result.Plan.NewTotalSectors)
	fmt.Printf("new data clusters: %d\n", result.Plan.NewDataClusters)

	return nil
}
