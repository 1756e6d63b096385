package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blockkit/fat32grow/internal/devio"
	"github.com/blockkit/fat32grow/internal/fat32"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "print a FAT32 filesystem's current geometry",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
	return cmd
}

func runInfo(path string) error {
	path = devio.NormalizeVolumePath(path)

	f, err := devio.OpenFile(path, true)
	if err != nil {
		return err
	}
	defer f.Close()

	dev := fat32.NewSectorDevice(f, defaultBytesPerSectorGuess)
	// Re-derive the sector device using the filesystem's own
	// bytes_per_sector once the boot sector is readable; the guess above
	// only has to be correct enough to read sector 0.
	bootBuf, err := dev.ReadSectorAt(0)
	if err != nil {
		return err
	}
	boot, err := fat32.ParseBootSector(bootBuf)
	if err != nil {
		return err
	}
	dev = fat32.NewSectorDevice(f, uint32(boot.BytesPerSector()))

	info, err := fat32.Describe(dev, fat32.LoadOptions{
		AllowZeroSignature: true,
		SkipMountCheck:     true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("bytes_per_sector:   %d\n", info.BytesPerSector)
	fmt.Printf("sectors_per_cluster: %d\n", info.SectorsPerCluster)
	fmt.Printf("reserved_sectors:   %d\n", info.ReservedSectors)
	fmt.Printf("num_fats:           %d\n", info.NumFATs)
	fmt.Printf("fat_size:           %d sectors\n", info.FATSize)
	fmt.Printf("total_sectors:      %d (%s)\n", info.TotalSectors,
		humanize.IBytes(uint64(info.TotalSectors)*uint64(info.BytesPerSector)))
	fmt.Printf("data_clusters:      %d\n", info.DataClusters)
	fmt.Printf("root_cluster:       %d\n", info.RootCluster)
	fmt.Printf("device_sectors:     %d (%s)\n", info.DeviceSectors,
		humanize.IBytes(info.DeviceSectors*uint64(info.BytesPerSector)))
	if info.CanGrow {
		fmt.Println("can grow:           yes")
	} else {
		fmt.Println("can grow:           no")
	}

	return nil
}

// defaultBytesPerSectorGuess is used only to read sector 0 before the
// filesystem's real bytes_per_sector is known; 512 divides every
// bytes-per-sector value the loader accepts.
const defaultBytesPerSectorGuess = 512
