package fat32

import (
	"github.com/boljen/go-bitmap"

	"github.com/blockkit/fat32grow/internal/logger"
)

// ShiftOptions configures a single run of the shifter.
type ShiftOptions struct {
	// DryRun disables every write while still performing reads, so I/O
	// errors surface early without mutating the device (§4.3).
	DryRun bool

	// SyncEvery triggers a periodic device sync after this many
	// clusters copied, for progress/durability on very large shifts.
	// Zero disables the periodic sync; it is never required for
	// correctness (§4.3, §9 open question) since the checkpoint
	// granularity is coarser than any sub-phase sync.
	SyncEvery int

	Log *logger.Logger
}

// Shift implements §4.3: copy every in-use cluster's payload from its
// old physical sector to its new physical sector, in descending
// cluster-index order so a low cluster's write can never clobber bytes
// still needed as the source for a higher one. It is idempotent: running
// it again on a partially-shifted device (the resume path) produces the
// same final bytes.
func Shift(dev *SectorDevice, fat *FATTable, plan *Plan, opts ShiftOptions) error {
	if !plan.FATGrew {
		return nil
	}

	freeBitmap := freeClusterBitmap(fat, plan.OldDataClusters)

	clusterBytes := int(plan.SectorsPerCluster) * int(plan.BytesPerSector)
	buf := make([]byte, clusterBytes)

	copied := 0
	// Highest in-use cluster down to 2, descending so a low cluster's
	// write can never overwrite bytes still needed as the source for a
	// higher one (§4.3 ordering rule). c is walked as a signed range to
	// avoid wrapping past cluster 2.
	highest := int64(plan.OldDataClusters + 1)
	for ci := highest; ci >= 2; ci-- {
		c := uint32(ci)
		if freeBitmap.Get(int(c)) {
			continue
		}

		src := ClusterToSector(plan.OldFirstDataSec, plan.SectorsPerCluster, c)
		dst := ClusterToSector(plan.NewFirstDataSec, plan.SectorsPerCluster, c)

		if err := dev.ReadSectors(src, uint32(plan.SectorsPerCluster), buf); err != nil {
			return err
		}
		if !opts.DryRun {
			if err := dev.WriteSectors(dst, uint32(plan.SectorsPerCluster), buf); err != nil {
				return err
			}
		}

		if opts.Log != nil {
			opts.Log.Debugf("shifted cluster %d: sector %d -> %d", c, src, dst)
		}

		copied++
		if !opts.DryRun && opts.SyncEvery > 0 && copied%opts.SyncEvery == 0 {
			if err := dev.Sync(); err != nil {
				return err
			}
		}
	}

	if !opts.DryRun {
		return dev.Sync()
	}
	return nil
}

// freeClusterBitmap marks every cluster in [2, oldDataClusters+1] that
// the FAT reports as free, so the shifter can skip copying bytes that
// carry no meaning. A cluster marked bad (EntryBad) is deliberately left
// unmarked here - its bytes may still matter to an operator trying to
// recover data, and the specification requires bad clusters to be
// copied regardless.
func freeClusterBitmap(fat *FATTable, oldDataClusters uint64) bitmap.Bitmap {
	bm := bitmap.New(int(oldDataClusters) + 2)
	for c := uint32(2); uint64(c) <= oldDataClusters+1; c++ {
		if fat.IsFree(c) {
			bm.Set(int(c), true)
		}
	}
	return bm
}
