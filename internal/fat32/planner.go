package fat32

import "fmt"

// Plan is the in-memory descriptor the calculator (§4.2) produces: the
// new geometry and everything the shifter/extender/finalizer need to
// carry it out.
type Plan struct {
	OldTotalSectors  uint64
	NewTotalSectors  uint64
	OldFATSize       uint64
	NewFATSize       uint64
	OldFirstDataSec  uint64
	NewFirstDataSec  uint64
	ShiftSectors     uint64
	FATGrew          bool
	OldDataClusters  uint64
	NewDataClusters  uint64
	FirstAffectedCluster uint32
	LastAffectedCluster  uint32

	ReservedSectors   uint64
	NumFATs           uint64
	SectorsPerCluster uint64
	BytesPerSector    uint32
}

// ComputePlan implements §4.2: given the validated boot sector and the
// device's current length in sectors D, compute the largest geometry
// that fits, or AlreadyMaxSize if D offers nothing more than what's
// already in use.
func ComputePlan(boot *BootSector, deviceSectors uint64) (*Plan, error) {
	spc := uint64(boot.SectorsPerCluster())
	rsvd := uint64(boot.ReservedSectors())
	nfats := uint64(boot.NumFATs())
	bps := uint32(boot.BytesPerSector())

	oldTotal := uint64(boot.TotalSectors32())
	oldFATSize := uint64(boot.FATSize32())
	oldFDS := boot.FirstDataSector()
	oldDataClusters := DataClusters(oldTotal, oldFDS, spc)

	// 1. Truncate device length down to a whole number of clusters'
	// worth of alignment isn't required by the spec at this stage; it
	// only asks that the final total never exceed D and be a multiple
	// of spc.
	newTotal := deviceSectors - (deviceSectors % spc)

	// 2. No useful growth.
	if newTotal <= oldTotal {
		return nil, newErr(KindAlreadyMaxSize, fmt.Sprintf("device offers %d sectors, filesystem already uses %d", deviceSectors, oldTotal))
	}

	// 3. Solve for the largest FAT size that leaves no slack for one
	// more cluster. Start from the old FAT size (it can only grow) and
	// increase until the FAT is big enough to index every cluster the
	// new total can support, then verify growing it further wouldn't
	// let in one more cluster (which would in turn require a bigger
	// FAT — a fixed point reached by the iteration itself).
	newFATSize := oldFATSize
	var newFDS uint64
	var newDataClusters uint64
	for {
		newFDS = FirstDataSector(rsvd, nfats, newFATSize)
		newDataClusters = DataClusters(newTotal, newFDS, spc)
		minFAT := MinFATSizeForClusters(newDataClusters, bps)
		if newFATSize >= minFAT {
			break
		}
		newFATSize++
	}

	shiftSectors := newFDS - oldFDS
	fatGrew := newFATSize > oldFATSize

	// 6. Reject sizes beyond FAT32's addressable cluster space.
	if newDataClusters > MaxDataClusters {
		return nil, newErr(KindTooLarge, fmt.Sprintf("new geometry would need %d data clusters, exceeding the FAT32 maximum of %d", newDataClusters, MaxDataClusters))
	}

	plan := &Plan{
		OldTotalSectors:   oldTotal,
		NewTotalSectors:   newTotal,
		OldFATSize:        oldFATSize,
		NewFATSize:        newFATSize,
		OldFirstDataSec:   oldFDS,
		NewFirstDataSec:   newFDS,
		ShiftSectors:      shiftSectors,
		FATGrew:           fatGrew,
		OldDataClusters:   oldDataClusters,
		NewDataClusters:   newDataClusters,
		ReservedSectors:   rsvd,
		NumFATs:           nfats,
		SectorsPerCluster: spc,
		BytesPerSector:    bps,
	}

	// 5. Affected cluster range: clusters whose old physical footprint
	// overlaps the new FAT region.
	if fatGrew {
		span := (shiftSectors + spc - 1) / spc // ceil(shiftSectors/spc)
		last := uint64(1) + span              // 2 + span - 1
		if last > oldDataClusters+1 {
			last = oldDataClusters + 1
		}
		if span > 0 {
			plan.FirstAffectedCluster = 2
			plan.LastAffectedCluster = uint32(last)
		}
	}

	return plan, nil
}
