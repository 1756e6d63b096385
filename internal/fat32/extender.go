package fat32

// ExtendFAT implements §4.4: grow FAT #1 by zero-filling its new
// trailing sectors, then mirror the whole enlarged FAT #1 into FAT #2 at
// its new offset, byte for byte (not sector for sector, so I2 holds
// exactly even when bytesPerSector doesn't divide evenly into the
// mirrored region - it always does for FAT32, but the byte-oriented
// copy keeps the invariant explicit rather than assumed).
//
// A no-op when plan.FATGrew is false.
func ExtendFAT(dev *SectorDevice, plan *Plan) error {
	if !plan.FATGrew {
		return nil
	}

	bps := plan.BytesPerSector
	fat1Start := plan.ReservedSectors
	fat2Start := plan.ReservedSectors + plan.NewFATSize

	// 1. Zero-fill FAT #1 from its old size to its new size.
	tailSectors := plan.NewFATSize - plan.OldFATSize
	if tailSectors > 0 {
		zeroBuf := make([]byte, tailSectors*uint64(bps))
		if err := dev.WriteSectors(fat1Start+plan.OldFATSize, uint32(tailSectors), zeroBuf); err != nil {
			return err
		}
		if err := dev.Sync(); err != nil {
			return err
		}
	}

	// 2. Mirror the entire enlarged FAT #1 into FAT #2 at its new
	// offset, entries 0 and 1 included (they were already copied
	// verbatim along with the unchanged head of FAT #1, so no special
	// casing is needed here: this is a plain bulk copy).
	fat1Buf := make([]byte, plan.NewFATSize*uint64(bps))
	if err := dev.ReadSectors(fat1Start, uint32(plan.NewFATSize), fat1Buf); err != nil {
		return err
	}
	if err := dev.WriteSectors(fat2Start, uint32(plan.NewFATSize), fat1Buf); err != nil {
		return err
	}
	return dev.Sync()
}
