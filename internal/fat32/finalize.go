package fat32

// Finalize implements §4.6: commit the new geometry to the primary boot
// sector, mirror it to the backup, fold the cluster-count delta into
// FSInfo's free_count, and erase the checkpoint. It is the last stage of
// a normal run and the terminal step of every resume path.
func Finalize(dev *SectorDevice, loaded *Loaded, plan *Plan, deviceSectors uint64) error {
	boot := loaded.Boot
	boot.SetTotalSectors32(uint32(plan.NewTotalSectors))
	boot.SetFATSize32(uint32(plan.NewFATSize))
	boot.RestoreSignature()

	if err := dev.WriteSectorAt(0, boot.Bytes()); err != nil {
		return err
	}
	if err := dev.Sync(); err != nil {
		return err
	}

	// The backup gets the identical byte buffer, not a re-derived one:
	// I4 requires byte-for-byte agreement, and any independent
	// re-encoding risks drifting on a field the accessors don't expose.
	if err := dev.WriteSectorAt(uint64(boot.BackupBootSector()), boot.Bytes()); err != nil {
		return err
	}
	if err := dev.Sync(); err != nil {
		return err
	}

	fsInfo := loaded.FSInfo
	fsInfo.AdjustFreeCount(int64(plan.NewDataClusters) - int64(plan.OldDataClusters))
	if err := dev.WriteSectorAt(uint64(boot.FSInfoSector()), fsInfo.Bytes()); err != nil {
		return err
	}
	if err := dev.Sync(); err != nil {
		return err
	}

	return ClearCheckpoint(dev, deviceSectors)
}
