package fat32

// CrashPoint names one of the fault-injection points read from the
// FAT32_CRASH_AT environment variable, each sitting immediately after
// one of the orchestrator's durability barriers.
type CrashPoint string

const (
	CrashAfterCheckpointStart      CrashPoint = "after_checkpoint_start"
	CrashAfterDataShift            CrashPoint = "after_data_shift"
	CrashAfterCheckpointDataCopied CrashPoint = "after_checkpoint_data_copied"
	CrashAfterBootInvalidate       CrashPoint = "after_boot_invalidate"
	CrashAfterFatWrite             CrashPoint = "after_fat_write"
	CrashAfterCheckpointFatWritten CrashPoint = "after_checkpoint_fat_written"
)
