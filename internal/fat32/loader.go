package fat32

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// LoadOptions configures the loader's tolerance for an interrupted
// prior run.
type LoadOptions struct {
	// AllowZeroSignature permits a 0x0000 boot signature, which only
	// happens mid-resize (§4.5's "danger zone"). The normal entry point
	// always sets this before checking for a checkpoint; the info
	// subcommand sets it as well, so it also describes a device left
	// mid-resize.
	AllowZeroSignature bool

	// SkipMountCheck suppresses check 7. Set by --force.
	SkipMountCheck bool

	// IsMounted is the external mount-detection predicate (§6). Never
	// called when SkipMountCheck is set.
	IsMounted func(path string) (bool, error)

	// Path is only used to report to IsMounted; it is not touched by
	// any other loader logic.
	Path string
}

// Loaded bundles everything the loader validated.
type Loaded struct {
	Boot       *BootSector
	Backup     *BootSector
	FSInfo     *FSInfo
	backupAddr uint64
	fsInfoAddr uint64
}

// Load runs the ordered checks from §4.1 against dev and returns a
// validated Loaded, or the first fatal error encountered.
func Load(dev *SectorDevice, opts LoadOptions) (*Loaded, error) {
	primaryBuf, err := dev.ReadSectorAt(0)
	if err != nil {
		return nil, err
	}
	boot, err := ParseBootSector(primaryBuf)
	if err != nil {
		return nil, err
	}

	// 1. Boot signature: 0xAA55, or 0x0000 only when recovery permits it.
	sig := boot.Signature()
	if sig != 0xAA55 && !(sig == 0x0000 && opts.AllowZeroSignature) {
		return nil, newFieldErr(KindNotFat32, "signature", fmt.Sprintf("boot sector signature 0x%04X is neither 0xAA55 nor a recognized mid-resize 0x0000", sig))
	}

	// 2. Geometry sanity.
	if err := validateGeometry(boot); err != nil {
		return nil, err
	}

	// 3. FAT32 cluster-count floor.
	dataClusters := boot.DataClusters(uint64(boot.TotalSectors32()))
	if dataClusters < MinDataClusters {
		return nil, newFieldErr(KindNotFat32, "data_clusters", fmt.Sprintf("only %d data clusters; FAT32 requires at least %d", dataClusters, MinDataClusters))
	}

	// 4. Root cluster sane and inside the data region.
	root := boot.RootCluster()
	if root < 2 || uint64(root)-2 >= dataClusters {
		return nil, newFieldErr(KindNotFat32, "root_cluster", fmt.Sprintf("root cluster %d is outside the data region", root))
	}

	// 5. Backup boot sector agreement.
	backupSector := uint64(boot.BackupBootSector())
	backupBuf, err := dev.ReadSectorAt(backupSector)
	if err != nil {
		return nil, err
	}
	backup, err := ParseBootSector(backupBuf)
	if err != nil {
		return nil, err
	}
	if err := compareBackupBootSector(boot, backup); err != nil {
		return nil, err
	}

	// 6. FSInfo signatures.
	fsInfoSector := uint64(boot.FSInfoSector())
	fsInfoBuf, err := dev.ReadSectorAt(fsInfoSector)
	if err != nil {
		return nil, err
	}
	fsInfo, err := ParseFSInfo(fsInfoBuf)
	if err != nil {
		return nil, err
	}

	// 7. Mount check.
	if !opts.SkipMountCheck && opts.IsMounted != nil {
		mounted, err := opts.IsMounted(opts.Path)
		if err != nil {
			return nil, &Error{Kind: KindIO, Sector: -1, Message: "mount check failed", Cause: err}
		}
		if mounted {
			return nil, newErr(KindMounted, fmt.Sprintf("%s is mounted", opts.Path))
		}
	}

	return &Loaded{
		Boot:       boot,
		Backup:     backup,
		FSInfo:     fsInfo,
		backupAddr: backupSector,
		fsInfoAddr: fsInfoSector,
	}, nil
}

func validateGeometry(boot *BootSector) error {
	switch boot.BytesPerSector() {
	case 512, 1024, 2048, 4096:
	default:
		return newFieldErr(KindNotFat32, "bytes_per_sector", fmt.Sprintf("unsupported bytes-per-sector %d", boot.BytesPerSector()))
	}
	if !isPowerOfTwo(boot.SectorsPerCluster()) || boot.SectorsPerCluster() > 128 {
		return newFieldErr(KindNotFat32, "sectors_per_cluster", fmt.Sprintf("sectors-per-cluster %d is not a power of two in [1,128]", boot.SectorsPerCluster()))
	}
	if boot.NumFATs() < 1 {
		return newFieldErr(KindNotFat32, "num_fats", "must be >= 1")
	}
	if boot.ReservedSectors() < 1 {
		return newFieldErr(KindNotFat32, "reserved_sectors", "must be >= 1")
	}
	if boot.TotalSectors16() != 0 {
		return newFieldErr(KindNotFat32, "total_sectors_16", "nonzero 16-bit total sectors; not a FAT32 volume")
	}
	minTotal := uint64(boot.ReservedSectors()) + uint64(boot.NumFATs())*uint64(boot.FATSize32()) + uint64(boot.SectorsPerCluster())
	if uint64(boot.TotalSectors32()) < minTotal {
		return newFieldErr(KindNotFat32, "total_sectors_32", "too small to hold reserved area, FATs, and one cluster")
	}
	if boot.FATSize32() < 1 {
		return newFieldErr(KindNotFat32, "fat_size_32", "must be >= 1")
	}
	return nil
}

// compareBackupBootSector walks every field the backup boot sector must
// agree with the primary on, accumulating every mismatch (not just the
// first) via hashicorp/go-multierror so an operator sees the complete
// picture in one report instead of fixing one field at a time.
func compareBackupBootSector(primary, backup *BootSector) error {
	var result *multierror.Error

	check := func(field string, a, b any) {
		if a != b {
			result = multierror.Append(result, fmt.Errorf("%s: primary=%v backup=%v", field, a, b))
		}
	}

	check("bytes_per_sector", primary.BytesPerSector(), backup.BytesPerSector())
	check("sectors_per_cluster", primary.SectorsPerCluster(), backup.SectorsPerCluster())
	check("reserved_sectors", primary.ReservedSectors(), backup.ReservedSectors())
	check("num_fats", primary.NumFATs(), backup.NumFATs())
	check("total_sectors_32", primary.TotalSectors32(), backup.TotalSectors32())
	check("fat_size_32", primary.FATSize32(), backup.FATSize32())
	check("root_cluster", primary.RootCluster(), backup.RootCluster())
	check("fs_info_sector", primary.FSInfoSector(), backup.FSInfoSector())
	check("backup_boot_sector", primary.BackupBootSector(), backup.BackupBootSector())

	// The signature is allowed to differ only when the primary is
	// mid-resize (zeroed); the backup must always read 0xAA55.
	if backup.Signature() != 0xAA55 {
		result = multierror.Append(result, fmt.Errorf("signature: backup=0x%04X, expected 0xAA55", backup.Signature()))
	}
	if primary.Signature() != 0x0000 {
		check("signature", primary.Signature(), backup.Signature())
	}

	if result.ErrorOrNil() == nil {
		return nil
	}
	return &Error{Kind: KindBackupMismatch, Sector: -1, Message: result.Error()}
}
