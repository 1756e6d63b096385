package fat32

import (
	"fmt"

	"github.com/blockkit/fat32grow/internal/logger"
)

// ResizeOptions configures a single orchestrator run.
type ResizeOptions struct {
	// DryRun disables every write; only reads are performed, so I/O
	// errors on the grown region surface before any commitment.
	DryRun bool

	// Force suppresses the mount-table check (the CLI's --force).
	Force bool

	SyncEvery int
	Log       *logger.Logger

	// Path is reported to IsMounted and to I/O errors; it is not used to
	// open anything here (the caller already opened dev).
	Path      string
	IsMounted func(path string) (bool, error)
}

// Result summarizes what a completed run did, for the CLI's --verbose
// reporting and for tests.
type Result struct {
	Plan       *Plan
	FATGrew    bool
	Resumed    bool
	ResumedAt  Phase
	NoopDryRun bool
}

// Resize runs the full checkpointed pipeline to grow the FAT32
// filesystem on dev to fill the device, or resumes an interrupted prior
// attempt. It is the single entry point the CLI's resize subcommand
// calls.
func Resize(dev *SectorDevice, opts ResizeOptions) (*Result, error) {
	deviceSectors, err := dev.LengthInSectors()
	if err != nil {
		return nil, err
	}

	loaded, err := Load(dev, LoadOptions{
		AllowZeroSignature: true,
		SkipMountCheck:     opts.Force,
		IsMounted:          opts.IsMounted,
		Path:               opts.Path,
	})
	if err != nil {
		return nil, err
	}

	plan, err := ComputePlan(loaded.Boot, deviceSectors)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		if plan.FATGrew {
			fat, err := readOldFAT(dev, loaded.Boot, plan)
			if err != nil {
				return nil, err
			}
			if err := Shift(dev, fat, plan, ShiftOptions{DryRun: true, Log: opts.Log}); err != nil {
				return nil, err
			}
		}
		return &Result{Plan: plan, FATGrew: plan.FATGrew, NoopDryRun: true}, nil
	}

	ck, hasCk, err := ReadCheckpoint(dev, deviceSectors)
	if err != nil {
		return nil, err
	}
	var phase Phase
	if hasCk {
		phase = ck.Phase
	}

	step, err := classifyResume(loaded.Boot.Signature(), hasCk, phase)
	if err != nil {
		return nil, err
	}

	if hasCk && !ck.Matches(plan) {
		return nil, newErr(KindCheckpointMismatch, fmt.Sprintf(
			"checkpoint (old=%d new=%d oldFAT=%d newFAT=%d) does not match current plan (old=%d new=%d oldFAT=%d newFAT=%d)",
			ck.OldTotalSectors, ck.NewTotalSectors, ck.OldFATSize, ck.NewFATSize,
			plan.OldTotalSectors, plan.NewTotalSectors, plan.OldFATSize, plan.NewFATSize))
	}

	result := &Result{Plan: plan, FATGrew: plan.FATGrew, Resumed: hasCk, ResumedAt: phase}

	if step == stepFresh && !plan.FATGrew {
		// No FAT growth means no shift, no danger zone, no checkpoint is
		// ever needed.
		if opts.Log != nil {
			opts.Log.Info("no FAT growth required; updating metadata only")
		}
		if err := Finalize(dev, loaded, plan, deviceSectors); err != nil {
			return nil, err
		}
		return result, nil
	}

	shiftOpts := ShiftOptions{SyncEvery: opts.SyncEvery, Log: opts.Log}

	if step == stepFresh || step == stepRerunShifterThen5 {
		if step == stepFresh {
			if opts.Log != nil {
				opts.Log.Info("starting resize: writing checkpoint (Started)")
			}
			if err := WriteCheckpoint(dev, deviceSectors, plan, PhaseStarted); err != nil {
				return nil, err
			}
			maybeCrash(CrashAfterCheckpointStart)
		}

		fat, err := readOldFAT(dev, loaded.Boot, plan)
		if err != nil {
			return nil, err
		}
		if opts.Log != nil {
			opts.Log.Info("shifting cluster payloads")
		}
		if err := Shift(dev, fat, plan, shiftOpts); err != nil {
			return nil, err
		}
		maybeCrash(CrashAfterDataShift)

		if err := WriteCheckpoint(dev, deviceSectors, plan, PhaseDataCopied); err != nil {
			return nil, err
		}
		maybeCrash(CrashAfterCheckpointDataCopied)
		step = stepFrom6
	}

	if step == stepFrom6 {
		if opts.Log != nil {
			opts.Log.Info("entering danger zone: invalidating boot signature")
		}
		loaded.Boot.InvalidateSignature()
		if err := dev.WriteSectorAt(0, loaded.Boot.Bytes()); err != nil {
			return nil, err
		}
		if err := dev.Sync(); err != nil {
			return nil, err
		}
		maybeCrash(CrashAfterBootInvalidate)
		step = stepFrom7
	}

	if step == stepFrom7 {
		if opts.Log != nil {
			opts.Log.Info("extending FAT")
		}
		if err := ExtendFAT(dev, plan); err != nil {
			return nil, err
		}
		maybeCrash(CrashAfterFatWrite)

		if err := WriteCheckpoint(dev, deviceSectors, plan, PhaseFatWritten); err != nil {
			return nil, err
		}
		maybeCrash(CrashAfterCheckpointFatWritten)
		step = stepFrom9
	}

	if opts.Log != nil {
		opts.Log.Info("finalizing")
	}
	if err := Finalize(dev, loaded, plan, deviceSectors); err != nil {
		return nil, err
	}
	return result, nil
}

// readOldFAT reads FAT #1 at its pre-extension size and wraps it in a
// FATTable. The FAT is always re-read from disk rather than cached
// across phase boundaries, so a resumed shifter run observes actual
// disk state.
func readOldFAT(dev *SectorDevice, boot *BootSector, plan *Plan) (*FATTable, error) {
	buf := make([]byte, plan.OldFATSize*uint64(dev.BytesPerSector()))
	if err := dev.ReadSectors(plan.ReservedSectors, uint32(plan.OldFATSize), buf); err != nil {
		return nil, err
	}
	return NewFATTable(buf), nil
}

// Info describes the current geometry for the CLI's info subcommand.
type Info struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	FATSize           uint32
	TotalSectors      uint32
	DataClusters      uint64
	RootCluster       uint32
	DeviceSectors     uint64
	CanGrow           bool
}

// Describe loads dev read-only and reports its current geometry,
// without mutating anything.
func Describe(dev *SectorDevice, opts LoadOptions) (*Info, error) {
	deviceSectors, err := dev.LengthInSectors()
	if err != nil {
		return nil, err
	}
	loaded, err := Load(dev, opts)
	if err != nil {
		return nil, err
	}
	boot := loaded.Boot

	info := &Info{
		BytesPerSector:    boot.BytesPerSector(),
		SectorsPerCluster: boot.SectorsPerCluster(),
		ReservedSectors:   boot.ReservedSectors(),
		NumFATs:           boot.NumFATs(),
		FATSize:           boot.FATSize32(),
		TotalSectors:      boot.TotalSectors32(),
		DataClusters:      boot.DataClusters(uint64(boot.TotalSectors32())),
		RootCluster:       boot.RootCluster(),
		DeviceSectors:     deviceSectors,
	}

	if _, err := ComputePlan(boot, deviceSectors); err == nil {
		info.CanGrow = true
	} else if fatErr, ok := err.(*Error); !ok || fatErr.Kind != KindAlreadyMaxSize {
		return nil, err
	}

	return info, nil
}
