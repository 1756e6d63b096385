package fat32

import "fmt"

// ResumeStep names the orchestrator step (§4.5) a resumed run should
// continue from.
type ResumeStep int

const (
	// stepFresh means: no checkpoint, proceed as a brand-new resize.
	stepFresh ResumeStep = iota
	// stepRerunShifterThen5 reruns the shifter (idempotent) then
	// continues from step 5 (write DataCopied checkpoint).
	stepRerunShifterThen5
	// stepFrom6 continues from step 6 (invalidate boot signature).
	stepFrom6
	// stepFrom7 continues from step 7 (run the FAT extender).
	stepFrom7
	// stepFrom9 continues from step 9 (finalize).
	stepFrom9
)

// classifyResume implements the §4.5 resume dispatch table: a lookup
// over (observed boot signature, checkpoint phase) pairs, not ad-hoc
// conditionals, per §9's variant-type guidance.
func classifyResume(bootSig uint16, hasCheckpoint bool, phase Phase) (ResumeStep, error) {
	zeroed := bootSig == 0x0000
	valid := bootSig == 0xAA55

	switch {
	case !hasCheckpoint && valid:
		return stepFresh, nil
	case !hasCheckpoint && zeroed:
		return 0, newErr(KindUnrecoverableState, "boot signature invalidated but no usable checkpoint is present")
	case valid && phase == PhaseStarted:
		return stepRerunShifterThen5, nil
	case valid && phase == PhaseDataCopied:
		return stepFrom6, nil
	case zeroed && phase == PhaseDataCopied:
		return stepFrom7, nil
	case zeroed && phase == PhaseFatWritten:
		return stepFrom9, nil
	case valid && phase == PhaseFatWritten:
		// Inconsistent: a FatWritten checkpoint implies the FAT
		// extension committed, which only happens after the boot
		// signature was invalidated. A valid signature here means step
		// 9 itself was interrupted after restoring it but before the
		// checkpoint was erased; treat it as step 9 still pending.
		return stepFrom9, nil
	default:
		return 0, newErr(KindUnrecoverableState, fmt.Sprintf("unrecognized recovery state: signature=0x%04X phase=%s", bootSig, phase))
	}
}
