package cmd_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockkit/fat32grow/cmd/cmd"
	"github.com/blockkit/fat32grow/internal/fat32"
)

func TestExitCode_MapsFatKinds(t *testing.T) {
	require.Equal(t, 0, cmd.ExitCode(nil))
	require.Equal(t, 3, cmd.ExitCode(&fat32.Error{Kind: fat32.KindAlreadyMaxSize}))
	require.Equal(t, 4, cmd.ExitCode(&fat32.Error{Kind: fat32.KindMounted}))
	require.Equal(t, 5, cmd.ExitCode(&fat32.Error{Kind: fat32.KindNotFat32}))
	require.Equal(t, 5, cmd.ExitCode(&fat32.Error{Kind: fat32.KindBackupMismatch}))
	require.Equal(t, 5, cmd.ExitCode(&fat32.Error{Kind: fat32.KindBadFsInfo}))
	require.Equal(t, 6, cmd.ExitCode(&fat32.Error{Kind: fat32.KindUnrecoverableState}))
	require.Equal(t, 6, cmd.ExitCode(&fat32.Error{Kind: fat32.KindCheckpointMismatch}))
	require.Equal(t, 1, cmd.ExitCode(&fat32.Error{Kind: fat32.KindIO}))
}

func TestExitCode_UsageErrorMapsToTwo(t *testing.T) {
	require.Equal(t, 2, cmd.ExitCode(&cmd.UsageError{Message: "accepts 1 arg(s), received 0"}))
}

func TestDefineInfoCommand_WrongArgCountIsUsageError(t *testing.T) {
	c := cmd.DefineInfoCommand()
	c.SetArgs([]string{})
	c.SilenceUsage = true
	c.SilenceErrors = true
	err := c.Execute()

	require.Error(t, err)
	var usageErr *cmd.UsageError
	require.ErrorAs(t, err, &usageErr)
	require.Equal(t, 2, cmd.ExitCode(err))
}

// TestExecute_UnknownFlagIsUsageError exercises the real entry point
// (cmd.Execute reads os.Args), since cobra's FlagErrorFunc is only
// wired up on the root command built inside Execute and resolved via
// the subcommand's parent chain - invoking a subcommand standalone
// would bypass that inheritance and miss the bug this test guards
// against.
func TestExecute_UnknownFlagIsUsageError(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"fat32grow", "resize", "--no-such-flag", "image.img"}

	err := cmd.Execute()

	require.Error(t, err)
	var usageErr *cmd.UsageError
	require.ErrorAs(t, err, &usageErr)
	require.Equal(t, 2, cmd.ExitCode(err))
}
