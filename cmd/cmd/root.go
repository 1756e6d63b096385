package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "fat32grow"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - grows a FAT32 filesystem to fill its enlarged backing store",
	}
	rootCmd.SetFlagErrorFunc(flagUsageError)

	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineResizeCommand())

	return rootCmd.Execute()
}
