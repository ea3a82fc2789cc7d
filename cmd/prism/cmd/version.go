package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/ui"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(ui.Banner())
		fmt.Println(ui.KeyValue("Version", Version))
		fmt.Println(ui.KeyValue("Commit", Commit))
		fmt.Println(ui.KeyValue("Built", BuildDate))
		fmt.Println(ui.KeyValue("Go", runtime.Version()))
		fmt.Println(ui.KeyValue("Platform", runtime.GOOS+"/"+runtime.GOARCH))
	},
}
