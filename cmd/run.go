package cmd

import (
	"log"
	"runtime"

	"github.com/olivierh59500/cosmic-orb-go/internal/host"
	"github.com/spf13/cobra"
)

var (
	windowWidth  int
	windowHeight int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window with the orb",
	Long: `Open a resizable window with the orb.

Keys: M mounts/unmounts the orb, Esc quits.`,
	RunE: Run,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runtime.LockOSThread()

	runCmd.Flags().IntVar(&windowWidth, "width", 800, "initial window width")
	runCmd.Flags().IntVar(&windowHeight, "height", 600, "initial window height")
}

func Run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Printf("Rendering %d points", cfg.PointCount())
	return host.Run(cfg, windowWidth, windowHeight, log.Default())
}
