// score4 is a real-time server for the 4x4x4 connect game.
//
// Usage:
//
//	score4 serve             - Start the HTTP/websocket game server
//	score4 sweep             - Abandon stale unfinished games
//
// Global flags:
//
//	--config <path>  - Path to a YAML config file
//	--db <path>      - Path to the game database (overrides config)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "score4",
	Short: "score4 - real-time 4x4x4 connect game server",
	Long: `score4 serves two-player games on a 4x4x4 board over a JSON API
with websocket push. Pieces drop down vertical columns; every completed
row of four counts toward the session score.

Available commands:
  serve    - Start the game server
  sweep    - Abandon games idle past a cutoff

Examples:
  score4 serve
  score4 serve --listen :9000 --db ./games.db
  score4 sweep --max-age 24h`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to game database (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
}
