// Command recurrence analyses video frame sequences for periodic and
// quasiperiodic dynamics using PCA compression, sliding-window delay
// embeddings and persistent homology.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
