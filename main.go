package main

import (
	"WonFM/cmd"
	"log"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or the server started
	// cleanly and has since shut down).
	log.Println("Application command execution finished.")
}
