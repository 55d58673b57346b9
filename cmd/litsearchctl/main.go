package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the root command and always releases what the command opened.
func execute() error {
	err := rootCmd.Execute()
	shutdown()
	return err
}
