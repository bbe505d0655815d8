package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	// Interactive toys restore the terminal in the loop; this only reports
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTOYBOX CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
