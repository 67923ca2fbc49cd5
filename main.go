package main

import "netprofiler/cmd"

func main() {
	cmd.Execute()
}
