package main

import "github.com/zintix-labs/qplant/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(execute, cfg.pprofmode)
}
