// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
)

// task 為一個開發腳本工作
type task struct {
	desc string
	run  func() error
}

var tasks = map[string]task{
	"test":        {"go test ./... -cover -count=1, only ok/FAIL lines", runTest},
	"test-all":    {"go test -cover ./...", runTestAll},
	"test-detail": {"go test ./... -v -count=1 without [no test files]", runTestDetail},
	"agreement":   {"simulated vs closed form at (pi/2, pi/2), 256 runs", runAgreement},
	"advise":      {"classical vs quantum advice over the demo dataset", runAdvise},
}

var (
	printGreen  = color.New(color.FgGreen).PrintlnFunc()
	printRed    = color.New(color.FgRed).PrintlnFunc()
	printYellow = color.New(color.FgYellow).PrintlnFunc()
)

func main() {
	exeCmd()
}

func exeCmd() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		printYellow(fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := t.run(); err != nil {
		printRed(fmt.Sprintf("\n%s finished with errors: %v", name, err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].desc)
	}
}
